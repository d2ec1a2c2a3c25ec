package inbound

import (
	"context"
	"io"
	"net/http"

	"github.com/shandysiswandi/goprofile/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/goprofile/internal/profile/entity"
	"github.com/shandysiswandi/goprofile/internal/profile/usecase"
)

type uc interface {
	Upload(ctx context.Context, fileName string, r io.Reader) (usecase.UploadResult, error)
	Status(ctx context.Context, uploadID string) (usecase.StatusResult, error)
	Report(ctx context.Context, uploadID string) ([]byte, error)
	Markdown(ctx context.Context, uploadID string) ([]byte, error)
	Rows(ctx context.Context, uploadID string, page, pageSize int) (usecase.RowsResult, error)
	Describe(ctx context.Context, uploadID string) (entity.DescribeTable, error)
	Charts(ctx context.Context, uploadID string) ([]entity.Chart, error)
	Chart(ctx context.Context, uploadID, name string) (entity.Chart, error)
	Export(ctx context.Context, uploadID string) (usecase.ExportResult, error)
	Reports(ctx context.Context, limit int) ([]entity.ArchivedReport, error)
	ArchivedReport(ctx context.Context, id int64) (entity.ArchivedReport, error)
}

// RegisterHTTPEndpoint mounts the UI and the dataset API. maxUploadBytes caps
// the upload body; zero disables the cap.
func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, maxUploadBytes int64) {
	end := &HTTPEndpoint{uc: uc, maxUploadBytes: maxUploadBytes}

	r.Handle(http.MethodGet, "/", http.HandlerFunc(end.Index))

	r.POST("/datasets", end.Upload) // multipart "file" or raw body with ?filename=
	r.GET("/datasets/:id", end.Status)
	r.GET("/datasets/:id/report", end.Report)
	r.GET("/datasets/:id/report.md", end.Markdown)
	r.GET("/datasets/:id/rows", end.Rows) // ?page=&page_size=
	r.GET("/datasets/:id/describe", end.Describe)
	r.GET("/datasets/:id/charts", end.Charts)
	r.GET("/datasets/:id/charts/:name", end.Chart)
	r.GET("/datasets/:id/export", end.Export)

	r.GET("/reports", end.Reports) // ?limit=
	r.GET("/reports/:id", end.ArchivedReport)
}
