package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/shandysiswandi/goprofile/internal/pkg/pkgerror"
	"github.com/shandysiswandi/goprofile/internal/pkg/pkgrouter"
)

const (
	defaultPageSize     = 50
	maxPageSize         = 500
	defaultReportsLimit = 20
	maxReportsLimit     = 100
)

type HTTPEndpoint struct {
	uc             uc
	maxUploadBytes int64
}

func (h *HTTPEndpoint) Upload(ctx context.Context, r *http.Request) (any, error) {
	if r.Body != nil && h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(nil, r.Body, h.maxUploadBytes)
	}

	fileName, reader, cleanup, err := extractUpload(r)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	pr, pw := io.Pipe()
	result, err := h.uc.Upload(ctx, fileName, pr)
	if err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return nil, err
	}

	if err := streamToPipe(reader, pw); err != nil {
		return nil, bodyErr(err, pkgerror.NewServer(err))
	}

	return UploadResponse{UploadID: result.UploadID}, nil
}

func (h *HTTPEndpoint) Status(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Status(ctx, pkgrouter.GetParam(ctx, "id"))
	if err != nil {
		return nil, err
	}

	return StatusResponse{
		UploadID:  result.UploadID,
		FileName:  result.FileName,
		Status:    result.Status,
		Error:     result.Err,
		StartedAt: result.StartedAt,
		EndedAt:   result.EndedAt,
		Rows:      result.Rows,
		Columns:   result.Columns,
	}, nil
}

func (h *HTTPEndpoint) Report(ctx context.Context, r *http.Request) (any, error) {
	report, err := h.uc.Report(ctx, pkgrouter.GetParam(ctx, "id"))
	if err != nil {
		return nil, err
	}

	return json.RawMessage(report), nil
}

func (h *HTTPEndpoint) Markdown(ctx context.Context, r *http.Request) (any, error) {
	md, err := h.uc.Markdown(ctx, pkgrouter.GetParam(ctx, "id"))
	if err != nil {
		return nil, err
	}

	return &pkgrouter.File{
		Name:        "analytics_report.md",
		ContentType: "text/markdown; charset=utf-8",
		Data:        md,
	}, nil
}

func (h *HTTPEndpoint) Rows(ctx context.Context, r *http.Request) (any, error) {
	page, pageSize, err := parsePagination(r)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Rows(ctx, pkgrouter.GetParam(ctx, "id"), page, pageSize)
	if err != nil {
		return nil, err
	}

	return RowsResponse{
		UploadID: result.UploadID,
		Columns:  result.Columns,
		Rows:     result.Rows,
		page:     result.Page,
		pageSize: result.PageSize,
		total:    result.Total,
	}, nil
}

func (h *HTTPEndpoint) Describe(ctx context.Context, r *http.Request) (any, error) {
	return h.uc.Describe(ctx, pkgrouter.GetParam(ctx, "id"))
}

func (h *HTTPEndpoint) Charts(ctx context.Context, r *http.Request) (any, error) {
	uploadID := pkgrouter.GetParam(ctx, "id")
	charts, err := h.uc.Charts(ctx, uploadID)
	if err != nil {
		return nil, err
	}

	resp := ChartsResponse{UploadID: uploadID, Charts: make([]Chart, 0, len(charts))}
	for _, c := range charts {
		resp.Charts = append(resp.Charts, Chart{
			Name:    c.Name,
			Title:   c.Title,
			Kind:    c.Kind,
			Columns: c.Columns,
			URL:     "/datasets/" + url.PathEscape(uploadID) + "/charts/" + url.PathEscape(c.Name),
		})
	}

	return resp, nil
}

func (h *HTTPEndpoint) Chart(ctx context.Context, r *http.Request) (any, error) {
	c, err := h.uc.Chart(ctx, pkgrouter.GetParam(ctx, "id"), pkgrouter.GetParam(ctx, "name"))
	if err != nil {
		return nil, err
	}

	return &pkgrouter.File{
		Name:        c.Name + ".png",
		ContentType: "image/png",
		Data:        c.PNG,
	}, nil
}

func (h *HTTPEndpoint) Export(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Export(ctx, pkgrouter.GetParam(ctx, "id"))
	if err != nil {
		return nil, err
	}

	resp := ExportResponse{
		UploadID: result.UploadID,
		Report: Link{
			Label:    result.Report.Label,
			FileName: result.Report.FileName,
			Href:     result.Report.Href,
			HTML:     result.Report.HTML(),
		},
		Figures: make([]Link, 0, len(result.Figures)),
	}
	for _, f := range result.Figures {
		resp.Figures = append(resp.Figures, Link{
			Label:    f.Label,
			FileName: f.FileName,
			Href:     f.Href,
			HTML:     f.HTML(),
		})
	}

	return resp, nil
}

func (h *HTTPEndpoint) Reports(ctx context.Context, r *http.Request) (any, error) {
	limit, err := pkgrouter.QueryInt(r, "limit", defaultReportsLimit, maxReportsLimit)
	if err != nil {
		return nil, pkgerror.NewInvalidInput(err)
	}

	reports, err := h.uc.Reports(ctx, limit)
	if err != nil {
		return nil, err
	}

	return ReportsResponse{Reports: reports, limit: limit}, nil
}

func (h *HTTPEndpoint) ArchivedReport(ctx context.Context, r *http.Request) (any, error) {
	id, err := pkgrouter.ParamInt64(ctx, "id")
	if err != nil {
		return nil, pkgerror.NewInvalidInput(err)
	}

	report, err := h.uc.ArchivedReport(ctx, id)
	if err != nil {
		return nil, err
	}

	return ArchivedReportResponse{
		ID:        report.ID,
		UploadID:  report.UploadID,
		FileName:  report.FileName,
		Rows:      report.Rows,
		Columns:   report.Columns,
		CreatedAt: report.CreatedAt,
		Report:    json.RawMessage(report.ReportJSON),
	}, nil
}

func parsePagination(r *http.Request) (int, int, error) {
	page, err := pkgrouter.QueryInt(r, "page", 1, 0)
	if err != nil {
		return 0, 0, pkgerror.NewInvalidInput(err)
	}

	pageSize, err := pkgrouter.QueryInt(r, "page_size", defaultPageSize, maxPageSize)
	if err != nil {
		return 0, 0, pkgerror.NewInvalidInput(err)
	}

	return page, pageSize, nil
}

func extractUpload(r *http.Request) (string, io.ReadCloser, func(), error) {
	contentType := r.Header.Get("Content-Type")
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil && strings.EqualFold(mediaType, "multipart/form-data") {
			return extractMultipartFile(r)
		}
	}

	if r.Body == nil || r.Body == http.NoBody {
		return "", nil, func() {}, pkgerror.NewInvalidInput(errors.New("empty request body"))
	}

	fileName := strings.TrimSpace(r.URL.Query().Get("filename"))
	if fileName == "" {
		return "", nil, func() {}, pkgerror.NewInvalidInput(errors.New("filename query parameter is required"))
	}

	return fileName, r.Body, func() {}, nil
}

func extractMultipartFile(r *http.Request) (string, io.ReadCloser, func(), error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return "", nil, func() {}, pkgerror.NewInvalidFormat()
	}

	for {
		part, err := reader.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", nil, func() {}, pkgerror.NewInvalidInput(errors.New("file part is required"))
			}
			return "", nil, func() {}, bodyErr(err, pkgerror.NewInvalidFormat())
		}

		if part.FormName() == "file" {
			return part.FileName(), part, func() { _ = part.Close() }, nil
		}
		_ = part.Close()
	}
}

func streamToPipe(src io.Reader, dst *io.PipeWriter) error {
	defer func() {
		_ = dst.Close()
	}()

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.CloseWithError(err)
		return err
	}

	return nil
}

// bodyErr maps a body read failure caused by the upload cap to a 413 and
// returns fallback otherwise.
func bodyErr(err, fallback error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return pkgerror.NewTooLarge(err)
	}
	return fallback
}
