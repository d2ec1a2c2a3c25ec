package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/shandysiswandi/goprofile/internal/pkg/pkgerror"
	"github.com/shandysiswandi/goprofile/internal/pkg/pkglog"
	"github.com/shandysiswandi/goprofile/internal/pkg/pkgtrace"
	"github.com/shandysiswandi/goprofile/internal/pkg/pkguid"
	"github.com/shandysiswandi/goprofile/internal/profile/entity"
	"github.com/shandysiswandi/goprofile/internal/profile/export"
	"github.com/shandysiswandi/goprofile/internal/profile/loader"
	"github.com/shandysiswandi/goprofile/internal/profile/profiler"
)

// ErrPanic wraps a panic raised while analyzing an upload.
var ErrPanic = errors.New("analysis panicked")

type Store interface {
	CreateUpload(ctx context.Context, meta entity.UploadMeta) error
	UpdateMeta(ctx context.Context, uploadID string, fn func(meta *entity.UploadMeta)) error
	SaveResult(ctx context.Context, uploadID string, result *entity.Result) error
	GetMeta(ctx context.Context, uploadID string) (entity.UploadMeta, error)
	GetResult(ctx context.Context, uploadID string) (*entity.Result, entity.UploadMeta, error)
}

type Loader interface {
	Load(ctx context.Context, fileName string, r io.Reader) (*entity.Dataset, error)
}

type Profiler interface {
	Generate(ds *entity.Dataset) entity.Report
	Describe(ds *entity.Dataset) entity.DescribeTable
}

type Renderer interface {
	Render(ctx context.Context, ds *entity.Dataset, corr *entity.CorrelationMatrix) ([]entity.Chart, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.ProfiledEvent) error
}

type History interface {
	List(ctx context.Context, limit int) ([]entity.ArchivedReport, error)
	Get(ctx context.Context, id int64) (entity.ArchivedReport, error)
}

type Runner interface {
	Go(ctx context.Context, f func(ctx context.Context) error) error
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Store    Store
	Loader   Loader
	Profiler Profiler
	Renderer Renderer
	Events   EventPublisher
	History  History
	Runner   Runner
	Clock    Clock
	ID       pkguid.StringID
	RootCtx  context.Context
}

type Usecase struct {
	store    Store
	loader   Loader
	profiler Profiler
	renderer Renderer
	events   EventPublisher
	history  History
	runner   Runner
	clock    Clock
	id       pkguid.StringID
	rootCtx  context.Context
}

func New(dep Dependency) *Usecase {
	root := dep.RootCtx
	if root == nil {
		root = context.Background()
	}

	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	return &Usecase{
		store:    dep.Store,
		loader:   dep.Loader,
		profiler: dep.Profiler,
		renderer: dep.Renderer,
		events:   dep.Events,
		history:  dep.History,
		runner:   dep.Runner,
		clock:    clock,
		id:       dep.ID,
		rootCtx:  root,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// ErrorMessage is the text stored on an upload whose analysis failed.
func ErrorMessage(err error) string {
	return "An error occurred: " + err.Error()
}

// Upload registers a new upload and analyzes r in the background. r must stay
// readable until the analysis drains it.
func (u *Usecase) Upload(ctx context.Context, fileName string, r io.Reader) (UploadResult, error) {
	if u.store == nil || u.id == nil || u.runner == nil || u.loader == nil || u.profiler == nil {
		return UploadResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	if err := validateFileName(fileName); err != nil {
		return UploadResult{}, err
	}

	uploadID := u.id.Generate()
	if err := u.store.CreateUpload(ctx, entity.UploadMeta{
		ID:       uploadID,
		FileName: fileName,
		Status:   entity.UploadStatusQueued,
	}); err != nil {
		return UploadResult{}, normalizeErr(err)
	}

	bg := pkglog.CopyCorrelationID(u.rootCtx, ctx)
	if err := u.runner.Go(bg, func(ctx context.Context) error {
		if err := u.processUpload(ctx, uploadID, fileName, r); err != nil {
			slog.ErrorContext(ctx, "upload processing failed", "upload_id", uploadID, "error", err)
			return err
		}
		return nil
	}); err != nil {
		_ = u.store.UpdateMeta(ctx, uploadID, func(meta *entity.UploadMeta) {
			meta.Status = entity.UploadStatusFailed
			meta.Err = ErrorMessage(err)
		})
		return UploadResult{}, pkgerror.NewServer(err)
	}

	return UploadResult{UploadID: uploadID}, nil
}

// Analyze loads and profiles r synchronously.
func (u *Usecase) Analyze(ctx context.Context, fileName string, r io.Reader) (*entity.Result, error) {
	if u.loader == nil || u.profiler == nil {
		return nil, pkgerror.NewServer(errors.New("missing dependency"))
	}

	if err := validateFileName(fileName); err != nil {
		return nil, err
	}

	return u.safeAnalyze(ctx, fileName, r)
}

func (u *Usecase) Status(ctx context.Context, uploadID string) (StatusResult, error) {
	if uploadID == "" {
		return StatusResult{}, pkgerror.NewInvalidInput(errors.New("upload_id is required"))
	}

	meta, err := u.store.GetMeta(ctx, uploadID)
	if err != nil {
		return StatusResult{}, mapStoreErr(err)
	}

	return StatusResult{
		UploadID:  meta.ID,
		FileName:  meta.FileName,
		Status:    meta.Status,
		Err:       meta.Err,
		StartedAt: meta.StartedAt,
		EndedAt:   meta.EndedAt,
		Rows:      meta.Rows,
		Columns:   meta.Columns,
	}, nil
}

// Report returns the JSON report of a finished upload.
func (u *Usecase) Report(ctx context.Context, uploadID string) ([]byte, error) {
	res, err := u.result(ctx, uploadID)
	if err != nil {
		return nil, err
	}

	return res.ReportJSON, nil
}

func (u *Usecase) Markdown(ctx context.Context, uploadID string) ([]byte, error) {
	res, err := u.result(ctx, uploadID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.Markdown(&buf, res.Report, res.Describe); err != nil {
		return nil, pkgerror.NewServer(err)
	}

	return buf.Bytes(), nil
}

func (u *Usecase) Rows(ctx context.Context, uploadID string, page, pageSize int) (RowsResult, error) {
	if page < 1 || pageSize < 1 {
		return RowsResult{}, pkgerror.NewInvalidInput(errors.New("invalid pagination"))
	}

	res, err := u.result(ctx, uploadID)
	if err != nil {
		return RowsResult{}, err
	}

	return RowsResult{
		UploadID: uploadID,
		Columns:  res.Dataset.Header(),
		Rows:     res.Dataset.Rows((page-1)*pageSize, pageSize),
		Page:     page,
		PageSize: pageSize,
		Total:    res.Dataset.NumRows,
	}, nil
}

func (u *Usecase) Describe(ctx context.Context, uploadID string) (entity.DescribeTable, error) {
	res, err := u.result(ctx, uploadID)
	if err != nil {
		return entity.DescribeTable{}, err
	}

	return res.Describe, nil
}

func (u *Usecase) Charts(ctx context.Context, uploadID string) ([]entity.Chart, error) {
	res, err := u.result(ctx, uploadID)
	if err != nil {
		return nil, err
	}

	return res.Charts, nil
}

func (u *Usecase) Chart(ctx context.Context, uploadID, name string) (entity.Chart, error) {
	res, err := u.result(ctx, uploadID)
	if err != nil {
		return entity.Chart{}, err
	}

	c, ok := res.Chart(name)
	if !ok {
		return entity.Chart{}, pkgerror.NewBusiness("chart not found", pkgerror.CodeNotFound)
	}

	return c, nil
}

// Export returns the download links for the report and every figure.
func (u *Usecase) Export(ctx context.Context, uploadID string) (ExportResult, error) {
	res, err := u.result(ctx, uploadID)
	if err != nil {
		return ExportResult{}, err
	}

	return ExportResult{
		UploadID: uploadID,
		Report:   export.ReportLink(res.ReportJSON),
		Figures:  export.FigureLinks(res.Charts),
	}, nil
}

// Reports lists archived reports, newest first.
func (u *Usecase) Reports(ctx context.Context, limit int) ([]entity.ArchivedReport, error) {
	if limit < 1 {
		return nil, pkgerror.NewInvalidInput(errors.New("invalid limit"))
	}

	if u.history == nil {
		return []entity.ArchivedReport{}, nil
	}

	reports, err := u.history.List(ctx, limit)
	if err != nil {
		return nil, normalizeErr(err)
	}

	return reports, nil
}

// ArchivedReport returns one archived report including its JSON.
func (u *Usecase) ArchivedReport(ctx context.Context, id int64) (entity.ArchivedReport, error) {
	if u.history == nil {
		return entity.ArchivedReport{}, pkgerror.NewBusiness("report not found", pkgerror.CodeNotFound)
	}

	report, err := u.history.Get(ctx, id)
	if errors.Is(err, pkgerror.ErrNotFound) {
		return entity.ArchivedReport{}, pkgerror.NewBusiness("report not found", pkgerror.CodeNotFound)
	}
	if err != nil {
		return entity.ArchivedReport{}, normalizeErr(err)
	}

	return report, nil
}

func (u *Usecase) result(ctx context.Context, uploadID string) (*entity.Result, error) {
	if uploadID == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("upload_id is required"))
	}

	res, meta, err := u.store.GetResult(ctx, uploadID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	switch meta.Status {
	case entity.UploadStatusDone:
		return res, nil
	case entity.UploadStatusFailed:
		return nil, pkgerror.NewBusiness(meta.Err, pkgerror.CodeConflict)
	default:
		return nil, pkgerror.NewBusiness("upload is not ready", pkgerror.CodeConflict)
	}
}

func (u *Usecase) processUpload(ctx context.Context, uploadID, fileName string, r io.Reader) error {
	// the producer side of r blocks until everything is consumed
	defer func() {
		_, _ = io.Copy(io.Discard, r)
	}()

	startedAt := u.clock.Now().Unix()
	if err := u.store.UpdateMeta(ctx, uploadID, func(meta *entity.UploadMeta) {
		meta.Status = entity.UploadStatusProcessing
		meta.StartedAt = startedAt
	}); err != nil {
		return err
	}

	res, analyzeErr := u.safeAnalyze(ctx, fileName, r)
	endedAt := u.clock.Now().Unix()

	if analyzeErr != nil {
		slog.WarnContext(ctx, "upload analysis failed",
			"upload_id", uploadID,
			"file_name", fileName,
			"code", pkgerror.CodeOf(analyzeErr).String(),
			"error", analyzeErr,
		)
		if metaErr := u.store.UpdateMeta(ctx, uploadID, func(meta *entity.UploadMeta) {
			meta.Status = entity.UploadStatusFailed
			meta.Err = ErrorMessage(analyzeErr)
			meta.EndedAt = endedAt
		}); metaErr != nil {
			return metaErr
		}
		return analyzeErr
	}

	if err := u.store.SaveResult(ctx, uploadID, res); err != nil {
		return err
	}

	if err := u.store.UpdateMeta(ctx, uploadID, func(meta *entity.UploadMeta) {
		meta.Status = entity.UploadStatusDone
		meta.EndedAt = endedAt
		meta.Rows = res.Dataset.NumRows
		meta.Columns = len(res.Dataset.Columns)
	}); err != nil {
		return err
	}

	if u.events != nil {
		event := entity.ProfiledEvent{
			EventID:    u.id.Generate(),
			UploadID:   uploadID,
			FileName:   fileName,
			Rows:       res.Dataset.NumRows,
			Columns:    len(res.Dataset.Columns),
			ReportJSON: res.ReportJSON,
			At:         u.clock.Now(),
		}
		if pubErr := u.events.Publish(ctx, event); pubErr != nil {
			slog.WarnContext(ctx, "failed to publish event", "upload_id", uploadID, "event_id", event.EventID, "error", pubErr)
		}
	}

	return nil
}

func (u *Usecase) safeAnalyze(ctx context.Context, fileName string, r io.Reader) (res *entity.Result, err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			res, err = nil, fmt.Errorf("%w: %v", ErrPanic, rvr)
		}
	}()

	return u.analyze(ctx, fileName, r)
}

func (u *Usecase) analyze(ctx context.Context, fileName string, r io.Reader) (res *entity.Result, err error) {
	ctx, span := pkgtrace.Start(ctx, "profile.analyze", attribute.String("file_name", fileName))
	defer func() { pkgtrace.End(span, err) }()

	ds, err := u.loader.Load(ctx, fileName, r)
	if err != nil {
		return nil, err
	}

	report := u.profiler.Generate(ds)
	raw, err := profiler.JSON(report)
	if err != nil {
		return nil, err
	}

	res = &entity.Result{
		Dataset:    ds,
		Report:     report,
		ReportJSON: raw,
		Describe:   u.profiler.Describe(ds),
		Charts:     []entity.Chart{},
	}

	if u.renderer != nil {
		charts, err := u.renderer.Render(ctx, ds, report.Correlations.Pearson)
		if err != nil {
			return nil, err
		}
		res.Charts = charts
	}

	slog.InfoContext(ctx, "dataset profiled",
		"file_name", fileName,
		"rows", ds.NumRows,
		"columns", len(ds.Columns),
		"charts", len(res.Charts),
	)
	return res, nil
}

func validateFileName(fileName string) error {
	if fileName == "" {
		return pkgerror.NewInvalidInput(errors.New("file name is required"))
	}

	if _, err := loader.FormatOf(fileName); err != nil {
		return pkgerror.NewUnsupportedMedia(err)
	}

	return nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return pkgerror.NewBusiness("upload not found", pkgerror.CodeNotFound)
	}
	return normalizeErr(err)
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewServer(err)
}
