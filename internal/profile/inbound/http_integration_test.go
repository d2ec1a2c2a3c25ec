package inbound

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/goprofile/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/goprofile/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/goprofile/internal/pkg/pkguid"
	"github.com/shandysiswandi/goprofile/internal/profile/archive"
	"github.com/shandysiswandi/goprofile/internal/profile/chart"
	"github.com/shandysiswandi/goprofile/internal/profile/entity"
	"github.com/shandysiswandi/goprofile/internal/profile/event"
	"github.com/shandysiswandi/goprofile/internal/profile/loader"
	"github.com/shandysiswandi/goprofile/internal/profile/profiler"
	"github.com/shandysiswandi/goprofile/internal/profile/store"
	"github.com/shandysiswandi/goprofile/internal/profile/usecase"
)

type envelope[T any] struct {
	Message string         `json:"message"`
	Data    T              `json:"data"`
	Meta    map[string]any `json:"meta,omitempty"`
}

const salesCSV = "region,units,price,channel\n" +
	"north,10,2.5,web\n" +
	"south,12,2.75,store\n" +
	"east,7,3.1,web\n" +
	"west,15,2.2,store\n" +
	"north,9,2.6,web\n"

type testApp struct {
	router   *pkgrouter.Router
	runner   *pkgroutine.Manager
	consumer *event.Consumer
}

func newTestApp(t *testing.T, maxUploadBytes int64) *testApp {
	t.Helper()

	ids, err := pkguid.NewSnowflakeNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	reports, err := archive.Open(context.Background(), t.TempDir(), ids)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}

	runner := pkgroutine.NewManager(4)
	bus := event.NewBus(10)
	consumer := event.NewConsumer(bus, reports, event.ConsumerConfig{Workers: 1, BaseBackoff: time.Millisecond})
	consumer.Start()

	uc := usecase.New(usecase.Dependency{
		Store:    store.NewInMemoryStore(10),
		Loader:   loader.New(loader.Options{}),
		Profiler: profiler.New(),
		Renderer: chart.New(chart.Options{Workers: 2}),
		Events:   bus,
		History:  reports,
		Runner:   runner,
		ID:       pkguid.NewUUID(),
		RootCtx:  context.Background(),
	})

	router := pkgrouter.NewRouter(pkguid.NewUUID())
	RegisterHTTPEndpoint(router, uc, maxUploadBytes)

	app := &testApp{router: router, runner: runner, consumer: consumer}
	t.Cleanup(func() {
		_ = runner.Wait()
		_ = consumer.Stop(context.Background())
		_ = reports.Close()
	})
	return app
}

func TestUploadProcessQuery(t *testing.T) {
	app := newTestApp(t, 0)

	uploadID := uploadFile(t, app.router, "sales.csv", []byte(salesCSV))
	status := waitStatus(t, app.router, uploadID)
	if status.Status != entity.UploadStatusDone {
		t.Fatalf("upload not done, status=%s error=%s", status.Status, status.Error)
	}
	if status.Rows != 5 || status.Columns != 4 || status.FileName != "sales.csv" {
		t.Fatalf("unexpected status: %+v", status)
	}

	var report envelope[map[string]any]
	get(t, app.router, "/datasets/"+uploadID+"/report", http.StatusOK, &report)
	table, _ := report.Data["table"].(map[string]any)
	if table["n"] != float64(5) {
		t.Fatalf("unexpected report table: %v", report.Data["table"])
	}

	var rows envelope[RowsResponse]
	get(t, app.router, "/datasets/"+uploadID+"/rows?page=2&page_size=2", http.StatusOK, &rows)
	if len(rows.Data.Rows) != 2 || rows.Data.Rows[0][0] != "east" || rows.Meta["total"] != float64(5) {
		t.Fatalf("unexpected rows: %+v meta=%v", rows.Data, rows.Meta)
	}

	var describe envelope[entity.DescribeTable]
	get(t, app.router, "/datasets/"+uploadID+"/describe", http.StatusOK, &describe)
	if len(describe.Data.Columns) != 2 || describe.Data.Index[0] != "count" {
		t.Fatalf("unexpected describe: %+v", describe.Data)
	}

	var charts envelope[ChartsResponse]
	get(t, app.router, "/datasets/"+uploadID+"/charts", http.StatusOK, &charts)
	names := make([]string, 0, len(charts.Data.Charts))
	for _, c := range charts.Data.Charts {
		names = append(names, c.Name)
	}
	want := "heatmap,histogram-1,histogram-2,count-1,count-2,pairplot,box-1,box-2"
	if strings.Join(names, ",") != want {
		t.Fatalf("charts = %v, want %s", names, want)
	}

	rec := serve(app.router, http.MethodGet, charts.Data.Charts[0].URL, nil, "")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("chart response: %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Fatal("chart body is not a PNG")
	}

	var export envelope[ExportResponse]
	get(t, app.router, "/datasets/"+uploadID+"/export", http.StatusOK, &export)
	if len(export.Data.Figures) != len(names) {
		t.Fatalf("expected %d figure links, got %d", len(names), len(export.Data.Figures))
	}
	if !strings.HasSuffix(export.Data.Report.HTML, `download="analytics_report.json">Download Report</a>`) {
		t.Fatalf("unexpected report link: %s", export.Data.Report.HTML)
	}

	rec = serve(app.router, http.MethodGet, "/datasets/"+uploadID+"/report.md", nil, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "sales.csv") {
		t.Fatalf("markdown response: %d %s", rec.Code, rec.Body.String())
	}

	var history envelope[ReportsResponse]
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		get(t, app.router, "/reports?limit=5", http.StatusOK, &history)
		if len(history.Data.Reports) == 1 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if len(history.Data.Reports) != 1 || history.Data.Reports[0].UploadID != uploadID {
		t.Fatalf("unexpected history: %+v", history.Data)
	}

	var archived envelope[ArchivedReportResponse]
	get(t, app.router, "/reports/"+strconv.FormatInt(history.Data.Reports[0].ID, 10), http.StatusOK, &archived)
	if archived.Data.UploadID != uploadID || len(archived.Data.Report) == 0 {
		t.Fatalf("unexpected archived report: %+v", archived.Data)
	}
}

func TestUploadCorruptFileFails(t *testing.T) {
	app := newTestApp(t, 0)

	uploadID := uploadFile(t, app.router, "broken.xlsx", []byte("this is not a workbook"))
	status := waitStatus(t, app.router, uploadID)
	if status.Status != entity.UploadStatusFailed || !strings.HasPrefix(status.Error, "An error occurred: ") {
		t.Fatalf("unexpected status: %+v", status)
	}

	get(t, app.router, "/datasets/"+uploadID+"/report", http.StatusConflict, nil)
}

func TestUploadRejections(t *testing.T) {
	app := newTestApp(t, 64)

	rec := serve(app.router, http.MethodPost, "/datasets?filename=notes.txt", strings.NewReader("hello"), "text/plain")
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("unsupported file: status %d", rec.Code)
	}

	rec = serve(app.router, http.MethodPost, "/datasets", strings.NewReader("a,b\n1,2\n"), "text/csv")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing filename: status %d", rec.Code)
	}

	big := "a,b\n" + strings.Repeat("1,2\n", 100)
	rec = serve(app.router, http.MethodPost, "/datasets?filename=big.csv", strings.NewReader(big), "text/csv")
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversized upload: status %d", rec.Code)
	}

	get(t, app.router, "/datasets/unknown", http.StatusNotFound, nil)
	get(t, app.router, "/reports/abc", http.StatusUnprocessableEntity, nil)
	get(t, app.router, "/reports?limit=0", http.StatusUnprocessableEntity, nil)
}

func TestRawBodyUpload(t *testing.T) {
	app := newTestApp(t, 0)

	rec := serve(app.router, http.MethodPost, "/datasets?filename=sales.csv", strings.NewReader(salesCSV), "text/csv")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("unexpected status: %d %s", rec.Code, rec.Body.String())
	}

	var env envelope[UploadResponse]
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if status := waitStatus(t, app.router, env.Data.UploadID); status.Status != entity.UploadStatusDone {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestIndexPage(t *testing.T) {
	app := newTestApp(t, 0)

	rec := serve(app.router, http.MethodGet, "/", nil, "")
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("index response: %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "Export Analytics Report and Figures") {
		t.Fatal("index page misses the export button")
	}
}

func uploadFile(t *testing.T, router http.Handler, name string, content []byte) string {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	rec := serve(router, http.MethodPost, "/datasets", body, writer.FormDataContentType())
	if rec.Code != http.StatusAccepted {
		t.Fatalf("unexpected status: %d %s", rec.Code, rec.Body.String())
	}

	var env envelope[UploadResponse]
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if env.Data.UploadID == "" {
		t.Fatal("upload id is empty")
	}

	return env.Data.UploadID
}

func waitStatus(t *testing.T, router http.Handler, uploadID string) StatusResponse {
	t.Helper()

	var env envelope[StatusResponse]
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		get(t, router, "/datasets/"+uploadID, http.StatusOK, &env)
		if env.Data.Status == entity.UploadStatusDone || env.Data.Status == entity.UploadStatusFailed {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	return env.Data
}

func get(t *testing.T, router http.Handler, path string, code int, out any) {
	t.Helper()

	rec := serve(router, http.MethodGet, path, nil, "")
	if rec.Code != code {
		t.Fatalf("GET %s: status %d, want %d: %s", path, rec.Code, code, rec.Body.String())
	}
	if out == nil {
		return
	}
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("GET %s: decode: %v", path, err)
	}
}

func serve(router http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
