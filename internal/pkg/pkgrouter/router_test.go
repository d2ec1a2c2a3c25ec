package pkgrouter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/goprofile/internal/pkg/pkgerror"
)

func TestRouterWritesFileResponse(t *testing.T) {
	router := NewRouter(&staticGenerator{value: "cid"})
	router.GET("/charts/:name", func(ctx context.Context, r *http.Request) (any, error) {
		return &File{Name: GetParam(ctx, "name") + ".png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/charts/heatmap", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/png" {
		t.Fatalf("unexpected content type: %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `inline; filename="heatmap.png"` {
		t.Fatalf("unexpected disposition: %q", got)
	}
	if got := rec.Body.String(); got != "\x89PNG" {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestRouterMapsErrors(t *testing.T) {
	router := NewRouter(nil)
	router.POST("/datasets", func(ctx context.Context, r *http.Request) (any, error) {
		return nil, pkgerror.NewUnsupportedMedia(errors.New("unsupported file format: txt"))
	})
	router.GET("/boom", func(ctx context.Context, r *http.Request) (any, error) {
		return nil, errors.New("plain")
	})

	req := httptest.NewRequest(http.MethodPost, "/datasets", strings.NewReader("x"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "unsupported file type" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if resp.Error["detail"] != "unsupported file format: txt" {
		t.Fatalf("unexpected detail: %v", resp.Error)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status for plain error: %d", rec.Code)
	}
}

func TestRouterHealthAndNotFound(t *testing.T) {
	router := NewRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected health status: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected not found status: %d", rec.Code)
	}
}

func readAll(t *testing.T, r *http.Request) string {
	t.Helper()
	b, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}
