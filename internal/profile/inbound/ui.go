package inbound

import (
	_ "embed"
	"log/slog"
	"net/http"
	"strconv"
)

//go:embed web/index.html
var indexHTML []byte

func (h *HTTPEndpoint) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(indexHTML)))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(indexHTML); err != nil {
		slog.ErrorContext(r.Context(), "failed to write index page", "error", err)
	}
}
