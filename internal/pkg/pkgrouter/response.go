package pkgrouter

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shandysiswandi/goprofile/internal/pkg/pkgerror"
)

// File is a handler result written as a raw body instead of the JSON envelope.
//
// It is used for rendered charts and documents. When Download is set the
// browser is asked to save the body under Name.
type File struct {
	Name        string
	ContentType string
	Data        []byte
	Download    bool
}

type errorResponse struct {
	Message string            `json:"message"`
	Error   map[string]string `json:"error,omitempty"`
}

type successResponse struct {
	Message string         `json:"message"`
	Data    any            `json:"data"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// writeError maps err to its status code. Errors that are not *pkgerror.Error
// are reported as 500 without leaking their text.
func writeError(w http.ResponseWriter, err error) {
	var gerr *pkgerror.Error
	if !errors.As(err, &gerr) {
		slog.Error("server: unexpected handler error", "error", err)
		writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
		return
	}

	resp := errorResponse{Message: gerr.Msg()}
	if gerr.Type() == pkgerror.TypeValidation && gerr.Unwrap() != nil {
		resp.Error = map[string]string{"detail": gerr.Unwrap().Error()}
	}
	writeJSON(w, resp, gerr.StatusCode())
}

// writeSuccess writes resp inside the {message,data,meta} envelope. resp may
// override the status, message and meta through StatusCode, Message and Meta
// methods.
func writeSuccess(w http.ResponseWriter, resp any) {
	if f, ok := resp.(*File); ok {
		writeFile(w, f)
		return
	}

	code := http.StatusOK
	if sc, ok := resp.(interface{ StatusCode() int }); ok {
		code = sc.StatusCode()
	}
	if code == http.StatusNoContent || resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	out := successResponse{Message: "request has been successfully", Data: resp}
	if m, ok := resp.(interface{ Message() string }); ok {
		out.Message = m.Message()
	}
	if m, ok := resp.(interface{ Meta() map[string]any }); ok {
		out.Meta = m.Meta()
	}
	writeJSON(w, out, code)
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	b, err := json.Marshal(data)
	if err != nil {
		slog.Error("server: failed to encode data to json", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	//nolint:errcheck,gosec // the client has gone away
	w.Write(append(b, '\n'))
}

func writeFile(w http.ResponseWriter, f *File) {
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
	if f.Name != "" {
		disposition := "inline"
		if f.Download {
			disposition = "attachment"
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, f.Name))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(f.Data); err != nil {
		slog.Error("server: failed to write file response", "name", f.Name, "error", err)
	}
}
