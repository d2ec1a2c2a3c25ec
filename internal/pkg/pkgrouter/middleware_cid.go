package pkgrouter

import (
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/shandysiswandi/goprofile/internal/pkg/pkglog"
	"github.com/shandysiswandi/goprofile/internal/pkg/pkgtrace"
)

// Generator generates a unique string (used for correlation/request IDs).
type Generator interface {
	Generate() string
}

const (
	// HeaderCorrelationID is the canonical header used to track requests end-to-end.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is an accepted alternative header name used by some proxies.
	HeaderRequestID = "X-Request-ID"

	maxCIDLength = 128
)

// normalizeCID trims v and rejects values that could split a header or log line.
func normalizeCID(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.ContainsAny(v, "\r\n") {
		return ""
	}
	return v[:min(len(v), maxCIDLength)]
}

func requestCID(r *http.Request, uid Generator) string {
	for _, h := range []string{HeaderCorrelationID, HeaderRequestID} {
		if cid := normalizeCID(r.Header.Get(h)); cid != "" {
			return cid
		}
	}
	if uid != nil {
		return uid.Generate()
	}
	return ""
}

// middlewareCorrelationID tags the request with a correlation id, echoes it
// in the response and opens a span for the request carrying the same id.
func middlewareCorrelationID(uid Generator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			cid := requestCID(r, uid)
			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				ctx = pkglog.SetCorrelationID(ctx, cid)
			}

			ctx, span := pkgtrace.Start(ctx, r.Method+" "+matchedRoutePath(r),
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
				attribute.String("correlation_id", cid),
			)
			defer span.End()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
