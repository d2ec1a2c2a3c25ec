package pkglog

import "context"

// InvalidCorrelationID is returned when the context carries no correlation ID.
const InvalidCorrelationID = "[invalid_chain_id]"

type correlationIDKey struct{}

// GetCorrelationID returns the correlation ID stored in the context.
//
// The router middleware sets this value early in the request lifecycle and the
// upload pipeline carries it into background processing so logs line up.
func GetCorrelationID(ctx context.Context) string {
	cid, ok := ctx.Value(correlationIDKey{}).(string)
	if !ok {
		return InvalidCorrelationID
	}
	return cid
}

// SetCorrelationID stores a correlation ID into the context.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cid)
}

// CopyCorrelationID returns dst carrying the correlation ID of src, if any.
// Background work started from a request runs on a long-lived context and
// uses this to keep the request's ID.
func CopyCorrelationID(dst, src context.Context) context.Context {
	cid, ok := src.Value(correlationIDKey{}).(string)
	if !ok {
		return dst
	}
	return SetCorrelationID(dst, cid)
}
