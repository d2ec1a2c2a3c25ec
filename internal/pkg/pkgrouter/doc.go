// Package pkgrouter wraps HTTP routing and common middleware used by the API.
//
// It provides a small router abstraction over httprouter plus shared concerns
// like JSON encoding, raw file responses (charts, documents), error mapping,
// logging, recovery, correlation ID propagation and a tracing span per request.
package pkgrouter
