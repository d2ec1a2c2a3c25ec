// Package pkgerror defines shared error types and sentinel errors used across
// the application.
//
// It helps keep error handling consistent by:
//   - Providing sentinel errors that can be checked with errors.Is.
//   - Providing a structured Error type that carries a message, type, and code,
//     which the router maps to HTTP status codes (including 415 for upload
//     types the loader does not read and 413 for oversized uploads).
package pkgerror
