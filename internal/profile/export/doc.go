// Package export builds the downloadable artifacts of a profiled upload:
// base64 data URI links for the JSON report and every figure, and a
// Markdown rendition of the report.
package export
