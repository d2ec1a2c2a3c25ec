// Package pkguid provides helpers for generating unique identifiers.
//
// Uploads and events are keyed by string IDs (UUIDv7), archived reports by
// numeric Snowflake IDs so rows sort by creation time.
package pkguid
