// Package archive persists the JSON report of every profiled upload in a
// SQLite database so the history survives restarts and upload eviction.
package archive
