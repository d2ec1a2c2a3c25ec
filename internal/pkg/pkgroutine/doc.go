// Package pkgroutine contains helpers for running goroutines safely.
//
// The Manager type limits concurrency, collects returned errors (panics
// included), and lets shutdown wait for background upload processing.
package pkgroutine
