package pkguid

// StringID generates unique string identifiers, used for uploads and events.
type StringID interface {
	Generate() string
}

// NumberID generates unique, time-ordered int64 identifiers, used for
// archived reports.
type NumberID interface {
	Generate() int64
}
