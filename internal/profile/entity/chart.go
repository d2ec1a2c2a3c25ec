package entity

// Chart is one rendered figure.
type Chart struct {
	Name    string
	Title   string
	Kind    ChartKind
	Columns []string
	PNG     []byte
}
