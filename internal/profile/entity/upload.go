package entity

type UploadMeta struct {
	ID       string
	FileName string
	Status   UploadStatus
	Err      string

	StartedAt int64
	EndedAt   int64

	Rows    int
	Columns int
}

// Result is everything computed for a finished upload.
type Result struct {
	Dataset    *Dataset
	Report     Report
	ReportJSON []byte
	Describe   DescribeTable
	Charts     []Chart
}

// Chart returns the rendered chart with the given name.
func (r *Result) Chart(name string) (Chart, bool) {
	for _, c := range r.Charts {
		if c.Name == name {
			return c, true
		}
	}
	return Chart{}, false
}
