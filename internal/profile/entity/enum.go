package entity

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

type ColumnKind string

const (
	ColumnKindNumeric     ColumnKind = "Numeric"
	ColumnKindBoolean     ColumnKind = "Boolean"
	ColumnKindDateTime    ColumnKind = "DateTime"
	ColumnKindCategorical ColumnKind = "Categorical"
)

type UploadStatus string

const (
	UploadStatusQueued     UploadStatus = "QUEUED"
	UploadStatusProcessing UploadStatus = "PROCESSING"
	UploadStatusDone       UploadStatus = "DONE"
	UploadStatusFailed     UploadStatus = "FAILED"
)

type ChartKind string

const (
	ChartKindHeatmap   ChartKind = "heatmap"
	ChartKindHistogram ChartKind = "histogram"
	ChartKindCount     ChartKind = "count"
	ChartKindPair      ChartKind = "pair"
	ChartKindBox       ChartKind = "box"
)
