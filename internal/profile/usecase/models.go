package usecase

import (
	"github.com/shandysiswandi/goprofile/internal/profile/entity"
	"github.com/shandysiswandi/goprofile/internal/profile/export"
)

type UploadResult struct {
	UploadID string
}

type StatusResult struct {
	UploadID  string
	FileName  string
	Status    entity.UploadStatus
	Err       string
	StartedAt int64
	EndedAt   int64
	Rows      int
	Columns   int
}

type RowsResult struct {
	UploadID string
	Columns  []string
	Rows     [][]string
	Page     int
	PageSize int
	Total    int
}

type ExportResult struct {
	UploadID string
	Report   export.Link
	Figures  []export.Link
}
