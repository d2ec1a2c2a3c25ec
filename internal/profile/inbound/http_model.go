package inbound

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shandysiswandi/goprofile/internal/profile/entity"
)

type UploadResponse struct {
	UploadID string `json:"upload_id"`
}

func (UploadResponse) StatusCode() int {
	return http.StatusAccepted
}

func (UploadResponse) Message() string {
	return "upload accepted"
}

type StatusResponse struct {
	UploadID  string              `json:"upload_id"`
	FileName  string              `json:"file_name"`
	Status    entity.UploadStatus `json:"status"`
	Error     string              `json:"error,omitempty"`
	StartedAt int64               `json:"started_at,omitempty"`
	EndedAt   int64               `json:"ended_at,omitempty"`
	Rows      int                 `json:"rows"`
	Columns   int                 `json:"columns"`
}

type RowsResponse struct {
	UploadID string     `json:"upload_id"`
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
	page     int
	pageSize int
	total    int
}

func (r RowsResponse) Meta() map[string]any {
	return map[string]any{
		"page":      r.page,
		"page_size": r.pageSize,
		"total":     r.total,
	}
}

type Chart struct {
	Name    string           `json:"name"`
	Title   string           `json:"title"`
	Kind    entity.ChartKind `json:"kind"`
	Columns []string         `json:"columns"`
	URL     string           `json:"url"`
}

type ChartsResponse struct {
	UploadID string  `json:"upload_id"`
	Charts   []Chart `json:"charts"`
}

type Link struct {
	Label    string `json:"label"`
	FileName string `json:"file_name"`
	Href     string `json:"href"`
	HTML     string `json:"html"`
}

type ExportResponse struct {
	UploadID string `json:"upload_id"`
	Report   Link   `json:"report"`
	Figures  []Link `json:"figures"`
}

type ReportsResponse struct {
	Reports []entity.ArchivedReport `json:"reports"`
	limit   int
}

func (r ReportsResponse) Meta() map[string]any {
	return map[string]any{"limit": r.limit}
}

type ArchivedReportResponse struct {
	ID        int64           `json:"id,string"`
	UploadID  string          `json:"upload_id"`
	FileName  string          `json:"file_name"`
	Rows      int             `json:"rows"`
	Columns   int             `json:"columns"`
	CreatedAt time.Time       `json:"created_at"`
	Report    json.RawMessage `json:"report"`
}
