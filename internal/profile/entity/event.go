package entity

import "time"

// ProfiledEvent is published once an upload has been profiled successfully.
type ProfiledEvent struct {
	EventID    string
	UploadID   string
	FileName   string
	Rows       int
	Columns    int
	ReportJSON []byte
	At         time.Time
}

// ArchivedReport is a report persisted by the archive.
type ArchivedReport struct {
	ID         int64     `json:"id,string"`
	UploadID   string    `json:"upload_id"`
	FileName   string    `json:"file_name"`
	Rows       int       `json:"rows"`
	Columns    int       `json:"columns"`
	CreatedAt  time.Time `json:"created_at"`
	ReportJSON []byte    `json:"-"`
}
