package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/shandysiswandi/goprofile/internal/pkg/pkgerror"
	"github.com/shandysiswandi/goprofile/internal/pkg/pkguid"
	"github.com/shandysiswandi/goprofile/internal/profile/entity"
	"github.com/shandysiswandi/goprofile/internal/profile/event"
)

const fileName = "goprofile.db"

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id INTEGER PRIMARY KEY,
	upload_id TEXT NOT NULL UNIQUE,
	file_name TEXT NOT NULL,
	row_count INTEGER NOT NULL,
	column_count INTEGER NOT NULL,
	report_json TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
`

// SQLite stores archived reports in a single database file.
type SQLite struct {
	db  *sql.DB
	ids pkguid.NumberID
}

// Open opens or creates the archive database inside dir.
func Open(ctx context.Context, dir string, ids pkguid.NumberID) (*SQLite, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, fileName)+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &SQLite{db: db, ids: ids}, nil
}

// Handle archives the report carried by ev. An upload is archived once;
// later events for the same upload are ignored.
func (s *SQLite) Handle(ctx context.Context, ev entity.ProfiledEvent) error {
	if ev.UploadID == "" {
		return event.Permanent(errors.New("missing upload id"))
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
	INSERT INTO reports (id, upload_id, file_name, row_count, column_count, report_json, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(upload_id) DO NOTHING`,
		s.ids.Generate(), ev.UploadID, ev.FileName, ev.Rows, ev.Columns,
		string(ev.ReportJSON), at.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to archive report: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		slog.InfoContext(ctx, "report already archived", "upload_id", ev.UploadID)
		return nil
	}

	slog.InfoContext(ctx, "report archived", "upload_id", ev.UploadID, "file_name", ev.FileName)
	return nil
}

// List returns up to limit archived reports, newest first, without their JSON.
func (s *SQLite) List(ctx context.Context, limit int) ([]entity.ArchivedReport, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, upload_id, file_name, row_count, column_count, created_at
	FROM reports
	ORDER BY created_at DESC, id DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []entity.ArchivedReport{}
	for rows.Next() {
		var r entity.ArchivedReport
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.UploadID, &r.FileName, &r.Rows, &r.Columns, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		r.CreatedAt = time.UnixMilli(createdAt).UTC()
		reports = append(reports, r)
	}

	return reports, rows.Err()
}

// Get returns one archived report including its JSON.
func (s *SQLite) Get(ctx context.Context, id int64) (entity.ArchivedReport, error) {
	var r entity.ArchivedReport
	var createdAt int64
	var raw string

	err := s.db.QueryRowContext(ctx, `
	SELECT id, upload_id, file_name, row_count, column_count, report_json, created_at
	FROM reports
	WHERE id = ?`, id).Scan(&r.ID, &r.UploadID, &r.FileName, &r.Rows, &r.Columns, &raw, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ArchivedReport{}, pkgerror.ErrNotFound
	}
	if err != nil {
		return entity.ArchivedReport{}, fmt.Errorf("failed to get report: %w", err)
	}

	r.ReportJSON = []byte(raw)
	r.CreatedAt = time.UnixMilli(createdAt).UTC()
	return r, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
