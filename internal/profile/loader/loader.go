package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/goprofile/internal/profile/entity"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoHeader          = errors.New("file has no header row")
)

type Options struct {
	// MaxRows caps the number of data rows kept; 0 means unlimited.
	MaxRows int
}

type Loader struct {
	maxRows int
}

func New(opt Options) *Loader {
	maxRows := opt.MaxRows
	if maxRows < 0 {
		maxRows = 0
	}
	return &Loader{maxRows: maxRows}
}

// FormatOf maps a file name to the reader used for it, by the lower-cased
// extension after the last dot.
func FormatOf(fileName string) (entity.Format, error) {
	idx := strings.LastIndex(fileName, ".")
	if idx < 0 || idx == len(fileName)-1 {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, fileName)
	}

	ext := strings.ToLower(fileName[idx+1:])
	switch entity.Format(ext) {
	case entity.FormatCSV, entity.FormatXLSX, entity.FormatXLS:
		return entity.Format(ext), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// Load reads the whole file into a Dataset.
func (l *Loader) Load(ctx context.Context, fileName string, r io.Reader) (*entity.Dataset, error) {
	format, err := FormatOf(fileName)
	if err != nil {
		return nil, err
	}

	var records [][]string
	switch format {
	case entity.FormatCSV:
		records, err = readCSV(r)
	case entity.FormatXLSX:
		records, err = readXLSX(r)
	case entity.FormatXLS:
		records, err = readXLS(r)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	header := uniqueHeader(records[0])
	rows := dataRows(records[1:])

	truncated := 0
	if l.maxRows > 0 && len(rows) > l.maxRows {
		truncated = len(rows) - l.maxRows
		rows = rows[:l.maxRows]
		slog.WarnContext(ctx, "dataset truncated", "file", fileName, "kept", l.maxRows, "dropped", truncated)
	}

	ds := build(header, rows)
	ds.Name = fileName
	ds.Format = format
	ds.Truncated = truncated

	slog.InfoContext(ctx, "dataset loaded", "file", fileName, "format", format, "rows", ds.NumRows, "columns", len(ds.Columns))

	return ds, nil
}
