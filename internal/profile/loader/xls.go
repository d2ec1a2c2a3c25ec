package loader

import (
	"bytes"
	"fmt"
	"io"

	"github.com/extrame/xls"
)

// readXLS reads the first sheet of a legacy BIFF workbook. The decoder panics
// on some malformed inputs, so the panic is turned into an error.
func readXLS(r io.Reader) (records [][]string, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}

	defer func() {
		if rvr := recover(); rvr != nil {
			records = nil
			err = fmt.Errorf("open workbook: malformed xls: %v", rvr)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("open workbook: no sheet")
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheetRow(sheet, i)
		if row == nil {
			records = append(records, nil)
			continue
		}
		records = append(records, rowCells(row))
	}

	return records, nil
}

// maxXLSColumns is the BIFF8 column limit.
const maxXLSColumns = 256

// sheetRow returns nil for row indexes the sheet holds nothing for. The
// decoder dereferences the missing row instead of reporting it.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()

	return sheet.Row(i)
}

// rowCells reads cells up to the row's recorded width. Rows written without
// a ROW record carry no width, so every column is read and trailing empty
// cells are dropped.
func rowCells(row *xls.Row) []string {
	width := row.LastCol()
	unsized := width == 0
	if unsized {
		width = maxXLSColumns
	}

	cells := make([]string, 0, width)
	for c := 0; c < width; c++ {
		cells = append(cells, row.Col(c))
	}
	if unsized {
		for len(cells) > 0 && cells[len(cells)-1] == "" {
			cells = cells[:len(cells)-1]
		}
	}
	return cells
}
