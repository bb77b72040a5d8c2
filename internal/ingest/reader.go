package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrEmptyInput is returned when a source has no header row.
var ErrEmptyInput = errors.New("input has no header row")

// Load reads a CSV or Excel file and returns it in the canonical schema.
// The format is picked from the file extension; everything that is not a
// workbook is treated as CSV, matching common bank export names.
func Load(path string) (Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		t, err := readWorkbook(path)
		if err != nil {
			return Table{}, fmt.Errorf("read workbook %s: %w", path, err)
		}
		return Normalize(t), nil
	default:
		f, err := os.Open(path)
		if err != nil {
			return Table{}, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		t, err := ReadCSV(f)
		if err != nil {
			return Table{}, fmt.Errorf("read csv %s: %w", path, err)
		}
		return Normalize(t), nil
	}
}

// ReadCSV parses CSV bytes into a raw (un-normalized) table. Ragged rows are
// tolerated and padded to the header width.
func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return Table{}, ErrEmptyInput
	}

	t := Table{Columns: records[0]}
	for _, rec := range records[1:] {
		t.Rows = append(t.Rows, padRow(rec, len(t.Columns)))
	}
	return t, nil
}

func readWorkbook(path string) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, ErrEmptyInput
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return Table{}, ErrEmptyInput
	}

	t := Table{Columns: rows[0]}
	for _, rec := range rows[1:] {
		t.Rows = append(t.Rows, padRow(rec, len(t.Columns)))
	}
	return t, nil
}

func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}
