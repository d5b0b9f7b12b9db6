// Package tabular decodes uploaded spreadsheets into header and rows.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ErrEmpty is returned for files without a header row
var ErrEmpty = errors.New("file has no rows")

// Table is a decoded sheet with trimmed column names
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Index finds a column ignoring case and surrounding spaces, -1 if absent
func (t *Table) Index(column string) int {
	want := strings.ToLower(strings.TrimSpace(column))
	for i, h := range t.Header {
		if strings.ToLower(h) == want {
			return i
		}
	}
	return -1
}

func (t *Table) Has(column string) bool {
	return t.Index(column) >= 0
}

// Get returns the cell of row under column, "" when either is missing
func (t *Table) Get(row []string, column string) string {
	i := t.Index(column)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Read decodes a file by extension. Unknown extensions are read as CSV.
func Read(name string, data []byte) (*Table, error) {
	grid, err := ReadGrid(name, data)
	if err != nil {
		return nil, err
	}
	return FromGrid(name, grid, 0)
}

// ReadGrid returns every non-blank row without interpreting a header
func ReadGrid(name string, data []byte) ([][]string, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(data)
	case ".xls":
		rows, err = readXLS(data)
	default:
		rows, err = readCSV(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return dropBlank(rows), nil
}

// FromGrid builds a table using grid[headerRow] as the header
func FromGrid(name string, grid [][]string, headerRow int) (*Table, error) {
	if headerRow < 0 || headerRow >= len(grid) {
		return nil, fmt.Errorf("%s: %w", name, ErrEmpty)
	}
	header := make([]string, len(grid[headerRow]))
	for i, h := range grid[headerRow] {
		header[i] = strings.TrimSpace(h)
	}
	t := &Table{Name: name, Header: header}
	for _, row := range grid[headerRow+1:] {
		padded := make([]string, len(header))
		copy(padded, row)
		t.Rows = append(t.Rows, padded)
	}
	return t, nil
}

// FindHeader returns the first row index containing all wanted labels
func FindHeader(grid [][]string, labels ...string) int {
	for i, row := range grid {
		found := 0
		for _, label := range labels {
			for _, cell := range row {
				if strings.EqualFold(strings.TrimSpace(cell), label) {
					found++
					break
				}
			}
		}
		if found == len(labels) {
			return i
		}
	}
	return -1
}

func readCSV(data []byte) ([][]string, error) {
	var r io.Reader
	if utf8.Valid(data) {
		r = bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	} else {
		// Ledger exports from the core system are Windows-1252 when not UTF-8
		r = transform.NewReader(bytes.NewReader(data), charmap.Windows1252.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmpty
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func readXLS(data []byte) (rows [][]string, err error) {
	defer func() {
		// the legacy reader panics on some malformed workbooks
		if p := recover(); p != nil {
			rows, err = nil, fmt.Errorf("open xls: %v", p)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrEmpty
	}
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		vals := make([]string, 0, row.LastCol()+1)
		for j := 0; j <= row.LastCol(); j++ {
			vals = append(vals, row.Col(j))
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

func dropBlank(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
