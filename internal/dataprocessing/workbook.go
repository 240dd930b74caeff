package dataprocessing

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

// DefaultSheet is the sheet read when none is configured
const DefaultSheet = "Sheet1"

const utf8BOM = "\ufeff"

// ErrMissingColumn means a required header column is absent
var ErrMissingColumn = errors.New("missing required column")

// readSheet returns the raw cell values of sheet and the name of the sheet actually read
func readSheet(path, sheet string) ([][]string, string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	name, err := resolveSheet(f, sheet)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, "", fmt.Errorf("failed to read sheet %q: %w", name, err)
	}

	return rows, name, nil
}

func resolveSheet(f *excelize.File, sheet string) (string, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}

	if idx, err := f.GetSheetIndex(sheet); err == nil && idx >= 0 {
		return sheet, nil
	}

	sheets := f.GetSheetList()
	if sheet == DefaultSheet && len(sheets) > 0 {
		return sheets[0], nil
	}

	return "", fmt.Errorf("sheet %q not found (available: %s)", sheet, strings.Join(sheets, ", "))
}

// readCSV returns every record of a CSV file, tolerating a UTF-8 BOM and ragged rows
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		rows = append(rows, record)
	}

	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], utf8BOM)
	}

	return rows, nil
}

// isCSV reports whether path should be read as CSV rather than as a workbook
func isCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

// headerIndex maps normalized header names to their column positions
type headerIndex map[string]int

func newHeaderIndex(header []string) headerIndex {
	idx := make(headerIndex, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, dup := idx[key]; !dup && key != "" {
			idx[key] = i
		}
	}
	return idx
}

// find returns the position of the first alias present in the header
func (h headerIndex) find(aliases ...string) (int, bool) {
	for _, a := range aliases {
		if i, ok := h[normalizeHeader(a)]; ok {
			return i, true
		}
	}
	return -1, false
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// cell returns the trimmed value at col, or "" for short rows
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
