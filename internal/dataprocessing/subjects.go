package dataprocessing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"growthcli/internal/lms"
	"growthcli/internal/pipeline"
)

// Subject dataset column names
const (
	ColumnWeight  = "WEIGHT"
	ColumnHeight  = "HEIGHT"
	ColumnAgeDays = "AGE_DAYS"
	ColumnSex     = "SEX"
)

// Dataset is a subject table with its original cells kept for export
type Dataset struct {
	// Header is the original header row
	Header []string
	// Records holds the original cells of each data row, padded to the header width
	Records [][]string
	// Subjects is index-aligned with Records
	Subjects []pipeline.Subject
	// Sheet is the worksheet the dataset was read from, empty for CSV
	Sheet string
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.Records)
}

// InvalidRecords returns the number of records that could not be read completely
func (d *Dataset) InvalidRecords() int {
	n := 0
	for _, s := range d.Subjects {
		if s.Err != nil {
			n++
		}
	}
	return n
}

// ParseSubjectFile reads a subject dataset from sheet of an Excel workbook
func ParseSubjectFile(path, sheet string) (*Dataset, error) {
	rows, name, err := readSheet(path, sheet)
	if err != nil {
		return nil, err
	}
	ds, err := parseSubjectRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ds.Sheet = name
	return ds, nil
}

// LoadSubjectsCSV reads a subject dataset from a CSV file
func LoadSubjectsCSV(path string) (*Dataset, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	ds, err := parseSubjectRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// LoadDataset reads a subject dataset from a CSV file or a workbook, chosen by extension
func LoadDataset(path, sheet string) (*Dataset, error) {
	if isCSV(path) {
		return LoadSubjectsCSV(path)
	}
	return ParseSubjectFile(path, sheet)
}

type subjectColumns struct {
	weight, height, ageDays, sex int
}

func parseSubjectRows(rows [][]string) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrMissingColumn)
	}

	header := rows[0]
	idx := newHeaderIndex(header)

	var cols subjectColumns
	var missing []string
	for _, c := range []struct {
		dst  *int
		name string
	}{
		{&cols.weight, ColumnWeight},
		{&cols.height, ColumnHeight},
		{&cols.ageDays, ColumnAgeDays},
		{&cols.sex, ColumnSex},
	} {
		i, ok := idx.find(c.name)
		if !ok {
			missing = append(missing, c.name)
		}
		*c.dst = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrMissingColumn, missing)
	}

	// Rows wider than the header get unnamed columns so no cell is dropped
	width := len(header)
	for _, row := range rows[1:] {
		if n := usedWidth(row); n > width {
			width = n
		}
	}
	ds := &Dataset{Header: make([]string, width)}
	copy(ds.Header, header)

	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}

		record := make([]string, width)
		copy(record, row)
		ds.Records = append(ds.Records, record)
		ds.Subjects = append(ds.Subjects, parseSubject(i+1, row, cols))
	}

	return ds, nil
}

// usedWidth is the length of row up to its last non-empty cell
func usedWidth(row []string) int {
	n := len(row)
	for n > 0 && strings.TrimSpace(row[n-1]) == "" {
		n--
	}
	return n
}

func parseSubject(index int, row []string, cols subjectColumns) pipeline.Subject {
	s := pipeline.Subject{
		Weight: measurement(cell(row, cols.weight)),
		Height: measurement(cell(row, cols.height)),
	}

	var errs []error

	rawAge := cell(row, cols.ageDays)
	age, err := strconv.ParseFloat(rawAge, 64)
	if err != nil {
		errs = append(errs, &lms.RowError{Index: index, Field: ColumnAgeDays, Value: rawAge, Err: lms.ErrInvalidInput})
	}
	s.AgeDays = age

	rawSex := cell(row, cols.sex)
	code, err := parseCode(rawSex)
	if err != nil {
		errs = append(errs, &lms.RowError{Index: index, Field: ColumnSex, Value: rawSex, Err: lms.ErrInvalidInput})
	}
	s.SexCode = code

	s.Err = errors.Join(errs...)
	return s
}

// measurement parses a measurement cell; empty or unreadable cells are NaN
func measurement(raw string) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ColumnIndex returns the position of the named header column, matched like the
// required columns, or -1
func (d *Dataset) ColumnIndex(name string) int {
	i, _ := newHeaderIndex(d.Header).find(name)
	return i
}
