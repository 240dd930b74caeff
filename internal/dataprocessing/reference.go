package dataprocessing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"growthcli/internal/lms"
)

// ParseReferenceFile reads LMS reference rows from sheet of an Excel workbook
func ParseReferenceFile(path, sheet string) ([]lms.Row, error) {
	rows, _, err := readSheet(path, sheet)
	if err != nil {
		return nil, err
	}
	out, err := parseReferenceRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// LoadReferenceCSV reads LMS reference rows from a CSV file with the same header contract
// as ParseReferenceFile
func LoadReferenceCSV(path string) ([]lms.Row, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	out, err := parseReferenceRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// LoadReference reads reference rows from a CSV file or a workbook, chosen by extension
func LoadReference(path, sheet string) ([]lms.Row, error) {
	if isCSV(path) {
		return LoadReferenceCSV(path)
	}
	return ParseReferenceFile(path, sheet)
}

type referenceColumns struct {
	age, sex, l, m, s int
}

func mapReferenceColumns(header []string) (referenceColumns, error) {
	idx := newHeaderIndex(header)
	var cols referenceColumns
	var missing []string

	lookup := func(dst *int, name string, aliases ...string) {
		i, ok := idx.find(aliases...)
		if !ok {
			missing = append(missing, name)
		}
		*dst = i
	}
	lookup(&cols.age, "Agemos", "Agemos", "AgeInMonths", "age_months")
	lookup(&cols.sex, "Sex", "Sex")
	lookup(&cols.l, "L", "L")
	lookup(&cols.m, "M", "M")
	lookup(&cols.s, "S", "S")

	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseReferenceRows(rows [][]string) ([]lms.Row, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrMissingColumn)
	}

	cols, err := mapReferenceColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var out []lms.Row
	var errs []error

	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		// data rows are numbered from 1, the header is row 0
		index := i + 1

		var r lms.Row
		var rowErrs []error
		number := func(field string, col int) float64 {
			raw := cell(row, col)
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				rowErrs = append(rowErrs, &lms.RowError{Index: index, Field: field, Value: raw, Err: lms.ErrInvalidRow})
			}
			return v
		}

		r.AgeMonths = number("AgeMonths", cols.age)
		r.L = number("L", cols.l)
		r.M = number("M", cols.m)
		r.S = number("S", cols.s)

		sex, err := parseSex(cell(row, cols.sex))
		if err != nil {
			rowErrs = append(rowErrs, &lms.RowError{Index: index, Field: "Sex", Value: cell(row, cols.sex), Err: lms.ErrInvalidRow})
		}
		r.Sex = sex

		if len(rowErrs) > 0 {
			errs = append(errs, rowErrs...)
			continue
		}
		out = append(out, r)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// parseSex accepts a numeric code (1 is Male, anything else Female) or the words
// male/female
func parseSex(raw string) (lms.Sex, error) {
	code, err := parseCode(raw)
	if err == nil {
		return lms.SexFromCode(code), nil
	}
	switch strings.ToLower(raw) {
	case "m", "male":
		return lms.Male, nil
	case "f", "female":
		return lms.Female, nil
	}
	return 0, err
}

// parseCode parses an integer code that spreadsheets may store as "1" or "1.0"
func parseCode(raw string) (int, error) {
	if code, err := strconv.Atoi(raw); err == nil {
		return code, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("code %q: %w", raw, lms.ErrInvalidInput)
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("code %q is not an integer: %w", raw, lms.ErrInvalidInput)
	}
	return int(f), nil
}
