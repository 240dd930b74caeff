package exporter

import (
	"fmt"

	"growthcli/internal/dataprocessing"
	"growthcli/internal/pipeline"
)

// ErrorSuffix is appended to a derived column name to form its error column
const ErrorSuffix = "_error"

// Scored is a subject dataset with derived columns, ready to be written
type Scored struct {
	Headers []string
	Records [][]string
	// Numeric marks, per record, the cells holding a scored number. Sentinel
	// passthroughs are text and stay unmarked.
	Numeric [][]bool
	// Batch is the run the derived values came from
	Batch *pipeline.Batch
}

// BuildScored appends the derived value columns of batch to ds. A column already present
// in ds under the same name is overwritten in place. Error columns are added when
// errorColumns is true.
func BuildScored(ds *dataprocessing.Dataset, batch *pipeline.Batch, errorColumns bool) (*Scored, error) {
	for _, m := range pipeline.Measurements {
		if got := len(batch.Results(m)); got != ds.Len() {
			return nil, fmt.Errorf("%s results: have %d, dataset has %d records", m, got, ds.Len())
		}
	}

	headers := append([]string(nil), ds.Header...)
	position := make(map[string]int, len(headers))
	for i, h := range headers {
		position[h] = i
	}
	column := func(name string) int {
		if i, ok := position[name]; ok {
			return i
		}
		headers = append(headers, name)
		position[name] = len(headers) - 1
		return len(headers) - 1
	}

	type derived struct {
		measurement pipeline.Measurement
		value       int
		errCol      int
		source      int
	}
	cols := make([]derived, 0, len(pipeline.Measurements))
	for _, m := range pipeline.Measurements {
		cols = append(cols, derived{
			measurement: m,
			value:       column(m.Column(batch.Mode)),
			errCol:      -1,
			source:      ds.ColumnIndex(sourceColumn(m)),
		})
	}
	if errorColumns {
		for i := range cols {
			cols[i].errCol = column(cols[i].measurement.Column(batch.Mode) + ErrorSuffix)
		}
	}

	scored := &Scored{
		Headers: headers,
		Records: make([][]string, ds.Len()),
		Numeric: make([][]bool, ds.Len()),
		Batch:   batch,
	}

	for i, original := range ds.Records {
		record := make([]string, len(headers))
		copy(record, original)
		numeric := make([]bool, len(headers))

		for _, c := range cols {
			r := batch.Results(c.measurement)[i]
			record[c.value] = cellValue(r, original, c.source)
			numeric[c.value] = r.Status == pipeline.StatusOK
			if c.errCol >= 0 {
				record[c.errCol] = ""
				if r.Failed() {
					record[c.errCol] = string(r.Status)
				}
			}
		}
		scored.Records[i] = record
		scored.Numeric[i] = numeric
	}

	return scored, nil
}

// IsNumeric reports whether the cell at row, col holds a scored number
func (s *Scored) IsNumeric(row, col int) bool {
	if row < 0 || row >= len(s.Numeric) {
		return false
	}
	cells := s.Numeric[row]
	return col >= 0 && col < len(cells) && cells[col]
}

func sourceColumn(m pipeline.Measurement) string {
	if m == pipeline.Height {
		return dataprocessing.ColumnHeight
	}
	return dataprocessing.ColumnWeight
}

// cellValue renders a result: the original sentinel text for missing measurements, the
// value for scored ones, empty otherwise
func cellValue(r pipeline.Result, original []string, source int) string {
	switch r.Status {
	case pipeline.StatusOK:
		return formatFloat(r.Value)
	case pipeline.StatusMissing:
		if source >= 0 && source < len(original) && original[source] != "" {
			return original[source]
		}
		return formatFloat(r.Value)
	default:
		return ""
	}
}
