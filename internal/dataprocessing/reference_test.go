package dataprocessing

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growthcli/internal/lms"
	"growthcli/internal/shared/testutil"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseReferenceFile(t *testing.T) {
	path := testutil.WriteWorkbook(t, "wtage.xlsx", "Sheet1", testutil.ReferenceSheet(testutil.WeightRows()))

	rows, err := ParseReferenceFile(path, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, testutil.WeightRows(), rows)

	table, err := lms.NewTable(lms.WeightForAge, rows)
	require.NoError(t, err)
	assert.Equal(t, len(rows), table.Len())
}

func TestParseReferenceFileHeaderVariants(t *testing.T) {
	sheet := [][]interface{}{
		{" sex ", "AgeInMonths", "l", "m", "s", "P50"},
		{1, 24, -0.2, 12.5, 0.11, 12.5},
		{},
		{"2", "24.5", "1", "12", "0.1", ""},
		{},
	}
	path := testutil.WriteWorkbook(t, "ref.xlsx", "LMS", sheet)

	rows, err := ParseReferenceFile(path, "LMS")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, lms.Row{AgeMonths: 24, Sex: lms.Male, L: -0.2, M: 12.5, S: 0.11}, rows[0])
	assert.Equal(t, lms.Female, rows[1].Sex)
	assert.Equal(t, 24.5, rows[1].AgeMonths)
}

func TestParseReferenceFileSheetFallback(t *testing.T) {
	path := testutil.WriteWorkbook(t, "ref.xlsx", "CDC", testutil.ReferenceSheet(testutil.HeightRows()))

	rows, err := ParseReferenceFile(path, "")
	require.NoError(t, err, "default sheet falls back to the first sheet")
	assert.Len(t, rows, len(testutil.HeightRows()))

	_, err = ParseReferenceFile(path, DefaultSheet)
	require.NoError(t, err)

	_, err = ParseReferenceFile(path, "Boys")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `sheet "Boys" not found`)
}

func TestParseReferenceFileRowErrors(t *testing.T) {
	sheet := [][]interface{}{
		{"Sex", "Agemos", "L", "M", "S"},
		{1, 0, 1, 3.3, 0.1},
		{1, "n/a", 1, 3.5, 0.1},
		{"x", 1, 1, "", 0.1},
	}
	path := testutil.WriteWorkbook(t, "bad.xlsx", "Sheet1", sheet)

	_, err := ParseReferenceFile(path, "Sheet1")
	require.Error(t, err)
	assert.ErrorIs(t, err, lms.ErrInvalidRow)

	var rowErr *lms.RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 2, rowErr.Index)
	assert.Equal(t, "AgeMonths", rowErr.Field)

	assert.Contains(t, err.Error(), "row 3: M=")
	assert.Contains(t, err.Error(), "row 3: Sex=x")
}

func TestParseReferenceFileMissingColumns(t *testing.T) {
	path := testutil.WriteWorkbook(t, "ref.xlsx", "Sheet1", [][]interface{}{{"Sex", "Age", "L", "M"}})

	_, err := ParseReferenceFile(path, "Sheet1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "Agemos")
	assert.Contains(t, err.Error(), "S")
}

func TestParseReferenceFileNotFound(t *testing.T) {
	_, err := ParseReferenceFile(filepath.Join(t.TempDir(), "absent.xlsx"), "Sheet1")
	assert.Error(t, err)
}

func TestLoadReferenceCSV(t *testing.T) {
	path := writeCSV(t, "lenage.csv", "\ufeffSex,Agemos,L,M,S\n1,0,1,49.9,0.038\n2,0.5,1,53.7,0.036\n\n")

	rows, err := LoadReference(path, "")
	require.NoError(t, err)
	assert.Equal(t, []lms.Row{
		{AgeMonths: 0, Sex: lms.Male, L: 1, M: 49.9, S: 0.038},
		{AgeMonths: 0.5, Sex: lms.Female, L: 1, M: 53.7, S: 0.036},
	}, rows)
}

func TestParseSex(t *testing.T) {
	tests := []struct {
		raw     string
		want    lms.Sex
		wantErr bool
	}{
		{"1", lms.Male, false},
		{"1.0", lms.Male, false},
		{"2", lms.Female, false},
		{"0", lms.Female, false},
		{"Male", lms.Male, false},
		{"f", lms.Female, false},
		{"1.5", 0, true},
		{"", 0, true},
		{"unknown", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseSex(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
