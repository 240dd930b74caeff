package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"growthcli/internal/lms"
)

// WeightRows returns a small weight-for-age table. Every row has L=1 and S=0.1, so a
// measurement equal to M*(1+0.1z) scores exactly z. The first row is Female at birth.
func WeightRows() []lms.Row {
	return []lms.Row{
		{AgeMonths: 0, Sex: lms.Female, L: 1, M: 3.2, S: 0.1},
		{AgeMonths: 0.5, Sex: lms.Female, L: 1, M: 3.6, S: 0.1},
		{AgeMonths: 6.5, Sex: lms.Female, L: 1, M: 7.5, S: 0.1},
		{AgeMonths: 12.5, Sex: lms.Female, L: 1, M: 9.4, S: 0.1},
		{AgeMonths: 0, Sex: lms.Male, L: 1, M: 3.5, S: 0.1},
		{AgeMonths: 0.5, Sex: lms.Male, L: 1, M: 4.0, S: 0.1},
		{AgeMonths: 6.5, Sex: lms.Male, L: 1, M: 8.0, S: 0.1},
		{AgeMonths: 12, Sex: lms.Male, L: 1, M: 10, S: 0.1},
	}
}

// HeightRows returns a small length-for-age table starting at one month, so lookups
// for newborns after birth have no row.
func HeightRows() []lms.Row {
	return []lms.Row{
		{AgeMonths: 1.5, Sex: lms.Male, L: 1, M: 56, S: 0.04},
		{AgeMonths: 12.5, Sex: lms.Male, L: 1, M: 76, S: 0.04},
		{AgeMonths: 1.5, Sex: lms.Female, L: 1, M: 55, S: 0.04},
		{AgeMonths: 12.5, Sex: lms.Female, L: 1, M: 74, S: 0.04},
	}
}

// NewTables builds the weight and height tables from WeightRows and HeightRows
func NewTables(t testing.TB, opts ...lms.TableOption) (*lms.Table, *lms.Table) {
	t.Helper()

	weight, err := lms.NewTable(lms.WeightForAge, WeightRows(), opts...)
	require.NoError(t, err)
	height, err := lms.NewTable(lms.LengthForAge, HeightRows(), opts...)
	require.NoError(t, err)
	return weight, height
}

// ReferenceSheet renders rows in the CDC layout: Sex, Agemos, L, M, S
func ReferenceSheet(rows []lms.Row) [][]interface{} {
	out := [][]interface{}{{"Sex", "Agemos", "L", "M", "S"}}
	for _, r := range rows {
		code := 2
		if r.Sex == lms.Male {
			code = 1
		}
		out = append(out, []interface{}{code, r.AgeMonths, r.L, r.M, r.S})
	}
	return out
}

// WriteWorkbook writes rows into sheet of a new workbook under t.TempDir() and returns
// its path
func WriteWorkbook(t testing.TB, name, sheet string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	return path
}
