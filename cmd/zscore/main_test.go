package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"growthcli/internal/shared/testutil"
)

func writeFixtures(t *testing.T) (weight, height, subjects string) {
	t.Helper()

	weight = testutil.WriteWorkbook(t, "weight.xlsx", "Sheet1", testutil.ReferenceSheet(testutil.WeightRows()))
	height = testutil.WriteWorkbook(t, "height.xlsx", "Sheet1", testutil.ReferenceSheet(testutil.HeightRows()))
	subjects = testutil.WriteWorkbook(t, "subjects.xlsx", "Data", [][]interface{}{
		{"WEIGHT", "HEIGHT", "AGE_DAYS", "SEX"},
		{22.0462262185, 29.92125984, 400, 1},
		{-1, 20, 10, 2},
	})
	return weight, height, subjects
}

func TestRun(t *testing.T) {
	t.Setenv("GROWTH_TELEMETRY_METRIC_EXPORTER", "none")
	weight, height, subjects := writeFixtures(t)
	out := filepath.Join(t.TempDir(), "scores.xlsx")

	var stdout bytes.Buffer
	err := run(context.Background(), []string{
		"-weight", weight,
		"-height", height,
		"-in", subjects,
		"-sheet", "Data",
		"-out", out,
		"-format", "xlsx",
		"-mode", "percentile",
		"-summary",
	}, &stdout)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "scored 2 records")
	assert.Contains(t, stdout.String(), "weight: ok=1 missing=1 failed=0")
	assert.Contains(t, stdout.String(), "height: ok=1 missing=0 failed=1")

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"WEIGHT", "HEIGHT", "AGE_DAYS", "SEX", "wt_percentile", "ht_percentile", "wt_percentile_error", "ht_percentile_error"}, rows[0])

	_, err = os.Stat(filepath.Join(filepath.Dir(out), "scores.summary.csv"))
	assert.NoError(t, err)
}

func TestRunErrors(t *testing.T) {
	t.Setenv("GROWTH_TELEMETRY_METRIC_EXPORTER", "none")
	weight, height, subjects := writeFixtures(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"-nope"}},
		{name: "no dataset", args: []string{"-weight", weight, "-height", height}},
		{name: "bad mode", args: []string{"-weight", weight, "-height", height, "-in", subjects, "-mode", "median"}},
		{name: "missing table", args: []string{"-weight", filepath.Join(t.TempDir(), "none.xlsx"), "-height", height, "-in", subjects}},
		{name: "missing config file", args: []string{"-config", filepath.Join(t.TempDir(), "growth.yaml")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			assert.Error(t, run(context.Background(), tt.args, &stdout))
			assert.Empty(t, stdout.String())
		})
	}
}
