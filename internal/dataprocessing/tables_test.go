package dataprocessing

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growthcli/internal/config"
	"growthcli/internal/lms"
	"growthcli/internal/shared/testutil"
	"growthcli/internal/validation"
)

func TestLoadTables(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)

	cfg := config.TablesConfig{
		WeightPath:  testutil.WriteWorkbook(t, "wtage.xlsx", "Sheet1", testutil.ReferenceSheet(testutil.WeightRows())),
		WeightSheet: "Sheet1",
		HeightPath:  writeCSV(t, "lenage.csv", "Sex,Agemos,L,M,S\n1,1.5,1,56,0.04\n2,1.5,1,55,0.04\n"),
	}

	tables, err := LoadTables(context.Background(), cfg, TableOptions{
		Policy: lms.PolicySexFilterAtBirth,
		Logger: logger,
	})
	require.NoError(t, err)

	require.NotNil(t, tables.Weight)
	require.NotNil(t, tables.Height)
	assert.Equal(t, lms.WeightForAge, tables.Weight.Kind())
	assert.Equal(t, lms.LengthForAge, tables.Height.Kind())
	assert.Equal(t, lms.PolicySexFilterAtBirth, tables.Weight.Policy())
	assert.Equal(t, 2, tables.Height.Len())

	testutil.AssertLogContains(t, logs, slog.LevelInfo, "reference table loaded")
	testutil.AssertLogAttr(t, logs, "kind", "length-for-age")
}

func TestLoadTablesDegenerate(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)

	cfg := config.TablesConfig{
		WeightPath: writeCSV(t, "wtage.csv", "Sex,Agemos,L,M,S\n1,0,1,0,0.1\n1,1,1,4,0\n"),
		HeightPath: writeCSV(t, "lenage.csv", "Sex,Agemos,L,M,S\n1,0,1,50,0.04\n"),
	}

	_, err := LoadTables(context.Background(), cfg, TableOptions{Logger: logger})
	require.Error(t, err)
	assert.ErrorIs(t, err, lms.ErrDegenerateParameters)
	assert.Contains(t, err.Error(), "row 0: M=0")
	assert.Contains(t, err.Error(), "row 1: S=0")

	testutil.AssertLogContains(t, logs, slog.LevelError, "reference table rejected")
}

func TestLoadTablesUnsupportedFile(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	cfg := config.TablesConfig{
		WeightPath: writeCSV(t, "wtage.txt", "Sex,Agemos,L,M,S\n1,0,1,3,0.1\n"),
		HeightPath: writeCSV(t, "lenage.csv", "Sex,Agemos,L,M,S\n1,0,1,50,0.04\n"),
	}

	_, err := LoadTables(context.Background(), cfg, TableOptions{Logger: logger})
	require.Error(t, err)
	assert.ErrorIs(t, err, validation.ErrUnsupportedFile)
	assert.Contains(t, err.Error(), "load weight-for-age table")
}
