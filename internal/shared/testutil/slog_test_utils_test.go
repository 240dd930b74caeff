package testutil

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("table loaded", slog.String("kind", "weight-for-age"))
		logger.Error("table rejected", slog.Int("rows", 3))

		assert.Len(t, handler.GetRecords(), 2)
		assert.True(t, handler.ContainsMessage("loaded"))
		assert.True(t, handler.ContainsAttr("kind", "weight-for-age"))
		assert.True(t, handler.ContainsAttr("rows", int64(3)))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelDebug), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelInfo), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
	})

	t.Run("derived loggers share the buffer", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With("component", "pipeline").Info("scoring", "records", 2)
		logger.WithGroup("request").Info("handled", "method", "POST")

		require.Equal(t, 2, handler.Count())
		AssertLogAttr(t, handler, "component", "pipeline")
		AssertLogAttr(t, handler, "request.method", "POST")
		assert.False(t, handler.ContainsAttr("method", "POST"))
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("message 1")
		logger.Info("message 2")
		assert.Equal(t, 2, handler.Count())

		handler.Clear()
		assert.Equal(t, 0, handler.Count())
	})

	t.Run("assertion helpers", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("important message", slog.String("component", "test"))
		logger.Warn("warning message")

		AssertLogContains(t, handler, slog.LevelInfo, "important")
		AssertLogAttr(t, handler, "component", "test")
		AssertNoErrors(t, handler)
	})

	t.Run("thread safety", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				logger.Info("concurrent log", slog.Int("goroutine", n))
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 10, handler.Count())
	})
}

func TestFixtures(t *testing.T) {
	weight, height := NewTables(t)
	assert.Equal(t, len(WeightRows()), weight.Len())
	assert.Equal(t, len(HeightRows()), height.Len())

	sheet := ReferenceSheet(HeightRows())
	require.Len(t, sheet, len(HeightRows())+1)
	assert.Equal(t, []interface{}{"Sex", "Agemos", "L", "M", "S"}, sheet[0])
	assert.Equal(t, 1, sheet[1][0])
	assert.Equal(t, 2, sheet[3][0])

	path := WriteWorkbook(t, "ref.xlsx", "LMS", sheet)
	assert.FileExists(t, path)
}
