package render

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogBuffer(t *testing.T) {
	lb := NewLogBuffer(3)
	assert.Nil(t, lb.GetRecent(10))

	for i, msg := range []string{"a", "b", "c", "d"} {
		lb.Add(LogEntry{Message: msg, Time: time.Unix(int64(i), 0)})
	}

	recent := lb.GetRecent(0)
	require.Len(t, recent, 3)
	assert.Equal(t, "d", recent[0].Message, "newest first")
	assert.Equal(t, "b", recent[2].Message, "oldest entry was overwritten")

	assert.Len(t, lb.GetRecent(2), 2)

	lb.Clear()
	assert.Nil(t, lb.GetRecent(10))
}

func TestLogBufferHandler(t *testing.T) {
	lb := NewLogBuffer(10)
	var level slog.LevelVar
	level.Set(slog.LevelInfo)

	logger := slog.New(NewLogBufferHandler(lb, &level)).With("component", "ppu").WithGroup("scan")
	logger.Debug("hidden")
	logger.Info("frame", "line", 241)

	entries := lb.GetRecent(0)
	require.Len(t, entries, 1)
	assert.Equal(t, "frame component=ppu scan.line=241", entries[0].Message)

	level.Set(slog.LevelDebug)
	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
}

func TestFormatLogEntry(t *testing.T) {
	entry := LogEntry{
		Time:    time.Date(2024, 1, 1, 12, 30, 45, 0, time.UTC),
		Level:   slog.LevelWarn,
		Message: "careful",
	}
	assert.Equal(t, "12:30:45 [WRN] careful", FormatLogEntry(entry))
}

func TestPixels(t *testing.T) {
	r, g, b := RGB(0xFF102030)
	assert.Equal(t, []int32{0x10, 0x20, 0x30}, []int32{r, g, b})

	assert.Equal(t, uint32(0xFF7F7F7F), Average(0xFF000000, 0xFFFFFFFF))
	assert.Equal(t, uint32(0xFF101010), Average(0xFF202020, 0xFF000000))
	assert.Equal(t, uint32(0), Average())
}
