package telemetry

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/talentsift/pkg/retrieval"
	"github.com/talentsift/talentsift/pkg/types"
)

func TestParquetHandlerPersistsErrorRecords(t *testing.T) {
	dir := t.TempDir()
	next := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	handler, err := NewParquetHandler(next, dir)
	require.NoError(t, err)

	logger := slog.New(handler)
	ctx := WithJobID(context.Background(), "job-7")

	logger.InfoContext(ctx, "routine message")
	logger.ErrorContext(ctx, "backend down", "backend", "neo4j")

	require.NoError(t, handler.Flush())

	files, err := filepath.Glob(filepath.Join(dir, "errors_*.parquet"))
	require.NoError(t, err)
	assert.Len(t, files, 1, "one flush writes one file; info records are not persisted")
}

func TestParquetHandlerFlushWithEmptyBufferWritesNothing(t *testing.T) {
	dir := t.TempDir()
	handler, err := NewParquetHandler(slog.NewTextHandler(io.Discard, nil), dir)
	require.NoError(t, err)

	require.NoError(t, handler.Flush())
	files, err := filepath.Glob(filepath.Join(dir, "*.parquet"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestAttemptRecorderWritesOneRecordPerAttempt(t *testing.T) {
	dir := t.TempDir()
	recorder, err := NewAttemptRecorder(dir)
	require.NoError(t, err)

	outcome := &retrieval.Outcome{
		ModeUsed:     types.ModeLocal,
		FallbackUsed: true,
		Attempts: []retrieval.Attempt{
			{Mode: types.ModeMix, Err: "backend unavailable", Elapsed: 120 * time.Millisecond},
			{Mode: types.ModeHybrid, Err: "backend unavailable", Elapsed: 80 * time.Millisecond},
			{Mode: types.ModeLocal, Elapsed: 15 * time.Millisecond},
		},
	}
	require.NoError(t, recorder.RecordOutcome("job-7", types.ModeMix, outcome, false))

	recorder.mu.Lock()
	buffered := len(recorder.buffer)
	recorder.mu.Unlock()
	assert.Equal(t, 3, buffered)

	require.NoError(t, recorder.Flush())
	files, err := filepath.Glob(filepath.Join(dir, "attempts_*.parquet"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}
