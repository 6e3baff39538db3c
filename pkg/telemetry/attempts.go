package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"

	"github.com/talentsift/talentsift/pkg/retrieval"
	"github.com/talentsift/talentsift/pkg/types"
)

// AttemptRecord is one fallback chain step as persisted to Parquet. A
// retrieval outcome produces one record per attempted mode, sharing an
// outcome id.
type AttemptRecord struct {
	OutcomeID     string    `parquet:"outcome_id"`
	Timestamp     time.Time `parquet:"timestamp"`
	JobID         string    `parquet:"job_id"`
	RequestedMode string    `parquet:"requested_mode"`
	ModeUsed      string    `parquet:"mode_used"`
	AttemptMode   string    `parquet:"attempt_mode"`
	AttemptError  string    `parquet:"attempt_error"`
	ElapsedMs     int64     `parquet:"elapsed_ms"`
	FallbackUsed  bool      `parquet:"fallback_used"`
	Exhausted     bool      `parquet:"exhausted"`
}

// AttemptRecorder batches fallback chain telemetry into Parquet files.
type AttemptRecorder struct {
	outputDir string
	mu        sync.Mutex
	buffer    []AttemptRecord
	batchSize int
}

// NewAttemptRecorder creates the recorder and its output directory.
func NewAttemptRecorder(outputDir string) (*AttemptRecorder, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}
	return &AttemptRecorder{
		outputDir: outputDir,
		batchSize: 200,
		buffer:    make([]AttemptRecord, 0, 200),
	}, nil
}

// RecordOutcome appends one record per attempt in the outcome. Exhausted
// marks outcomes where no mode succeeded.
func (r *AttemptRecorder) RecordOutcome(jobID string, requested types.RetrievalMode, outcome *retrieval.Outcome, exhausted bool) error {
	if outcome == nil || len(outcome.Attempts) == 0 {
		return nil
	}

	outcomeID := uuid.New().String()
	now := time.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, attempt := range outcome.Attempts {
		r.buffer = append(r.buffer, AttemptRecord{
			OutcomeID:     outcomeID,
			Timestamp:     now,
			JobID:         jobID,
			RequestedMode: string(requested),
			ModeUsed:      string(outcome.ModeUsed),
			AttemptMode:   string(attempt.Mode),
			AttemptError:  attempt.Err,
			ElapsedMs:     attempt.Elapsed.Milliseconds(),
			FallbackUsed:  outcome.FallbackUsed,
			Exhausted:     exhausted,
		})
	}
	if len(r.buffer) >= r.batchSize {
		return r.flush()
	}
	return nil
}

// Flush writes any buffered records immediately. Call on shutdown.
func (r *AttemptRecorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flush()
}

// Caller holds the lock.
func (r *AttemptRecorder) flush() error {
	if len(r.buffer) == 0 {
		return nil
	}
	filename := fmt.Sprintf("attempts_%s_%d.parquet", time.Now().Format("20060102_150405"), time.Now().UnixNano())
	if err := parquet.WriteFile(filepath.Join(r.outputDir, filename), r.buffer); err != nil {
		return fmt.Errorf("writing attempt parquet file: %w", err)
	}
	r.buffer = r.buffer[:0]
	return nil
}
