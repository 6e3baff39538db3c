package jobstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/talentsift/talentsift/pkg/types"
)

// Store holds the per-job analysis context that chat turns read. An analyze
// run brackets its work with Begin/release; the context only becomes visible
// through Commit, atomically and fully written.
type Store interface {
	// Begin reserves the job for one in-flight analyze. A second Begin for
	// the same job before release returns ErrJobContextConflict
	// immediately; it never queues.
	Begin(jobID string) (release func(), err error)

	// Commit atomically replaces the job's context.
	Commit(ctx context.Context, jc *types.JobContext) error

	// Get returns the most recently committed context for the job, or
	// ErrJobNotFound.
	Get(ctx context.Context, jobID string) (*types.JobContext, error)

	// Delete discards the job's context. Deleting an absent job returns
	// ErrJobNotFound.
	Delete(ctx context.Context, jobID string) error
}

// MemoryStore is the in-memory Store implementation. Reads are concurrent;
// the in-flight reservation is independent of the committed contexts, so
// chat turns keep serving the previous context while a re-analyze runs.
type MemoryStore struct {
	mu       sync.RWMutex
	contexts map[string]*types.JobContext
	inFlight map[string]struct{}
}

// NewMemoryStore creates an empty job context store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		contexts: make(map[string]*types.JobContext),
		inFlight: make(map[string]struct{}),
	}
}

func (s *MemoryStore) Begin(jobID string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[jobID]; busy {
		return nil, fmt.Errorf("%w: %s", types.ErrJobContextConflict, jobID)
	}
	s.inFlight[jobID] = struct{}{}

	var once sync.Once
	release := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.inFlight, jobID)
			s.mu.Unlock()
		})
	}
	return release, nil
}

func (s *MemoryStore) Commit(ctx context.Context, jc *types.JobContext) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored := *jc
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	s.mu.Lock()
	s.contexts[stored.JobID] = &stored
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, jobID string) (*types.JobContext, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	jc, ok := s.contexts[jobID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrJobNotFound, jobID)
	}
	return jc, nil
}

func (s *MemoryStore) Delete(ctx context.Context, jobID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contexts[jobID]; !ok {
		return fmt.Errorf("%w: %s", types.ErrJobNotFound, jobID)
	}
	delete(s.contexts, jobID)
	return nil
}
