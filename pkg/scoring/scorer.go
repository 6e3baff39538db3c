package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/talentsift/talentsift/pkg/graph"
	"github.com/talentsift/talentsift/pkg/lexical"
	"github.com/talentsift/talentsift/pkg/types"
)

// Input is one candidate entering the fusion stage, carrying the raw vector
// signal produced by retrieval.
type Input struct {
	CandidateID string
	// VectorSimilarity is raw cosine, in [-1,1]. Clamped before weighting.
	VectorSimilarity float64
	// HasVectorSignal is false for candidates that reached the shortlist
	// through the graph only.
	HasVectorSignal bool
}

// Scorer fuses lexical, vector, and graph signals into one normalized score
// per candidate. Signal computation for independent candidates runs on a
// bounded worker pool.
type Scorer struct {
	weights Weights
	lexical lexical.Scorer
	store   graph.Store
	pool    *ants.Pool
	logger  *slog.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights overrides the default fusion weights.
func WithWeights(w Weights) Option {
	return func(s *Scorer) { s.weights = w }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scorer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScorer creates a Scorer with a worker pool sized to half the CPUs,
// minimum one. The lexical scorer and graph store may be nil; the matching
// signal is then treated as structurally unavailable.
func NewScorer(lexicalScorer lexical.Scorer, store graph.Store, opts ...Option) (*Scorer, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("create scoring pool: %w", err)
	}

	s := &Scorer{
		weights: DefaultWeights(),
		lexical: lexicalScorer,
		store:   store,
		pool:    pool,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the worker pool.
func (s *Scorer) Close() {
	s.pool.Release()
}

// Score fuses the signals for every candidate and returns scores sorted by
// FinalScore descending. requiredSkills are the canonical skill entities
// resolved from the job query; the graph bonus is the fraction of them
// linked to the candidate.
func (s *Scorer) Score(ctx context.Context, queryTerms []string, inputs []Input, requiredSkills []*types.Entity) ([]types.CandidateScore, error) {
	if len(inputs) == 0 {
		return []types.CandidateScore{}, nil
	}

	avail := Availability{
		Lexical: s.lexical != nil && s.lexical.Available(),
		Vector:  true,
		Graph:   s.store != nil,
	}
	weights := s.weights.Normalize(avail)

	scores := make([]types.CandidateScore, len(inputs))
	errs := make([]error, len(inputs))
	var wg sync.WaitGroup

	for i, input := range inputs {
		wg.Add(1)
		i, input := i, input
		if err := s.pool.Submit(func() {
			defer wg.Done()
			scores[i], errs[i] = s.scoreOne(ctx, queryTerms, input, requiredSkills, weights, avail)
		}); err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("submit scoring task: %w", err)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].FinalScore > scores[j].FinalScore
	})
	return scores, nil
}

func (s *Scorer) scoreOne(ctx context.Context, queryTerms []string, input Input, requiredSkills []*types.Entity, weights Weights, avail Availability) (types.CandidateScore, error) {
	score := types.CandidateScore{CandidateID: input.CandidateID}

	if avail.Lexical {
		lex, err := s.lexical.Score(ctx, queryTerms, input.CandidateID)
		if err != nil {
			return score, fmt.Errorf("lexical score for %s: %w", input.CandidateID, err)
		}
		score.LexicalScore = ClampUnit(lex)
	}

	if input.HasVectorSignal {
		score.VectorScore = ClampUnit(input.VectorSimilarity)
	}

	if avail.Graph {
		bonus, err := s.graphBonus(ctx, input.CandidateID, requiredSkills)
		if err != nil {
			return score, err
		}
		score.GraphBonus = bonus
	}

	score.FinalScore = weights.Lexical*score.LexicalScore +
		weights.Vector*score.VectorScore +
		weights.Graph*score.GraphBonus
	return score, nil
}

// graphBonus is the fraction of required skills present as canonical
// entities linked to the candidate: 1.0 when all are present, 0 when none.
func (s *Scorer) graphBonus(ctx context.Context, candidateID string, requiredSkills []*types.Entity) (float64, error) {
	if len(requiredSkills) == 0 {
		return 0, nil
	}

	linked, err := s.store.EntitiesForCandidate(ctx, candidateID)
	if err != nil {
		// The graph leg already succeeded or was skipped by the fallback
		// chain; a bonus lookup failure degrades to no bonus rather than
		// failing the whole scoring pass.
		s.logger.Warn("graph bonus lookup failed", "candidate", candidateID, "err", err)
		return 0, nil
	}

	linkedIDs := make(map[string]struct{}, len(linked))
	for _, entity := range linked {
		linkedIDs[entity.ID] = struct{}{}
	}

	var present int
	for _, skill := range requiredSkills {
		if _, ok := linkedIDs[skill.ID]; ok {
			present++
		}
	}
	return float64(present) / float64(len(requiredSkills)), nil
}
