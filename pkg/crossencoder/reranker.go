package crossencoder

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/talentsift/talentsift/pkg/types"
)

// DefaultCap bounds how many candidates receive a pairwise rerank score.
const DefaultCap = 50

// Reranker applies a bounded second-stage precision pass over a ranked
// candidate list. The cap is mandatory: pairwise scoring cost is otherwise
// unbounded, so the input is truncated to the cap by descending final score
// before any passage is scored.
type Reranker struct {
	client    Client
	cap       int
	threshold float64
	logger    *slog.Logger
}

// NewReranker creates a Reranker. A cap <= 0 falls back to DefaultCap.
// Candidates whose rerank score falls below threshold are dropped from the
// reranked slice (threshold 0 keeps everything).
func NewReranker(client Client, cap int, threshold float64, logger *slog.Logger) *Reranker {
	if cap <= 0 {
		cap = DefaultCap
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reranker{client: client, cap: cap, threshold: threshold, logger: logger}
}

// Rerank scores at most cap candidates pairwise against the query and
// returns them ordered by rerank score descending, ties broken by the
// original final score. Candidates beyond the cap are returned unchanged
// after the reranked slice, preserving their hybrid-score order.
//
// A rerank backend failure is not fatal: the hybrid-score order already
// ranks the candidates, so the input is returned as-is.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []types.Candidate) ([]types.Candidate, error) {
	if len(candidates) == 0 || r.client == nil {
		return candidates, nil
	}

	sorted := make([]types.Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score.FinalScore > sorted[j].Score.FinalScore
	})

	cut := r.cap
	if cut > len(sorted) {
		cut = len(sorted)
	}
	shortlist, tail := sorted[:cut], sorted[cut:]

	passages := make([]string, len(shortlist))
	for i, candidate := range shortlist {
		passages[i] = candidate.Content
		if passages[i] == "" {
			passages[i] = candidate.Name
		}
	}

	ranked, err := r.client.Rank(ctx, query, passages)
	if err != nil {
		r.logger.Warn("rerank failed, keeping hybrid order", "err", err)
		return candidates, nil
	}
	if len(ranked) != len(shortlist) {
		return nil, fmt.Errorf("rerank returned %d scores for %d candidates", len(ranked), len(shortlist))
	}

	for _, passage := range ranked {
		score := passage.Score
		shortlist[passage.Index].Score.RerankScore = &score
	}

	sort.SliceStable(shortlist, func(i, j int) bool {
		ri, rj := *shortlist[i].Score.RerankScore, *shortlist[j].Score.RerankScore
		if ri != rj {
			return ri > rj
		}
		return shortlist[i].Score.FinalScore > shortlist[j].Score.FinalScore
	})

	if r.threshold > 0 {
		kept := shortlist[:0]
		for _, candidate := range shortlist {
			if *candidate.Score.RerankScore >= r.threshold {
				kept = append(kept, candidate)
			}
		}
		shortlist = kept
	}

	return append(shortlist, tail...), nil
}
