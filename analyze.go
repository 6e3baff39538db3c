package talentsift

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/talentsift/talentsift/pkg/composer"
	"github.com/talentsift/talentsift/pkg/lexical"
	"github.com/talentsift/talentsift/pkg/llm"
	"github.com/talentsift/talentsift/pkg/retrieval"
	"github.com/talentsift/talentsift/pkg/scoring"
	"github.com/talentsift/talentsift/pkg/types"
)

// Analyze ranks the candidate pool against the job query: dual-level
// retrieval with fallback, hybrid score fusion, capped reranking, and an
// atomic job context commit for follow-up chat turns.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	if req.JobID == "" {
		return nil, fmt.Errorf("job_id is required")
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("query is required")
	}

	mode := types.ModeMix
	if req.Mode != "" {
		parsed, err := types.ParseMode(req.Mode)
		if err != nil {
			return nil, err
		}
		mode = parsed
	}

	release, err := c.jobs.Begin(req.JobID)
	if err != nil {
		return nil, err
	}
	defer release()

	topK := req.TopK
	if topK <= 0 {
		topK = c.topK
	}

	query, err := c.prepareQuery(ctx, req.Query, topK)
	if err != nil {
		return nil, err
	}

	outcome, err := c.controller.Retrieve(ctx, mode, query)
	c.recordAttempts(req.JobID, mode, outcome, err != nil)
	if err != nil {
		return nil, err
	}

	candidates, err := c.rankCandidates(ctx, query, outcome.Result)
	if err != nil {
		return nil, err
	}

	if c.reranker != nil {
		candidates, err = c.reranker.Rerank(ctx, req.Query, candidates)
		if err != nil {
			return nil, fmt.Errorf("reranking: %w", err)
		}
	}
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	for i := range candidates {
		candidates[i].Highlights = c.highlightsFor(ctx, req.Query, query.Terms, candidates[i].Content)
	}

	composition := c.composer.Compose(compositionInputs(candidates))
	if err := c.jobs.Commit(ctx, &types.JobContext{
		JobID:            req.JobID,
		OriginalQuery:    req.Query,
		RetrievedContext: composition.Context,
		Candidates:       candidates,
		ModeUsed:         outcome.ModeUsed,
	}); err != nil {
		return nil, fmt.Errorf("committing job context: %w", err)
	}

	return &AnalyzeResult{
		JobID:        req.JobID,
		Candidates:   candidates,
		ModeUsed:     outcome.ModeUsed,
		FallbackUsed: outcome.FallbackUsed,
	}, nil
}

// prepareQuery embeds and tokenizes the query text. An embedding failure is
// fatal: no retrieval strategy compensates for an unembeddable query.
func (c *Client) prepareQuery(ctx context.Context, text string, topK int) (*retrieval.Query, error) {
	vector, err := c.embedder.EmbedSingle(ctx, text)
	if err != nil {
		return nil, err
	}

	return &retrieval.Query{
		Text:   text,
		Vector: vector,
		Terms:  lexical.Tokenize(text),
		Skills: c.extractSkills(text),
		TopK:   topK,
	}, nil
}

// maxSkillGram bounds how many words a canonical skill name may span.
const maxSkillGram = 3

// extractSkills resolves the query's word n-grams against the canonical
// registry, longest first so multi-word skills win over their parts. The
// words come from a plain whitespace split rather than the lexical
// tokenizer, which would drop single-letter skills and the stopwords
// inside names like "Ruby on Rails". Misspellings resolve through the
// registry's fuzzy match; ambiguous near-misses are logged there and
// skipped here.
func (c *Client) extractSkills(text string) []*types.Entity {
	words := strings.Fields(text)
	seen := make(map[string]struct{})
	var skills []*types.Entity

	for i := 0; i < len(words); {
		advance := 1
		for n := min(maxSkillGram, len(words)-i); n >= 1; n-- {
			surface := strings.Join(words[i:i+n], " ")
			if n == 1 && lexical.IsStopword(surface) {
				continue
			}
			res, err := c.resolver.ResolveExisting(surface, types.EntitySkill)
			if err != nil || res == nil || res.Entity.Type != types.EntitySkill {
				continue
			}
			if _, dup := seen[res.Entity.ID]; !dup {
				seen[res.Entity.ID] = struct{}{}
				skills = append(skills, res.Entity)
			}
			advance = n
			break
		}
		i += advance
	}
	return skills
}

// candidateDoc aggregates a retrieval result's chunks per resume document.
type candidateDoc struct {
	id        string
	chunks    []retrieval.ScoredChunk
	bestSim   float64
	hasVector bool
}

// rankCandidates groups retrieved chunks into per-document candidates and
// fuses their signals through the hybrid scorer.
func (c *Client) rankCandidates(ctx context.Context, query *retrieval.Query, result *retrieval.Result) ([]types.Candidate, error) {
	docs := make(map[string]*candidateDoc)
	var order []string
	for _, scored := range result.Chunks {
		doc, ok := docs[scored.Chunk.DocumentID]
		if !ok {
			doc = &candidateDoc{id: scored.Chunk.DocumentID}
			docs[scored.Chunk.DocumentID] = doc
			order = append(order, scored.Chunk.DocumentID)
		}
		doc.chunks = append(doc.chunks, scored)
		if scored.FromVector {
			doc.hasVector = true
			if scored.Similarity > doc.bestSim {
				doc.bestSim = scored.Similarity
			}
		}
	}
	if len(order) == 0 {
		return nil, nil
	}

	inputs := make([]scoring.Input, 0, len(order))
	for _, id := range order {
		doc := docs[id]
		inputs = append(inputs, scoring.Input{
			CandidateID:      doc.id,
			VectorSimilarity: doc.bestSim,
			HasVectorSignal:  doc.hasVector,
		})
	}
	scores, err := c.scorer.Score(ctx, query.Terms, inputs, query.Skills)
	if err != nil {
		return nil, fmt.Errorf("scoring candidates: %w", err)
	}

	candidates := make([]types.Candidate, 0, len(scores))
	for _, score := range scores {
		doc := docs[score.CandidateID]
		candidates = append(candidates, types.Candidate{
			ID:      score.CandidateID,
			Name:    c.candidateName(ctx, score.CandidateID),
			Content: docContent(doc),
			Score:   score,
		})
	}
	return candidates, nil
}

// candidateName returns the candidate's PERSON entity name when the graph
// has one linked.
func (c *Client) candidateName(ctx context.Context, candidateID string) string {
	entities, err := c.graph.EntitiesForCandidate(ctx, candidateID)
	if err != nil {
		c.logger.Warn("candidate name lookup failed", "candidate", candidateID, "err", err)
		return ""
	}
	for _, entity := range entities {
		if entity.Type == types.EntityPerson {
			return entity.CanonicalName
		}
	}
	return ""
}

// docContent joins a document's chunks in document order.
func docContent(doc *candidateDoc) string {
	chunks := make([]retrieval.ScoredChunk, len(doc.chunks))
	copy(chunks, doc.chunks)
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Chunk.OrderIndex < chunks[j].Chunk.OrderIndex
	})
	parts := make([]string, 0, len(chunks))
	for _, scored := range chunks {
		parts = append(parts, scored.Chunk.Content)
	}
	return strings.Join(parts, "\n\n")
}

// highlightsFor asks the generator for structured highlights, degrading to
// term-matched snippets when no generator is configured or the call fails.
func (c *Client) highlightsFor(ctx context.Context, queryText string, terms []string, content string) []string {
	if content == "" {
		return nil
	}
	if c.generator != nil {
		highlights, err := llm.ExtractHighlights(ctx, c.generator, queryText, content, c.highlightLimit)
		if err == nil {
			return highlights
		}
		c.logger.Warn("highlight extraction failed, using term snippets", "err", err)
	}
	return termSnippets(content, terms, c.highlightLimit)
}

// termSnippets picks sentences containing any query term.
func termSnippets(content string, terms []string, limit int) []string {
	if limit <= 0 || len(terms) == 0 {
		return nil
	}
	termSet := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		termSet[term] = struct{}{}
	}

	var snippets []string
	for _, sentence := range strings.FieldsFunc(content, func(r rune) bool {
		return r == '.' || r == '\n'
	}) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		matched := false
		for _, token := range lexical.Tokenize(sentence) {
			if _, ok := termSet[token]; ok {
				matched = true
				break
			}
		}
		if matched {
			snippets = append(snippets, sentence)
			if len(snippets) == limit {
				break
			}
		}
	}
	return snippets
}

func compositionInputs(candidates []types.Candidate) []composer.Input {
	inputs := make([]composer.Input, 0, len(candidates))
	for _, candidate := range candidates {
		name := candidate.Name
		if name == "" {
			name = candidate.ID
		}
		inputs = append(inputs, composer.Input{
			Name:    name,
			Content: candidate.Content,
			Score:   candidate.Score.FinalScore,
		})
	}
	return inputs
}

func (c *Client) recordAttempts(jobID string, requested types.RetrievalMode, outcome *retrieval.Outcome, exhausted bool) {
	if c.attempts == nil || outcome == nil {
		return
	}
	if err := c.attempts.RecordOutcome(jobID, requested, outcome, exhausted); err != nil {
		c.logger.Warn("recording attempt telemetry", "err", err)
	}
}
