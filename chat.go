package talentsift

import (
	"context"
	"fmt"
	"strings"

	"github.com/talentsift/talentsift/pkg/composer"
	"github.com/talentsift/talentsift/pkg/retrieval"
	"github.com/talentsift/talentsift/pkg/types"
)

// Chat answers a follow-up question about an analyzed job. The answer is
// grounded in the job's committed candidate context plus a fresh retrieval
// pass for the question itself; with nothing to ground on, the sentinel is
// returned and the generator is never invoked.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	if req.JobID == "" {
		return nil, fmt.Errorf("job_id is required")
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("message is required")
	}

	jc, err := c.jobs.Get(ctx, req.JobID)
	if err != nil {
		return nil, err
	}

	mode := jc.ModeUsed
	if req.Mode != "" {
		parsed, err := types.ParseMode(req.Mode)
		if err != nil {
			return nil, err
		}
		mode = parsed
	}
	if mode == "" {
		mode = types.ModeMix
	}

	query, err := c.prepareQuery(ctx, req.Message, c.topK)
	if err != nil {
		return nil, err
	}

	outcome, err := c.controller.Retrieve(ctx, mode, query)
	c.recordAttempts(req.JobID, mode, outcome, err != nil)
	if err != nil {
		return nil, err
	}

	inputs := compositionInputs(jc.Candidates)
	composition := c.composer.Compose(inputs, c.graphSection(outcome.Result))

	result := &ChatResult{
		JobID:    req.JobID,
		ModeUsed: outcome.ModeUsed,
		Sources:  candidateNames(jc.Candidates),
	}
	if composition.NoMatchingContext {
		result.Response = composer.NoMatchingContext
		result.NoMatchingContext = true
		result.Grounded = true
		result.Sources = nil
		return result, nil
	}

	if c.generator == nil {
		return result, fmt.Errorf("%w: no generation client configured", types.ErrGenerationFailed)
	}

	response, err := c.generator.Generate(ctx, composition.Instruction, composition.Context, req.Message)
	if err != nil {
		// Retrieval succeeded; the caller still gets the sources even
		// though generation did not happen.
		return result, fmt.Errorf("%w: %w", types.ErrGenerationFailed, err)
	}

	result.Response = response
	result.Grounded = true
	if err := composer.ValidateGrounded(response, composition.Context); err != nil {
		c.logger.Warn("generated answer failed grounding validation", "job", req.JobID, "reason", err)
		result.Grounded = false
	}
	return result, nil
}

// graphSection renders the retrieval pass's relations into a readable
// context section, resolving entity ids to canonical names where possible.
func (c *Client) graphSection(result *retrieval.Result) composer.Section {
	section := composer.Section{Title: "Graph Context"}
	if result == nil || len(result.Relations) == 0 {
		return section
	}

	lines := make([]string, 0, len(result.Relations))
	for _, relation := range result.Relations {
		source := c.entityName(relation.SourceEntityID)
		target := c.entityName(relation.TargetEntityID)
		line := fmt.Sprintf("%s %s %s", source, relation.Type, target)
		if relation.Content != "" {
			line += " (" + relation.Content + ")"
		}
		lines = append(lines, line)
	}
	section.Body = strings.Join(lines, "\n")
	return section
}

func (c *Client) entityName(id string) string {
	if entity, ok := c.resolver.Get(id); ok {
		return entity.CanonicalName
	}
	return id
}

func candidateNames(candidates []types.Candidate) []string {
	names := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Name != "" {
			names = append(names, candidate.Name)
			continue
		}
		names = append(names, candidate.ID)
	}
	return names
}

// JobContext returns the committed analysis context for a job.
func (c *Client) JobContext(ctx context.Context, jobID string) (*types.JobContext, error) {
	return c.jobs.Get(ctx, jobID)
}

// DeleteJobContext discards a job's analysis context.
func (c *Client) DeleteJobContext(ctx context.Context, jobID string) error {
	return c.jobs.Delete(ctx, jobID)
}
