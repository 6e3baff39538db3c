package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/kaptinlin/jsonrepair"

	"github.com/talentsift/talentsift/pkg/types"
)

// highlightInstruction asks for machine-readable output; models frequently
// return it slightly malformed, which is why the response goes through
// repair before unmarshalling.
const highlightInstruction = `You summarize candidate resumes for recruiters.
Given a job query and one candidate's resume content, return JSON only:
{"highlights": ["...", "..."]}
Each highlight is one short sentence naming concrete experience from the resume that matches the query. At most %d highlights. No markdown fences, no prose outside the JSON.`

type highlightPayload struct {
	Highlights []string `json:"highlights"`
}

// ExtractHighlights asks the generation client for the candidate's strongest
// query-relevant points. Model output is repaired before parsing; a response
// that cannot be salvaged into the expected shape is a generation failure.
func ExtractHighlights(ctx context.Context, client Client, query, content string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 3
	}

	instruction := fmt.Sprintf(highlightInstruction, limit)
	raw, err := client.Generate(ctx, instruction, content, query)
	if err != nil {
		return nil, err
	}

	repaired, err := jsonrepair.JSONRepair(stripFences(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: repairing highlight JSON: %w", types.ErrGenerationFailed, err)
	}

	var payload highlightPayload
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
		return nil, fmt.Errorf("%w: parsing highlight JSON: %w", types.ErrGenerationFailed, err)
	}

	highlights := make([]string, 0, limit)
	for _, h := range payload.Highlights {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		highlights = append(highlights, h)
		if len(highlights) == limit {
			break
		}
	}
	return highlights, nil
}

// stripFences removes a markdown code fence if the model wrapped its JSON in
// one anyway.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
