package talentsift

import (
	"context"

	"github.com/talentsift/talentsift/pkg/types"
)

// AnalyzeRequest ranks the indexed candidate pool against a job query.
type AnalyzeRequest struct {
	JobID string `json:"job_id"`
	Query string `json:"query"`
	// Mode optionally pins the retrieval mode; empty means mix.
	Mode string `json:"mode,omitempty"`
	// TopK bounds the returned candidate list. Zero means the default.
	TopK int `json:"top_k,omitempty"`
}

// AnalyzeResult is the ranked candidate list for a job.
type AnalyzeResult struct {
	JobID        string              `json:"job_id"`
	Candidates   []types.Candidate   `json:"candidates"`
	ModeUsed     types.RetrievalMode `json:"mode_used"`
	FallbackUsed bool                `json:"fallback_used"`
}

// ChatRequest is a follow-up question about a previously analyzed job.
type ChatRequest struct {
	JobID   string `json:"job_id"`
	Message string `json:"message"`
	Mode    string `json:"mode,omitempty"`
}

// ChatResult is a grounded answer over the job's retrieved context.
type ChatResult struct {
	JobID    string              `json:"job_id"`
	Response string              `json:"response"`
	ModeUsed types.RetrievalMode `json:"mode_used"`
	// Sources names the candidates whose content grounded the answer.
	Sources []string `json:"sources,omitempty"`
	// NoMatchingContext is set when nothing matched; Response then carries
	// the sentinel text and no generation happened.
	NoMatchingContext bool `json:"no_matching_context,omitempty"`
	// Grounded is false when the generated answer failed the grounding
	// validation against the supplied context.
	Grounded bool `json:"grounded"`
}

// Analyzer ranks candidates for a job query.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error)
}

// Chatter answers grounded questions about an analyzed job.
type Chatter interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResult, error)
}

// JobContexts reads and deletes committed job analysis contexts.
type JobContexts interface {
	JobContext(ctx context.Context, jobID string) (*types.JobContext, error)
	DeleteJobContext(ctx context.Context, jobID string) error
}
