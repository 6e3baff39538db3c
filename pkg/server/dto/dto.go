// Package dto defines the HTTP wire types for the talentsift API.
package dto

import (
	"github.com/talentsift/talentsift/pkg/types"
)

// AnalyzeRequest is the POST /api/v1/analyze body.
type AnalyzeRequest struct {
	JobID string `json:"job_id" binding:"required"`
	Query string `json:"query" binding:"required"`
	Mode  string `json:"mode,omitempty"`
	TopK  int    `json:"top_k,omitempty"`
}

// AnalyzeResponse is the ranked candidate list.
type AnalyzeResponse struct {
	JobID        string            `json:"job_id"`
	Candidates   []types.Candidate `json:"candidates"`
	ModeUsed     string            `json:"mode_used"`
	FallbackUsed bool              `json:"fallback_used"`
}

// ChatRequest is the POST /api/v1/chat body.
type ChatRequest struct {
	JobID   string `json:"job_id" binding:"required"`
	Message string `json:"message" binding:"required"`
	Mode    string `json:"mode,omitempty"`
}

// ChatResponse is a grounded answer with its sources.
type ChatResponse struct {
	JobID             string   `json:"job_id"`
	Response          string   `json:"response"`
	ModeUsed          string   `json:"mode_used"`
	Sources           []string `json:"sources,omitempty"`
	NoMatchingContext bool     `json:"no_matching_context,omitempty"`
	Grounded          bool     `json:"grounded"`
}

// JobContextResponse is the committed analysis context for a job.
type JobContextResponse struct {
	JobID         string            `json:"job_id"`
	OriginalQuery string            `json:"original_query"`
	Candidates    []types.Candidate `json:"candidates"`
	ModeUsed      string            `json:"mode_used"`
	CreatedAt     string            `json:"created_at"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
