package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	talentsift "github.com/talentsift/talentsift"
	"github.com/talentsift/talentsift/pkg/server/dto"
	"github.com/talentsift/talentsift/pkg/types"
)

// JobsHandler serves the analyze, chat, and job context endpoints.
type JobsHandler struct {
	analyzer talentsift.Analyzer
	chatter  talentsift.Chatter
	contexts talentsift.JobContexts
}

// NewJobsHandler creates the handler over the pipeline facade.
func NewJobsHandler(analyzer talentsift.Analyzer, chatter talentsift.Chatter, contexts talentsift.JobContexts) *JobsHandler {
	return &JobsHandler{analyzer: analyzer, chatter: chatter, contexts: contexts}
}

// Analyze handles POST /api/v1/analyze.
func (h *JobsHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), talentsift.AnalyzeRequest{
		JobID: req.JobID,
		Query: req.Query,
		Mode:  req.Mode,
		TopK:  req.TopK,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AnalyzeResponse{
		JobID:        result.JobID,
		Candidates:   result.Candidates,
		ModeUsed:     string(result.ModeUsed),
		FallbackUsed: result.FallbackUsed,
	})
}

// Chat handles POST /api/v1/chat.
func (h *JobsHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.chatter.Chat(c.Request.Context(), talentsift.ChatRequest{
		JobID:   req.JobID,
		Message: req.Message,
		Mode:    req.Mode,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ChatResponse{
		JobID:             result.JobID,
		Response:          result.Response,
		ModeUsed:          string(result.ModeUsed),
		Sources:           result.Sources,
		NoMatchingContext: result.NoMatchingContext,
		Grounded:          result.Grounded,
	})
}

// GetJobContext handles GET /api/v1/jobs/:job_id.
func (h *JobsHandler) GetJobContext(c *gin.Context) {
	jc, err := h.contexts.JobContext(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.JobContextResponse{
		JobID:         jc.JobID,
		OriginalQuery: jc.OriginalQuery,
		Candidates:    jc.Candidates,
		ModeUsed:      string(jc.ModeUsed),
		CreatedAt:     jc.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// DeleteJobContext handles DELETE /api/v1/jobs/:job_id.
func (h *JobsHandler) DeleteJobContext(c *gin.Context) {
	if err := h.contexts.DeleteJobContext(c.Request.Context(), c.Param("job_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondError maps pipeline errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrInvalidMode):
		status = http.StatusBadRequest
	case errors.Is(err, types.ErrJobNotFound):
		status = http.StatusNotFound
	case errors.Is(err, types.ErrJobContextConflict):
		status = http.StatusConflict
	case errors.Is(err, types.ErrChainExhausted),
		errors.Is(err, types.ErrEmbeddingUnavailable),
		errors.Is(err, types.ErrBackendUnavailable),
		errors.Is(err, types.ErrBackendTimeout):
		status = http.StatusServiceUnavailable
	case errors.Is(err, types.ErrGenerationFailed):
		status = http.StatusBadGateway
	}
	c.JSON(status, dto.ErrorResponse{Error: err.Error()})
}
