package crossencoder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/talentsift/talentsift/pkg/types"
)

// RemoteClient ranks passages against a Jina-compatible rerank API, as
// exposed by Jina AI, vLLM, LocalAI, and text-embeddings-inference servers.
type RemoteClient struct {
	config Config
	http   *http.Client
}

// NewRemoteClient creates a client for a Jina-compatible /rerank endpoint.
func NewRemoteClient(config Config) *RemoteClient {
	return &RemoteClient{
		config: config,
		http:   &http.Client{Timeout: 60 * time.Second},
	}
}

type rerankRequest struct {
	Model     string   `json:"model,omitempty"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
}

type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
}

// Rank posts the query and passages to the rerank endpoint and returns
// passages sorted by relevance score descending.
func (c *RemoteClient) Rank(ctx context.Context, query string, passages []string) ([]RankedPassage, error) {
	if len(passages) == 0 {
		return []RankedPassage{}, nil
	}

	body, err := json.Marshal(rerankRequest{
		Model:     c.config.Model,
		Query:     query,
		Documents: passages,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal rerank request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/rerank", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build rerank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: rerank: %v", types.ErrBackendTimeout, err)
		}
		return nil, fmt.Errorf("%w: rerank: %v", types.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: rerank returned status %d", types.ErrBackendUnavailable, resp.StatusCode)
	}

	var parsed rerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode rerank response: %w", err)
	}

	ranked := make([]RankedPassage, 0, len(parsed.Results))
	for _, result := range parsed.Results {
		if result.Index < 0 || result.Index >= len(passages) {
			continue
		}
		ranked = append(ranked, RankedPassage{
			Passage: passages[result.Index],
			Score:   result.RelevanceScore,
			Index:   result.Index,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked, nil
}
