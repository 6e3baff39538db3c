package talentsift

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/talentsift/talentsift/pkg/composer"
	"github.com/talentsift/talentsift/pkg/crossencoder"
	"github.com/talentsift/talentsift/pkg/embedder"
	"github.com/talentsift/talentsift/pkg/graph"
	"github.com/talentsift/talentsift/pkg/jobstore"
	"github.com/talentsift/talentsift/pkg/lexical"
	"github.com/talentsift/talentsift/pkg/llm"
	"github.com/talentsift/talentsift/pkg/resolver"
	"github.com/talentsift/talentsift/pkg/retrieval"
	"github.com/talentsift/talentsift/pkg/scoring"
	"github.com/talentsift/talentsift/pkg/telemetry"
	"github.com/talentsift/talentsift/pkg/types"
	"github.com/talentsift/talentsift/pkg/vectorindex"
)

// DefaultTopK bounds the candidate list when the request does not.
const DefaultTopK = 20

// Options wires the pipeline's backends together. Embedder, Index, Chunks,
// Graph and Resolver are required; the rest degrade gracefully when absent.
type Options struct {
	Embedder embedder.Client
	Index    vectorindex.Index
	Chunks   retrieval.ChunkSource
	Graph    graph.Store
	Resolver *resolver.Resolver

	// Lexical scores keyword relevance; nil marks the signal unavailable.
	Lexical lexical.Scorer
	// Reranker refines the shortlist; nil skips the precision pass.
	Reranker *crossencoder.Reranker
	// Generator answers chat turns and extracts highlights; nil makes chat
	// generation fail and falls highlights back to term snippets.
	Generator llm.Client
	// Jobs stores per-job analysis contexts. Defaults to in-memory.
	Jobs jobstore.Store
	// Attempts records fallback chain telemetry; nil disables it.
	Attempts *telemetry.AttemptRecorder

	Weights        scoring.Weights
	Chain          []types.RetrievalMode
	AttemptTimeout time.Duration
	CharBudget     int
	HighlightLimit int
	Logger         *slog.Logger
}

// Client is the dual-level candidate retrieval pipeline: analyze ranks the
// pool for a job, chat answers grounded follow-ups over the analysis.
type Client struct {
	embedder   embedder.Client
	chunks     retrieval.ChunkSource
	graph      graph.Store
	resolver   *resolver.Resolver
	controller *retrieval.Controller
	scorer     *scoring.Scorer
	reranker   *crossencoder.Reranker
	composer   *composer.Composer
	generator  llm.Client
	jobs       jobstore.Store
	attempts   *telemetry.AttemptRecorder

	topK           int
	highlightLimit int
	logger         *slog.Logger
}

var (
	_ Analyzer    = (*Client)(nil)
	_ Chatter     = (*Client)(nil)
	_ JobContexts = (*Client)(nil)
)

// New assembles the pipeline from its backends.
func New(opts Options) (*Client, error) {
	if opts.Embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if opts.Index == nil || opts.Chunks == nil {
		return nil, fmt.Errorf("vector index and chunk source are required")
	}
	if opts.Graph == nil {
		return nil, fmt.Errorf("graph store is required")
	}
	if opts.Resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Jobs == nil {
		opts.Jobs = jobstore.NewMemoryStore()
	}

	engine := retrieval.NewEngine(opts.Index, opts.Chunks, opts.Graph, opts.Resolver, logger)
	var controllerOpts []retrieval.ControllerOption
	if len(opts.Chain) > 0 {
		controllerOpts = append(controllerOpts, retrieval.WithChain(opts.Chain))
	}
	if opts.AttemptTimeout > 0 {
		controllerOpts = append(controllerOpts, retrieval.WithAttemptTimeout(opts.AttemptTimeout))
	}

	scorerOpts := []scoring.Option{scoring.WithLogger(logger)}
	if opts.Weights != (scoring.Weights{}) {
		scorerOpts = append(scorerOpts, scoring.WithWeights(opts.Weights))
	}
	scorer, err := scoring.NewScorer(opts.Lexical, opts.Graph, scorerOpts...)
	if err != nil {
		return nil, fmt.Errorf("building scorer: %w", err)
	}

	composerOpts := []composer.Option{composer.WithLogger(logger)}
	if opts.CharBudget > 0 {
		composerOpts = append(composerOpts, composer.WithCharBudget(opts.CharBudget))
	}

	highlightLimit := opts.HighlightLimit
	if highlightLimit <= 0 {
		highlightLimit = 3
	}

	return &Client{
		embedder:       opts.Embedder,
		chunks:         opts.Chunks,
		graph:          opts.Graph,
		resolver:       opts.Resolver,
		controller:     retrieval.NewController(engine, controllerOpts...),
		scorer:         scorer,
		reranker:       opts.Reranker,
		composer:       composer.New(composerOpts...),
		generator:      opts.Generator,
		jobs:           opts.Jobs,
		attempts:       opts.Attempts,
		topK:           DefaultTopK,
		highlightLimit: highlightLimit,
		logger:         logger,
	}, nil
}

// Close releases pooled resources.
func (c *Client) Close() {
	c.scorer.Close()
	if c.attempts != nil {
		if err := c.attempts.Flush(); err != nil {
			c.logger.Warn("flushing attempt telemetry", "err", err)
		}
	}
}
