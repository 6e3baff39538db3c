package talentsift

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	talentsift "github.com/talentsift/talentsift"
	"github.com/talentsift/talentsift/pkg/config"
	"github.com/talentsift/talentsift/pkg/crossencoder"
	"github.com/talentsift/talentsift/pkg/embedder"
	"github.com/talentsift/talentsift/pkg/graph"
	"github.com/talentsift/talentsift/pkg/lexical"
	"github.com/talentsift/talentsift/pkg/llm"
	"github.com/talentsift/talentsift/pkg/resolver"
	"github.com/talentsift/talentsift/pkg/retrieval"
	"github.com/talentsift/talentsift/pkg/scoring"
	"github.com/talentsift/talentsift/pkg/server"
	"github.com/talentsift/talentsift/pkg/telemetry"
	"github.com/talentsift/talentsift/pkg/types"
	"github.com/talentsift/talentsift/pkg/vectorindex"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the TalentSift HTTP server",
	Long: `Start the TalentSift HTTP server providing REST access to the retrieval
pipeline: candidate analysis, grounded chat, and job context management.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "localhost", "Server host")
	serveCmd.Flags().Int("port", 8080, "Server port")
	serveCmd.Flags().String("mode", "release", "Server mode (debug, release, test)")

	serveCmd.Flags().String("graph-driver", "memory", "Graph driver (neo4j, memory)")
	serveCmd.Flags().String("graph-uri", "bolt://localhost:7687", "Neo4j URI")
	serveCmd.Flags().String("vector-driver", "memory", "Vector driver (postgres, memory)")
	serveCmd.Flags().String("vector-dsn", "", "Postgres DSN for the vector index")
	serveCmd.Flags().String("embedding-base-url", "", "Embedding endpoint base URL")
	serveCmd.Flags().String("generate-base-url", "", "Generation endpoint base URL")
	serveCmd.Flags().String("rerank-base-url", "", "Rerank endpoint base URL")
	serveCmd.Flags().Int("rerank-cap", 50, "Rerank shortlist cap")
	serveCmd.Flags().String("telemetry-parquet-path", "", "Directory for telemetry parquet output")

	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.mode", serveCmd.Flags().Lookup("mode"))
	viper.BindPFlag("graph.driver", serveCmd.Flags().Lookup("graph-driver"))
	viper.BindPFlag("graph.uri", serveCmd.Flags().Lookup("graph-uri"))
	viper.BindPFlag("vector.driver", serveCmd.Flags().Lookup("vector-driver"))
	viper.BindPFlag("vector.dsn", serveCmd.Flags().Lookup("vector-dsn"))
	viper.BindPFlag("embedding.base_url", serveCmd.Flags().Lookup("embedding-base-url"))
	viper.BindPFlag("generate.base_url", serveCmd.Flags().Lookup("generate-base-url"))
	viper.BindPFlag("rerank.base_url", serveCmd.Flags().Lookup("rerank-base-url"))
	viper.BindPFlag("rerank.cap", serveCmd.Flags().Lookup("rerank-cap"))
	viper.BindPFlag("telemetry.parquet_path", serveCmd.Flags().Lookup("telemetry-parquet-path"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, handler, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	client, err := buildClient(cfg, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	srv := server.New(cfg, client, nil)
	srv.Setup()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)
		errChan <- srv.Start()
	}()

	select {
	case sig := <-sigChan:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	if handler != nil {
		if err := handler.Flush(); err != nil {
			logger.Warn("flushing telemetry", "err", err)
		}
	}
	return nil
}

// buildLogger creates the structured logger, with the parquet error sink
// layered on when a telemetry path is configured.
func buildLogger(cfg *config.Config) (*slog.Logger, *telemetry.ParquetHandler, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var base slog.Handler
	if cfg.Log.Format == "json" {
		base = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		base = slog.NewTextHandler(os.Stderr, opts)
	}

	if cfg.Telemetry.ParquetPath == "" {
		return slog.New(base), nil, nil
	}
	parquetHandler, err := telemetry.NewParquetHandler(base, cfg.Telemetry.ParquetPath)
	if err != nil {
		return nil, nil, fmt.Errorf("building telemetry handler: %w", err)
	}
	return slog.New(parquetHandler), parquetHandler, nil
}

// buildClient assembles the pipeline backends from configuration.
func buildClient(cfg *config.Config, logger *slog.Logger) (*talentsift.Client, error) {
	var index vectorindex.Index
	var chunks retrieval.ChunkSource
	switch cfg.Vector.Driver {
	case "postgres":
		pg, err := vectorindex.NewPostgresIndex(cfg.Vector.DSN, cfg.Vector.Table)
		if err != nil {
			return nil, fmt.Errorf("connecting vector index: %w", err)
		}
		index, chunks = pg, pg
	default:
		mem := vectorindex.NewMemoryIndex()
		index, chunks = mem, mem
	}

	var store graph.Store
	switch cfg.Graph.Driver {
	case "neo4j":
		neo, err := graph.NewNeo4jStore(cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password, cfg.Graph.Database)
		if err != nil {
			return nil, fmt.Errorf("connecting graph store: %w", err)
		}
		store = neo
	default:
		store = graph.NewMemoryStore()
	}

	ontology, err := resolver.DefaultOntology()
	if err != nil {
		return nil, fmt.Errorf("loading ontology: %w", err)
	}
	res := resolver.New(ontology,
		resolver.WithThreshold(cfg.Resolver.Threshold),
		resolver.WithAmbiguityBand(cfg.Resolver.AmbiguityBand),
		resolver.WithLogger(logger),
	)

	embed := embedder.NewOpenAIClient(embedder.Config{
		Model:      cfg.Embedding.Model,
		BaseURL:    cfg.Embedding.BaseURL,
		APIKey:     cfg.Embedding.APIKey,
		Dimensions: cfg.Embedding.Dimensions,
	})

	var reranker *crossencoder.Reranker
	if cfg.Rerank.Enabled && cfg.Rerank.BaseURL != "" {
		remote := crossencoder.NewRemoteClient(crossencoder.Config{
			Model:   cfg.Rerank.Model,
			BaseURL: cfg.Rerank.BaseURL,
			APIKey:  cfg.Rerank.APIKey,
		})
		breaker := crossencoder.NewBreakerClient(remote, "rerank", crossencoder.BreakerSettings{}, logger)
		reranker = crossencoder.NewReranker(breaker, cfg.Rerank.Cap, cfg.Rerank.Threshold, logger)
	}

	var generator llm.Client
	if cfg.Generate.APIKey != "" || cfg.Generate.BaseURL != "" {
		generator = llm.NewBreakerClient(llm.NewOpenAIClient(llm.Config{
			APIKey:      cfg.Generate.APIKey,
			BaseURL:     cfg.Generate.BaseURL,
			Model:       cfg.Generate.Model,
			Temperature: cfg.Generate.Temperature,
			MaxTokens:   cfg.Generate.MaxTokens,
		}, logger))
	}

	var attempts *telemetry.AttemptRecorder
	if cfg.Telemetry.ParquetPath != "" {
		attempts, err = telemetry.NewAttemptRecorder(cfg.Telemetry.ParquetPath)
		if err != nil {
			return nil, fmt.Errorf("building attempt recorder: %w", err)
		}
	}

	chain := make([]types.RetrievalMode, 0, len(cfg.Retrieval.Chain))
	for _, raw := range cfg.Retrieval.Chain {
		mode, err := types.ParseMode(raw)
		if err != nil {
			return nil, fmt.Errorf("configured chain: %w", err)
		}
		chain = append(chain, mode)
	}

	client, err := talentsift.New(talentsift.Options{
		Embedder:  embed,
		Index:     index,
		Chunks:    chunks,
		Graph:     store,
		Resolver:  res,
		Lexical:   lexical.NewBM25Index(),
		Reranker:  reranker,
		Generator: generator,
		Attempts:  attempts,
		Weights: scoring.Weights{
			Lexical: cfg.Scoring.LexicalWeight,
			Vector:  cfg.Scoring.VectorWeight,
			Graph:   cfg.Scoring.GraphWeight,
		},
		Chain:          chain,
		AttemptTimeout: time.Duration(cfg.Retrieval.AttemptTimeoutMs) * time.Millisecond,
		CharBudget:     cfg.Composer.CharBudget,
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("assembling pipeline: %w", err)
	}
	return client, nil
}
