package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
	Graph     GraphConfig     `mapstructure:"graph"`
	Vector    VectorConfig    `mapstructure:"vector"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Generate  GenerateConfig  `mapstructure:"generate"`
	Rerank    RerankConfig    `mapstructure:"rerank"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Resolver  ResolverConfig  `mapstructure:"resolver"`
	Composer  ComposerConfig  `mapstructure:"composer"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// GraphConfig holds knowledge graph backend configuration.
type GraphConfig struct {
	Driver   string `mapstructure:"driver"` // neo4j, memory
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// VectorConfig holds vector index backend configuration.
type VectorConfig struct {
	Driver string `mapstructure:"driver"` // postgres, memory
	DSN    string `mapstructure:"dsn"`
	Table  string `mapstructure:"table"`
}

// EmbeddingConfig holds embedding backend configuration.
type EmbeddingConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
}

// GenerateConfig holds the generation collaborator configuration.
type GenerateConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// RerankConfig holds cross-encoder reranking configuration. Cap bounds the
// shortlist regardless of corpus size.
type RerankConfig struct {
	Enabled   bool    `mapstructure:"enabled"`
	BaseURL   string  `mapstructure:"base_url"`
	APIKey    string  `mapstructure:"api_key"`
	Model     string  `mapstructure:"model"`
	Cap       int     `mapstructure:"cap"`
	Threshold float64 `mapstructure:"threshold"`
}

// ScoringConfig holds the hybrid score fusion weights.
type ScoringConfig struct {
	LexicalWeight float64 `mapstructure:"lexical_weight"`
	VectorWeight  float64 `mapstructure:"vector_weight"`
	GraphWeight   float64 `mapstructure:"graph_weight"`
}

// RetrievalConfig holds fallback chain configuration.
type RetrievalConfig struct {
	Chain            []string `mapstructure:"chain"`
	AttemptTimeoutMs int      `mapstructure:"attempt_timeout_ms"`
	TopK             int      `mapstructure:"top_k"`
}

// ResolverConfig holds entity resolution thresholds.
type ResolverConfig struct {
	Threshold     float64 `mapstructure:"threshold"`
	AmbiguityBand float64 `mapstructure:"ambiguity_band"`
}

// ComposerConfig holds grounded composition configuration.
type ComposerConfig struct {
	CharBudget int `mapstructure:"char_budget"`
}

// TelemetryConfig holds telemetry configuration.
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
}

// Load builds the configuration from viper state, defaults, and environment
// overrides.
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values.
func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")

	viper.SetDefault("graph.driver", "memory")
	viper.SetDefault("graph.uri", "bolt://localhost:7687")
	viper.SetDefault("graph.username", "neo4j")
	viper.SetDefault("graph.password", "")
	viper.SetDefault("graph.database", "neo4j")

	viper.SetDefault("vector.driver", "memory")
	viper.SetDefault("vector.dsn", "postgres://localhost/talentsift?sslmode=disable")
	viper.SetDefault("vector.table", "resume_chunks")

	viper.SetDefault("embedding.model", "text-embedding-3-small")
	viper.SetDefault("embedding.dimensions", 1536)

	viper.SetDefault("generate.model", "gpt-4o-mini")
	viper.SetDefault("generate.temperature", 0.1)
	viper.SetDefault("generate.max_tokens", 1024)

	viper.SetDefault("rerank.enabled", true)
	viper.SetDefault("rerank.model", "jina-reranker-v2-base-multilingual")
	viper.SetDefault("rerank.cap", 50)
	viper.SetDefault("rerank.threshold", 0.0)

	viper.SetDefault("scoring.lexical_weight", 0.3)
	viper.SetDefault("scoring.vector_weight", 0.5)
	viper.SetDefault("scoring.graph_weight", 0.2)

	viper.SetDefault("retrieval.chain", []string{"mix", "hybrid", "local", "naive"})
	viper.SetDefault("retrieval.attempt_timeout_ms", 10000)
	viper.SetDefault("retrieval.top_k", 20)

	viper.SetDefault("resolver.threshold", 0.85)
	viper.SetDefault("resolver.ambiguity_band", 0.10)

	viper.SetDefault("composer.char_budget", 500)

	home, err := os.UserHomeDir()
	if err == nil {
		viper.SetDefault("telemetry.parquet_path", fmt.Sprintf("%s/.talentsift/telemetry", home))
	}
}

// overrideWithEnv overrides secrets with environment variables.
func overrideWithEnv(config *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if config.Embedding.APIKey == "" {
			config.Embedding.APIKey = key
		}
		if config.Generate.APIKey == "" {
			config.Generate.APIKey = key
		}
	}
	if key := os.Getenv("TALENTSIFT_RERANK_API_KEY"); key != "" {
		config.Rerank.APIKey = key
	}
	if dsn := os.Getenv("TALENTSIFT_VECTOR_DSN"); dsn != "" {
		config.Vector.DSN = dsn
	}
	if password := os.Getenv("TALENTSIFT_GRAPH_PASSWORD"); password != "" {
		config.Graph.Password = password
	}
}
