package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.3, cfg.Scoring.LexicalWeight)
	assert.Equal(t, 0.5, cfg.Scoring.VectorWeight)
	assert.Equal(t, 0.2, cfg.Scoring.GraphWeight)
	assert.Equal(t, 50, cfg.Rerank.Cap)
	assert.Equal(t, []string{"mix", "hybrid", "local", "naive"}, cfg.Retrieval.Chain)
	assert.Equal(t, 0.85, cfg.Resolver.Threshold)
	assert.Equal(t, 0.10, cfg.Resolver.AmbiguityBand)
	assert.Equal(t, 500, cfg.Composer.CharBudget)
}

func TestLoadEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TALENTSIFT_VECTOR_DSN", "postgres://db:5432/ats")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.Embedding.APIKey)
	assert.Equal(t, "sk-test", cfg.Generate.APIKey)
	assert.Equal(t, "postgres://db:5432/ats", cfg.Vector.DSN)
}

func TestLoadExplicitValuesWinOverDefaults(t *testing.T) {
	viper.Reset()
	viper.Set("rerank.cap", 10)
	viper.Set("scoring.vector_weight", 0.6)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Rerank.Cap)
	assert.Equal(t, 0.6, cfg.Scoring.VectorWeight)
}
