package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(``)
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.DefaultLanguage)
	assert.Nil(t, cfg.RoundingStep)
}

func TestParseRoundingStep(t *testing.T) {
	cfg, err := Parse(`
default_language = "de"
rounding_step = "0.05"

[tables]
articles = "artikel_v2"
`)
	require.NoError(t, err)
	assert.Equal(t, "de", cfg.DefaultLanguage)
	require.NotNil(t, cfg.RoundingStep)
	assert.Equal(t, "0.05", cfg.RoundingStep.String())
	assert.Equal(t, "artikel_v2", cfg.Tables.Articles)
}

func TestParseInvalidRoundingStep(t *testing.T) {
	_, err := Parse(`rounding_step = "not-a-number"`)
	assert.Error(t, err)
}
