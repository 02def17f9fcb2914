package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexflow/chronicle/internal/config"
)

func TestInitPipelineOCRProvider(t *testing.T) {
	old := cfg
	defer func() { cfg = old }()

	t.Run("local fallback rejected", func(t *testing.T) {
		cfg = &config.Config{
			OCR: config.OCRConfig{Enabled: true, Provider: "local"},
		}
		_, err := initPipeline("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scanned pages")
	})

	t.Run("empty provider rejected when enabled", func(t *testing.T) {
		cfg = &config.Config{
			OCR: config.OCRConfig{Enabled: true},
		}
		_, err := initPipeline("")
		assert.Error(t, err)
	})

	t.Run("mistral fallback accepted", func(t *testing.T) {
		cfg = &config.Config{
			OCR: config.OCRConfig{Enabled: true, Provider: "mistral", MistralKey: "k"},
		}
		env, err := initPipeline("")
		require.NoError(t, err)
		assert.NotNil(t, env.Loader)
		assert.NotNil(t, env.Pipeline)
	})

	t.Run("disabled ocr needs no provider", func(t *testing.T) {
		cfg = &config.Config{}
		env, err := initPipeline("")
		require.NoError(t, err)
		assert.NotNil(t, env.Loader)
	})
}
