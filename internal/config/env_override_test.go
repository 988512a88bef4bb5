package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides_APIKey(t *testing.T) {
	t.Run("GEMINI_API_KEY wins over file value", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "env-key")
		t.Setenv("GOOGLE_API_KEY", "")

		cfg := DefaultConfig()
		cfg.LLM.APIKey = "file-key"
		cfg.applyEnvOverrides()

		assert.Equal(t, "env-key", cfg.LLM.APIKey)
	})

	t.Run("GOOGLE_API_KEY only fills an empty key", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("GOOGLE_API_KEY", "google-key")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "google-key", cfg.LLM.APIKey)

		cfg = DefaultConfig()
		cfg.LLM.APIKey = "file-key"
		cfg.applyEnvOverrides()
		assert.Equal(t, "file-key", cfg.LLM.APIKey)
	})

	t.Run("Precedence: GEMINI over GOOGLE", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini-key")
		t.Setenv("GOOGLE_API_KEY", "google-key")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "gemini-key", cfg.LLM.APIKey)
	})
}

func TestEnvOverrides_DatabasePath(t *testing.T) {
	t.Setenv("EDUVANE_DB_PATH", "/tmp/alt.db")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "/tmp/alt.db", cfg.Storage.DatabasePath)
}
