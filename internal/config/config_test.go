package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConf(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bot.conf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "does-not-exist.conf"))

	assert.Equal(t, "http://localhost:11434", cfg.OllamaURL)
	assert.Equal(t, "qwen2.5-coder:7b", cfg.Model)
	assert.Equal(t, "ollama", cfg.Backend)
	assert.Equal(t, "./config/state.json", cfg.StatePath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.TelegramToken)
	assert.Empty(t, cfg.MatrixPassword)
}

func TestLoadPartialJSONOverridesOnlyGivenKeys(t *testing.T) {
	path := writeConf(t, `{
		"model": "llama3.1:8b",
		"telegram_api": "123:abc",
		"unknown_key": "ignored"
	}`)

	cfg := Load(path)

	assert.Equal(t, "llama3.1:8b", cfg.Model)
	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaURL)
	assert.Equal(t, "ollama", cfg.Backend)
}

func TestLoadLegacyINISection(t *testing.T) {
	path := writeConf(t, `[bot]
telegram_api = 456:def
ollama_url = http://llm.internal:11434
model = mistral:7b
`)

	cfg := Load(path)

	assert.Equal(t, "456:def", cfg.TelegramToken)
	assert.Equal(t, "http://llm.internal:11434", cfg.OllamaURL)
	assert.Equal(t, "mistral:7b", cfg.Model)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMalformedFileKeepsDefaults(t *testing.T) {
	path := writeConf(t, "{not json, not ini ][")

	cfg := Load(path)

	assert.Equal(t, "qwen2.5-coder:7b", cfg.Model)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaURL)
}

func TestEnvironmentFallbackForSecrets(t *testing.T) {
	t.Setenv("TELEGRAM_API", "env-token")
	t.Setenv("MATRIX_PASSWORD", "env-password")

	cfg := Load(filepath.Join(t.TempDir(), "does-not-exist.conf"))

	assert.Equal(t, "env-token", cfg.TelegramToken)
	assert.Equal(t, "env-password", cfg.MatrixPassword)
}

func TestFileOverridesEnvironment(t *testing.T) {
	t.Setenv("TELEGRAM_API", "env-token")
	path := writeConf(t, `{"telegram_api": "file-token"}`)

	cfg := Load(path)

	assert.Equal(t, "file-token", cfg.TelegramToken)
}

func TestMatrixFieldsFromJSON(t *testing.T) {
	path := writeConf(t, `{
		"matrix_homeserver": "https://matrix.example.org",
		"matrix_user_id": "@mcbot:example.org",
		"matrix_password": "hunter2",
		"target_user": "@admin:example.org",
		"state_path": "/var/lib/mcbot/state.json"
	}`)

	cfg := Load(path)

	assert.Equal(t, "https://matrix.example.org", cfg.MatrixHomeserver)
	assert.Equal(t, "@mcbot:example.org", cfg.MatrixUserID)
	assert.Equal(t, "hunter2", cfg.MatrixPassword)
	assert.Equal(t, "@admin:example.org", cfg.TargetUser)
	assert.Equal(t, "/var/lib/mcbot/state.json", cfg.StatePath)
}
