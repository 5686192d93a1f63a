package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TZ", "Europe/Dublin")
	t.Setenv("MONGO_URI", "mongodb://db:27017/practice?retryWrites=true")
	t.Setenv("MONGO_DB", "")
	t.Setenv("ASSISTANT_ENABLED", "")
	t.Setenv("LLM_BASE_URL", "https://llm.example.com/v1/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "practice", cfg.MongoDB)
	assert.Equal(t, "Europe/Dublin", cfg.Timezone.String())
	assert.False(t, cfg.AssistantEnabled)
	assert.Equal(t, "https://llm.example.com/v1", cfg.LLMBaseURL)
	assert.Equal(t, 60, cfg.RateLimitWindowSec)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	env := "LLM_MODEL=from-dotenv\nSERVER_ADDR=:9999\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("TZ", "Europe/Dublin")
	t.Setenv("SERVER_ADDR", ":7000")
	t.Setenv("LLM_MODEL", "")
	require.NoError(t, os.Unsetenv("LLM_MODEL"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.LLMModel)
	assert.Equal(t, ":7000", cfg.ServerAddr)
}

func TestLoadInvalidTimezone(t *testing.T) {
	t.Setenv("TZ", "Nowhere/Atlantis")
	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("FLAG_ON", "true")
	t.Setenv("FLAG_GARBAGE", "maybe")

	assert.True(t, getEnvBool("FLAG_ON", false))
	assert.True(t, getEnvBool("FLAG_GARBAGE", true))
	assert.False(t, getEnvBool("FLAG_MISSING", false))
}

func TestMongoDBFromURI(t *testing.T) {
	assert.Equal(t, "site", mongoDBFromURI("mongodb://localhost:27017/site"))
	assert.Equal(t, "", mongoDBFromURI("mongodb://localhost:27017"))
	assert.Equal(t, "a", mongoDBFromURI("mongodb://localhost:27017/a/b"))
}
