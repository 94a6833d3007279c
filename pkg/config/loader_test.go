package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "driveline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalYAML = `
llm:
  api_key: sk-test
embedding:
  api_key: sk-test
`

func TestInitialize_DefaultsApplied(t *testing.T) {
	cfg, err := Initialize(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 120*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 10, cfg.Agent.MaxIterations)
	assert.Equal(t, "data/cars", cfg.Data.CarsDir)
}

func TestInitialize_OverridesWin(t *testing.T) {
	cfg, err := Initialize(writeConfig(t, `
server:
  addr: ":9090"
llm:
  base_url: http://localhost:11434/v1
  api_key: sk-local
  model: llama3
  temperature: 0.2
  timeout: 30s
embedding:
  api_key: sk-local
agent:
  max_iterations: 4
data:
  cars_dir: /srv/cars
`))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "http://localhost:11434/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "llama3", cfg.LLM.Model)
	require.NotNil(t, cfg.LLM.Temperature)
	assert.Equal(t, 0.2, *cfg.LLM.Temperature)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 4, cfg.Agent.MaxIterations)
	assert.Equal(t, "/srv/cars", cfg.Data.CarsDir)
	assert.Equal(t, "data/bikes", cfg.Data.BikesDir, "unset fields keep defaults")
}

func TestInitialize_EnvExpansion(t *testing.T) {
	t.Setenv("DRIVELINE_TEST_KEY", "sk-from-env")

	cfg, err := Initialize(writeConfig(t, `
llm:
  api_key: "{{.DRIVELINE_TEST_KEY}}"
embedding:
  api_key: sk-test
`))
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.LLM.APIKey)
}

func TestInitialize_MissingFile(t *testing.T) {
	_, err := Initialize(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigNotFound)

	var loadErr *LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestInitialize_MissingAPIKey(t *testing.T) {
	_, err := Initialize(writeConfig(t, "llm:\n  model: gpt-4o\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingRequiredField)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "llm.api_key", vErr.Field)
}

func TestInitialize_BadDuration(t *testing.T) {
	_, err := Initialize(writeConfig(t, `
llm:
  api_key: sk-test
  timeout: not-a-duration
embedding:
  api_key: sk-test
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestInitialize_BadYAML(t *testing.T) {
	_, err := Initialize(writeConfig(t, "llm: [unclosed"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidYAML)
}

func TestInitialize_TemperatureRange(t *testing.T) {
	_, err := Initialize(writeConfig(t, `
llm:
  api_key: sk-test
  temperature: 3.5
embedding:
  api_key: sk-test
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidValue)
}
