package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
postgres:
  dsn: postgres://file
http:
  address: ":9000"
  allowed_origins: ["https://a.example"]
scoring:
  level_weights:
    major: 1.5
  default_weight: 0.5
exchange:
  timezone: America/Chicago
queue:
  snooze_for: 2m
`)
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://b.example,https://c.example")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env", cfg.Postgres.DSN)
	assert.Equal(t, ":9000", cfg.HTTP.Address)
	assert.Equal(t, []string{"https://b.example", "https://c.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, map[string]float64{"major": 1.5}, cfg.Scoring.LevelWeights)
	assert.Equal(t, 0.5, cfg.Scoring.DefaultWeight)
	assert.Equal(t, 2*time.Minute, cfg.Queue.SnoozeFor)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Chicago", loc.String())
}

func TestLoadConfig_MissingFileUsesEnvAndDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("SCORING_LEVEL_WEIGHTS", "major:2,elite:1.25")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, 1.0, cfg.Scoring.DefaultWeight)
	assert.Equal(t, map[string]float64{"major": 2, "elite": 1.25}, cfg.Scoring.LevelWeights)
	assert.Equal(t, "UTC", cfg.Exchange.Timezone)
}

func TestLoadConfig_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "missing dsn", body: "http:\n  address: \":1\"\n", want: "postgres dsn is required"},
		{name: "negative default weight", body: "postgres:\n  dsn: x\nscoring:\n  default_weight: -1\n", want: "default_weight"},
		{name: "negative level weight", body: "postgres:\n  dsn: x\nscoring:\n  level_weights:\n    major: -0.5\n", want: `"major"`},
		{name: "bad timezone", body: "postgres:\n  dsn: x\nexchange:\n  timezone: Mars/Olympus\n", want: "exchange timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_URL=postgres://dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("DATABASE_URL") })

	cfg, err := LoadConfig(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "postgres://dotenv", cfg.Postgres.DSN)
}
