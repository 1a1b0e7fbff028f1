package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup at an empty temp dir.
func isolate(t *testing.T) (dir string, opts Options) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir, Options{DotEnv: filepath.Join(dir, ".env")}
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("db", "", "")
	fs.String("log-level", "info", "")
	fs.String("model", "", "")
	fs.Int("limit", 0, "")
	fs.Bool("plain", false, "")
	return fs
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	_, opts := isolate(t)

	cfg, err := Load(nil, opts)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "127.0.0.1:8787", cfg.Server.Addr)
	assert.Equal(t, "09:00", cfg.Reminder.At)
	assert.Equal(t, 3, cfg.LLM.MaxRetries)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Source.Timeout)
	assert.Zero(t, cfg.Study.Limit)
}

func TestLoad_Layers(t *testing.T) {
	dir, opts := isolate(t)
	writeFile(t, filepath.Join(dir, "flashdeck", "config.yaml"), `
db: /data/from-file.db
log:
  level: debug
  format: json
llm:
  provider: mock
  model: from-file
  timeout: 5s
study:
  limit: 15
`)
	t.Setenv("FLASHDECK_LOG__FORMAT", "text")
	t.Setenv("FLASHDECK_LLM__MODEL", "from-env")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--model", "from-flag", "--plain"}))

	cfg, err := Load(fs, opts)
	require.NoError(t, err)

	assert.Equal(t, "/data/from-file.db", cfg.DB, "file value survives unchanged flag")
	assert.Equal(t, "debug", cfg.Log.Level, "unchanged flag default must not win")
	assert.Equal(t, "text", cfg.Log.Format, "env overrides file")
	assert.Equal(t, "from-flag", cfg.LLM.Model, "flag overrides env")
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 15, cfg.Study.Limit)
}

func TestLoad_DotEnv(t *testing.T) {
	_, opts := isolate(t)
	writeFile(t, opts.DotEnv, "FLASHDECK_SERVER__ADDR=localhost:9000\nFLASHDECK_SERVER__SESSION_TTL=30m\n")
	t.Cleanup(func() {
		os.Unsetenv("FLASHDECK_SERVER__ADDR")
		os.Unsetenv("FLASHDECK_SERVER__SESSION_TTL")
	})

	cfg, err := Load(nil, opts)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", cfg.Server.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionTTL)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	dir, opts := isolate(t)
	opts.File = filepath.Join(dir, "nope.yaml")

	_, err := Load(nil, opts)
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	dir, opts := isolate(t)
	opts.File = filepath.Join(dir, "bad.yaml")
	writeFile(t, opts.File, "log:\n  level: loud\nreminder:\n  at: \"25:99\"\n")

	_, err := Load(nil, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "reminder.at")
}

func TestLoad_ResolvesProviderKey(t *testing.T) {
	_, opts := isolate(t)
	t.Setenv("FLASHDECK_LLM__PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(nil, opts)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.NoError(t, cfg.LLM.Validate())
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"FLASHDECK_DB":              "db",
		"FLASHDECK_LLM__API_KEY":    "llm.api_key",
		"FLASHDECK_SOURCE__TIMEOUT": "source.timeout",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}
