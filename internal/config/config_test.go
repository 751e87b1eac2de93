package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 19, cfg.Training.HalfWindow)
	assert.Equal(t, 12.0, cfg.Training.Threshold)
	assert.Equal(t, 1000, cfg.Training.MaxIterations)
	assert.Equal(t, 0.1, cfg.Training.Smoothing)
	assert.Equal(t, "log", cfg.Output.LogFile)
	assert.Equal(t, 200, cfg.Output.ContextSample)
	assert.Equal(t, DriverFolder, cfg.Corpus.Driver)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yarowsky.yaml")
	yml := `
pattern: bank
seeds: [river, money]
corpus:
  driver: sqlite
  dsn: ap.db
training:
  halfWindow: 5
  threshold: 3.5
output:
  ruleSample: 10
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	t.Setenv("YAROWSKY_THRESHOLD", "7")
	t.Setenv("YAROWSKY_SEEDS", "shore,loan,vault")
	t.Setenv("YAROWSKY_SMOOTHING", "0.5")
	t.Setenv("YAROWSKY_SKIP_STOPWORDS", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "bank", cfg.Pattern)
	assert.Equal(t, []string{"shore", "loan", "vault"}, cfg.Seeds)
	assert.Equal(t, DriverSQLite, cfg.Corpus.Driver)
	assert.Equal(t, "ap.db", cfg.Corpus.DSN)
	assert.Equal(t, 5, cfg.Training.HalfWindow)
	assert.Equal(t, 7.0, cfg.Training.Threshold)
	assert.Equal(t, 0.5, cfg.Training.Smoothing)
	assert.True(t, cfg.Training.SkipStopwords)
	assert.Equal(t, 1, cfg.Training.Workers)
	assert.Equal(t, 10, cfg.Output.RuleSample)
	// untouched keys keep their defaults
	assert.Equal(t, 1000, cfg.Training.MaxIterations)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("training: [oops"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoad_BadEnvValues(t *testing.T) {
	t.Setenv("YAROWSKY_WORKERS", "not-a-number")
	t.Setenv("YAROWSKY_SKIP_STOPWORDS", "maybe")
	t.Setenv("YAROWSKY_THRESHOLD", "12")

	_, err := Load("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "YAROWSKY_WORKERS")
	assert.Contains(t, err.Error(), "YAROWSKY_SKIP_STOPWORDS")
	assert.NotContains(t, err.Error(), "YAROWSKY_THRESHOLD")

	t.Setenv("YAROWSKY_WORKERS", "")
	t.Setenv("YAROWSKY_SKIP_STOPWORDS", "")
	t.Setenv("YAROWSKY_SMOOTHING", "tenth")
	_, err = Load("")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.Pattern = "bank"
		c.Seeds = []string{"river", "money"}
		return c
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no pattern", func(c *Config) { c.Pattern = "" }},
		{"one seed", func(c *Config) { c.Seeds = c.Seeds[:1] }},
		{"negative window", func(c *Config) { c.Training.HalfWindow = -2 }},
		{"zero iterations", func(c *Config) { c.Training.MaxIterations = 0 }},
		{"zero smoothing", func(c *Config) { c.Training.Smoothing = 0 }},
		{"negative sample", func(c *Config) { c.Output.ContextSample = -1 }},
		{"unknown driver", func(c *Config) { c.Corpus.Driver = "s3" }},
		{"folder driver without folder", func(c *Config) { c.Corpus.Folder = "" }},
		{"sqlite driver without dsn", func(c *Config) { c.Corpus.Driver = DriverSQLite; c.Corpus.DSN = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}
