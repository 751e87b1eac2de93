package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/yarowsky/internal/config"
	"github.com/kittclouds/yarowsky/internal/store"
	"github.com/kittclouds/yarowsky/pkg/wsd/bootstrap"
)

const bankArticles = `<TEXT>River bank was steep.</TEXT>
<TEXT>Muddy river bank was wet.</TEXT>
<TEXT>Money bank account opened.</TEXT>
<TEXT>Cash, money; bank account fees!</TEXT>
<TEXT>Old bank was closed.</TEXT>
<TEXT>New bank account today.</TEXT>
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ap880212"), []byte(bankArticles), 0o644))
	return dir
}

func TestRun_WritesLogAndMetrics(t *testing.T) {
	data := writeCorpus(t)
	out := t.TempDir()
	logPath := filepath.Join(out, "log")
	promPath := filepath.Join(out, "yarowsky.prom")

	stdout, err := execute(t, "run", "bank", "river", "money",
		"--data", data, "-k", "2", "--threshold", "0",
		"--log", logPath, "--metrics-file", promPath, "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, logPath)

	log, err := os.ReadFile(logPath)
	require.NoError(t, err)
	text := string(log)
	assert.True(t, strings.HasPrefix(text, "Pattern: bank\nSeeds: river\tmoney\nSense 0: 3\nSense 1: 3\nNot classified: 0\n"))
	assert.Contains(t, text, "0 river bank was steep\n")
	assert.Contains(t, text, "1 new bank account today\n")
	assert.Contains(t, text, "Iterations: 2 (converged)\n")

	prom, err := os.ReadFile(promPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "yarowsky_converged 1")
	assert.Contains(t, string(prom), "yarowsky_iterations_total 2")
}

func TestRun_NotConvergedStillWritesLog(t *testing.T) {
	data := writeCorpus(t)
	logPath := filepath.Join(t.TempDir(), "log")

	_, err := execute(t, "run", "bank", "river", "money",
		"--data", data, "-k", "2", "--threshold", "100", "--max-iterations", "1", "--log", logPath)
	assert.ErrorIs(t, err, bootstrap.ErrNotConverged)

	log, readErr := os.ReadFile(logPath)
	require.NoError(t, readErr)
	assert.Contains(t, string(log), "Not classified: 6\n")
	assert.Contains(t, string(log), "Iterations: 1 (not converged)\n")
}

func TestRun_ConfigFileAndValidation(t *testing.T) {
	data := writeCorpus(t)
	dir := t.TempDir()
	logPath := filepath.Join(dir, "from-config.log")
	cfgPath := filepath.Join(dir, "yarowsky.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
corpus:
  folder: `+data+`
training:
  halfWindow: 2
  threshold: 0
output:
  logFile: `+logPath+`
  contextSample: 1
`), 0o644))

	_, err := execute(t, "run", "bank", "river", "money", "--config", cfgPath)
	require.NoError(t, err)
	log, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(log), " bank "))

	_, err = execute(t, "run", "bank", "river", "money", "--config", cfgPath, "-k", "-1")
	assert.ErrorIs(t, err, config.ErrInvalid)

	_, err = execute(t, "run", "bank", "river")
	assert.Error(t, err)
}

func TestRun_NormalizesTerms(t *testing.T) {
	data := writeCorpus(t)
	logPath := filepath.Join(t.TempDir(), "log")

	_, err := execute(t, "run", "Bank", "River,", "MONEY",
		"--data", data, "-k", "2", "--threshold", "0", "--log", logPath)
	require.NoError(t, err)

	log, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(log), "Pattern: bank\nSeeds: river\tmoney\nSense 0: 3\nSense 1: 3\n"))

	_, err = execute(t, "run", "bank", "river bank", "money", "--data", data, "--log", logPath)
	assert.ErrorIs(t, err, config.ErrInvalid)
	_, err = execute(t, "run", "!!", "river", "money", "--data", data, "--log", logPath)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestNormalizeTerms(t *testing.T) {
	p, seeds, err := normalizeTerms("Bank", []string{"River", "mon-ey"})
	require.NoError(t, err)
	assert.Equal(t, "bank", p)
	assert.Equal(t, []string{"river", "money"}, seeds)

	_, _, err = normalizeTerms("bank", []string{"river", "..."})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestRun_MissingCorpus(t *testing.T) {
	_, err := execute(t, "run", "bank", "river", "money",
		"--data", filepath.Join(t.TempDir(), "missing"), "--log", filepath.Join(t.TempDir(), "log"))
	assert.Error(t, err)
}

func TestIngestThenRunFromDB(t *testing.T) {
	data := writeCorpus(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "corpus.db")
	logPath := filepath.Join(dir, "log")

	stdout, err := execute(t, "ingest", "--db", db, data)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Ingested 6 articles from 1 files")

	// re-ingesting replaces rather than duplicates
	_, err = execute(t, "ingest", "--db", db, data)
	require.NoError(t, err)

	_, err = execute(t, "run", "bank", "river", "money",
		"--db", db, "-k", "2", "--threshold", "0", "--log", logPath)
	require.NoError(t, err)

	log, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(log), "Sense 0: 3\nSense 1: 3\nNot classified: 0\n")
}

func TestIngest_ReplacesShrunkFile(t *testing.T) {
	data := writeCorpus(t)
	db := filepath.Join(t.TempDir(), "corpus.db")

	_, err := execute(t, "ingest", "--db", db, data)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(data, "ap880212"),
		[]byte("<TEXT>river bank</TEXT><TEXT>money bank</TEXT>"), 0o644))
	stdout, err := execute(t, "ingest", "--db", db, data)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Ingested 2 articles from 1 files")

	s, err := store.NewSQLiteStoreWithDSN(db)
	require.NoError(t, err)
	defer s.Close()
	n, err := s.CountArticles()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPreprocess(t *testing.T) {
	data := writeCorpus(t)
	out := filepath.Join(t.TempDir(), "ap-singles")

	stdout, err := execute(t, "preprocess", "--out", out,
		filepath.Join(data, "ap880212"), filepath.Join(data, "missing"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Total: 6 articles")

	got, err := os.ReadFile(filepath.Join(out, "ap880212-3"))
	require.NoError(t, err)
	assert.Equal(t, "cash money bank account fees", string(got))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 6)
}
