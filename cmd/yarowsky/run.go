package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kittclouds/yarowsky/internal/config"
	"github.com/kittclouds/yarowsky/internal/logger"
	"github.com/kittclouds/yarowsky/internal/metrics"
	"github.com/kittclouds/yarowsky/internal/report"
	"github.com/kittclouds/yarowsky/internal/store"
	"github.com/kittclouds/yarowsky/pkg/corpus"
	"github.com/kittclouds/yarowsky/pkg/preprocess"
	"github.com/kittclouds/yarowsky/pkg/wsd/bootstrap"
)

type runOptions struct {
	configPath    string
	dataDir       string
	dbPath        string
	halfWindow    int
	threshold     float64
	maxIterations int
	workers       int
	logFile       string
	metricsFile   string
	skipStopwords bool
	logLevel      string
	logFormat     string
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run PATTERN SEED1 SEED2 [SEED...]",
		Short: "Disambiguate PATTERN starting from one seed word per sense",
		Long: `Disambiguate PATTERN starting from one seed word per sense.
The output will be saved to the log file ("log" unless configured).`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd, args)
			if err != nil {
				return err
			}
			return runBootstrap(cmd, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "YAML config file")
	f.StringVar(&opts.dataDir, "data", "", "folder of raw corpus files")
	f.StringVar(&opts.dbPath, "db", "", "SQLite article store filled by ingest (overrides --data)")
	f.IntVarP(&opts.halfWindow, "window", "k", 0, "words kept on each side of the pattern")
	f.Float64Var(&opts.threshold, "threshold", 0, "minimum log-likelihood for a rule to label a context")
	f.IntVar(&opts.maxIterations, "max-iterations", 0, "iteration cap")
	f.IntVar(&opts.workers, "workers", 0, "classification goroutines")
	f.StringVar(&opts.logFile, "log", "", "run log path")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	f.BoolVar(&opts.skipStopwords, "skip-stopwords", false, "ignore English stopwords in wide collocations")
	f.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	f.StringVar(&opts.logFormat, "log-format", "", "text or json")
	return cmd
}

// resolve layers defaults, the config file, YAROWSKY_* variables and the
// flags that were set explicitly.
func (o *runOptions) resolve(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	pattern, seeds, err := normalizeTerms(args[0], args[1:])
	if err != nil {
		return nil, err
	}
	cfg.Pattern = pattern
	cfg.Seeds = seeds

	f := cmd.Flags()
	if f.Changed("data") {
		cfg.Corpus.Driver = config.DriverFolder
		cfg.Corpus.Folder = o.dataDir
	}
	if f.Changed("db") {
		cfg.Corpus.Driver = config.DriverSQLite
		cfg.Corpus.DSN = o.dbPath
	}
	if f.Changed("window") {
		cfg.Training.HalfWindow = o.halfWindow
	}
	if f.Changed("threshold") {
		cfg.Training.Threshold = o.threshold
	}
	if f.Changed("max-iterations") {
		cfg.Training.MaxIterations = o.maxIterations
	}
	if f.Changed("workers") {
		cfg.Training.Workers = o.workers
	}
	if f.Changed("log") {
		cfg.Output.LogFile = o.logFile
	}
	if f.Changed("metrics-file") {
		cfg.Output.MetricsFile = o.metricsFile
	}
	if f.Changed("skip-stopwords") {
		cfg.Training.SkipStopwords = o.skipStopwords
	}
	if f.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if f.Changed("log-format") {
		cfg.Logging.Format = o.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalizeTerms folds the pattern and seeds the same way the corpus is
// folded. A term that normalizes to nothing or to several words can never
// match a corpus token and is rejected.
func normalizeTerms(pattern string, seeds []string) (string, []string, error) {
	norm := func(what, term string) (string, error) {
		n := preprocess.Normalize(term)
		if n == "" || strings.Contains(n, " ") {
			return "", fmt.Errorf("%w: %s %q is not a single word after normalization", config.ErrInvalid, what, term)
		}
		return n, nil
	}
	p, err := norm("pattern", pattern)
	if err != nil {
		return "", nil, err
	}
	out := make([]string, len(seeds))
	for i, s := range seeds {
		if out[i], err = norm("seed", s); err != nil {
			return "", nil, err
		}
	}
	return p, out, nil
}

func runBootstrap(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	log := logger.WithRun(logger.Setup(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr()), uuid.NewString())

	src, closeSrc, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	log.Info("reading data", "driver", cfg.Corpus.Driver)
	docs, err := corpus.Load(ctx, src)
	if err != nil {
		return err
	}

	rec := metrics.NewRecorder(cfg.Seeds)
	engine, err := bootstrap.New(docs, bootstrap.Config{
		Pattern:       cfg.Pattern,
		Seeds:         cfg.Seeds,
		HalfWindow:    cfg.Training.HalfWindow,
		Threshold:     cfg.Training.Threshold,
		MaxIterations: cfg.Training.MaxIterations,
		Smoothing:     cfg.Training.Smoothing,
		Workers:       cfg.Training.Workers,
		SkipStopwords: cfg.Training.SkipStopwords,
	}, bootstrap.WithLogger(log.With("component", "bootstrap")), bootstrap.WithObserver(rec))
	if err != nil {
		return err
	}

	res, runErr := engine.Run(ctx)
	if res == nil {
		return runErr
	}
	if runErr != nil && !errors.Is(runErr, bootstrap.ErrNotConverged) {
		return runErr
	}

	if err := report.WriteFile(cfg.Output.LogFile, res, report.Options{
		ContextSample: cfg.Output.ContextSample,
		RuleSample:    cfg.Output.RuleSample,
	}); err != nil {
		return err
	}
	if cfg.Output.MetricsFile != "" {
		if err := rec.WriteTextfile(cfg.Output.MetricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	log.Info("run finished",
		slog.Int("iterations", res.Iterations),
		slog.Bool("converged", res.Converged),
		slog.Any("senses", res.SenseCounts),
		slog.Int("unlabeled", res.Unlabeled),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "The output was saved to the file %q.\n", cfg.Output.LogFile)
	return runErr
}

func openSource(cfg *config.Config) (corpus.Source, func(), error) {
	switch cfg.Corpus.Driver {
	case config.DriverSQLite:
		s, err := store.NewSQLiteStoreWithDSN(cfg.Corpus.DSN)
		if err != nil {
			return nil, nil, err
		}
		return corpus.SQLiteSource{Store: s}, func() { s.Close() }, nil
	default:
		return corpus.FolderSource{Root: cfg.Corpus.Folder}, func() {}, nil
	}
}
