// Package bootstrap runs Yarowsky's bootstrapping loop: label contexts from
// seed words, learn a decision list from the labeled contexts, relabel every
// context with it and repeat until the decision list stops changing.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/orsinium-labs/stopwords"
	"golang.org/x/sync/errgroup"

	"github.com/kittclouds/yarowsky/pkg/docstore"
	"github.com/kittclouds/yarowsky/pkg/wsd/collocation"
	"github.com/kittclouds/yarowsky/pkg/wsd/seed"
	"github.com/kittclouds/yarowsky/pkg/wsd/window"
)

// DefaultMaxIterations caps the train/classify loop.
const DefaultMaxIterations = 1000

var (
	// ErrInvalidConfig is returned by New for unusable settings.
	ErrInvalidConfig = errors.New("invalid bootstrap config")
	// ErrNotConverged is returned by Run, together with the last
	// iteration's result, when the iteration cap is reached.
	ErrNotConverged = errors.New("decision list did not converge")
)

// Config holds the inputs of one run.
type Config struct {
	Pattern       string
	Seeds         []string // Seeds[i] marks sense i
	HalfWindow    int      // k: words kept on each side of the pattern
	Threshold     float64  // minimum log-likelihood to assign a sense
	MaxIterations int      // 0 means DefaultMaxIterations
	Smoothing     float64  // 0 means collocation.DefaultSmoothing
	Workers       int      // classification goroutines; <= 1 runs inline
	SkipStopwords bool     // drop English stopwords from wide-rule counts
}

func (c *Config) validate() error {
	switch {
	case c.Pattern == "":
		return fmt.Errorf("%w: empty pattern", ErrInvalidConfig)
	case len(c.Seeds) < 2:
		return fmt.Errorf("%w: need at least two seeds, got %d", ErrInvalidConfig, len(c.Seeds))
	case c.HalfWindow < 0:
		return fmt.Errorf("%w: negative window size %d", ErrInvalidConfig, c.HalfWindow)
	case c.MaxIterations < 0:
		return fmt.Errorf("%w: negative iteration cap %d", ErrInvalidConfig, c.MaxIterations)
	case c.Smoothing < 0:
		return fmt.Errorf("%w: negative smoothing %v", ErrInvalidConfig, c.Smoothing)
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.Smoothing == 0 {
		c.Smoothing = collocation.DefaultSmoothing
	}
	return nil
}

// State is the position of the engine in the bootstrapping cycle.
type State int

const (
	StateNew State = iota
	StateSeeded
	StateTraining
	StateClassifying
	StateConverged
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateSeeded:
		return "seeded"
	case StateTraining:
		return "training"
	case StateClassifying:
		return "classifying"
	case StateConverged:
		return "converged"
	case StateExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// IterationStats summarizes one classify/retrain cycle.
type IterationStats struct {
	Iteration   int
	SenseCounts []int
	Unlabeled   int
	Rules       int
	Duration    time.Duration
	Converged   bool
}

// Observer receives progress after every iteration.
type Observer interface {
	ObserveIteration(IterationStats)
}

type nopObserver struct{}

func (nopObserver) ObserveIteration(IterationStats) {}

// Engine owns the contexts of one run.
type Engine struct {
	cfg      Config
	docs     *docstore.Store
	seeds    *seed.Matcher
	contexts []*window.Context
	tableOps []collocation.TableOption
	state    State

	logger   *slog.Logger
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for progress messages.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithObserver registers an observer for per-iteration statistics.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// New validates cfg and extracts every context of the pattern from docs, in
// document order.
func New(docs *docstore.Store, cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	matcher, err := seed.Compile(cfg.Seeds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	e := &Engine{
		cfg:      cfg,
		docs:     docs,
		seeds:    matcher,
		logger:   slog.Default(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}

	if cfg.SkipStopwords {
		checker := stopwords.MustGet("en")
		e.tableOps = append(e.tableOps, collocation.WithWideFilter(checker.Contains))
	}

	for _, doc := range docs.All() {
		e.contexts = append(e.contexts, window.Extract(doc.Words, cfg.Pattern, cfg.HalfWindow, doc.ID)...)
	}
	e.logger.Info("contexts extracted",
		"pattern", cfg.Pattern,
		"documents", docs.Count(),
		"contexts", len(e.contexts),
		"k", cfg.HalfWindow,
	)
	return e, nil
}

// Contexts returns the engine's contexts. Their labels reflect the latest
// seeding or classification.
func (e *Engine) Contexts() []*window.Context { return e.contexts }

// State returns the current phase.
func (e *Engine) State() State { return e.state }

// Document resolves a context's source article.
func (e *Engine) Document(c *window.Context) *docstore.Document {
	return e.docs.Get(c.DocID)
}

// Seed labels every context with the first seed word, in seed order, that
// it contains; the rest are unlabeled. It returns the number labeled.
func (e *Engine) Seed() int {
	labeled := 0
	for _, c := range e.contexts {
		c.Sense = e.seeds.Sense(c.Words)
		if c.Labeled() {
			labeled++
		}
	}
	e.state = StateSeeded
	return labeled
}

// Train builds a fresh collocation table from the labeled contexts and
// returns it ranked as a decision list.
func (e *Engine) Train() (collocation.List, error) {
	e.state = StateTraining
	tbl := collocation.NewTable(len(e.cfg.Seeds), e.cfg.Smoothing, e.tableOps...)
	for _, c := range e.contexts {
		if err := c.Contribute(tbl, e.cfg.Pattern, e.cfg.HalfWindow); err != nil {
			return nil, fmt.Errorf("train: %w", err)
		}
	}
	return tbl.Rank(), nil
}

// Classify relabels every context against list. Contexts are independent,
// so with Workers > 1 they are split across goroutines; Classify returns
// only after all of them are done.
func (e *Engine) Classify(ctx context.Context, list collocation.List) error {
	e.state = StateClassifying
	classify := func(cs []*window.Context) {
		for _, c := range cs {
			c.Classify(list, e.cfg.Pattern, e.cfg.HalfWindow, e.cfg.Threshold)
		}
	}

	workers := e.cfg.Workers
	if workers <= 1 || len(e.contexts) < workers {
		classify(e.contexts)
		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	chunk := (len(e.contexts) + workers - 1) / workers
	for start := 0; start < len(e.contexts); start += chunk {
		part := e.contexts[start:min(start+chunk, len(e.contexts))]
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			classify(part)
			return nil
		})
	}
	return g.Wait()
}

// Run seeds, then alternates classification and retraining until the
// rebuilt decision list equals the previous one. If the iteration cap is
// hit first, the last iteration's result is returned with ErrNotConverged.
// Cancellation is only honoured between iterations.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	labeled := e.Seed()
	e.logger.Info("seeded", "labeled", labeled, "contexts", len(e.contexts))

	list, err := e.Train()
	if err != nil {
		return nil, err
	}

	for i := 1; i <= e.cfg.MaxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		started := time.Now()

		if err := e.Classify(ctx, list); err != nil {
			return nil, err
		}
		next, err := e.Train()
		if err != nil {
			return nil, err
		}
		converged := next.Equal(list)
		list = next

		stats := e.stats(i, len(list), time.Since(started), converged)
		e.observer.ObserveIteration(stats)
		e.logger.Info("iteration",
			"iteration", i,
			"senses", stats.SenseCounts,
			"unlabeled", stats.Unlabeled,
			"rules", stats.Rules,
		)

		if converged {
			e.state = StateConverged
			return e.result(list, i, true), nil
		}
	}

	e.state = StateExhausted
	e.logger.Warn("iteration cap reached", "iterations", e.cfg.MaxIterations)
	return e.result(list, e.cfg.MaxIterations, false), ErrNotConverged
}

func (e *Engine) stats(iteration, rules int, d time.Duration, converged bool) IterationStats {
	counts, unlabeled := e.senseCounts()
	return IterationStats{
		Iteration:   iteration,
		SenseCounts: counts,
		Unlabeled:   unlabeled,
		Rules:       rules,
		Duration:    d,
		Converged:   converged,
	}
}

func (e *Engine) senseCounts() ([]int, int) {
	counts := make([]int, len(e.cfg.Seeds))
	unlabeled := 0
	for _, c := range e.contexts {
		if c.Labeled() {
			counts[c.Sense]++
		} else {
			unlabeled++
		}
	}
	return counts, unlabeled
}
