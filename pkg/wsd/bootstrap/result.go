package bootstrap

import (
	"github.com/kittclouds/yarowsky/pkg/wsd/collocation"
	"github.com/kittclouds/yarowsky/pkg/wsd/window"
)

// Result is the outcome of a run.
type Result struct {
	Pattern    string
	Seeds      []string
	Contexts   []*window.Context
	Rules      collocation.List
	Iterations int
	Converged  bool

	SenseCounts []int // contexts per sense
	Unlabeled   int
}

// Entries returns the ranked rules as read-only views.
func (r *Result) Entries() []collocation.Entry {
	return r.Rules.Entries()
}

// Labeled returns the labeled contexts in corpus order.
func (r *Result) Labeled() []*window.Context {
	var out []*window.Context
	for _, c := range r.Contexts {
		if c.Labeled() {
			out = append(out, c)
		}
	}
	return out
}

func (e *Engine) result(list collocation.List, iterations int, converged bool) *Result {
	counts, unlabeled := e.senseCounts()
	return &Result{
		Pattern:     e.cfg.Pattern,
		Seeds:       e.seeds.Seeds(),
		Contexts:    e.contexts,
		Rules:       list,
		Iterations:  iterations,
		Converged:   converged,
		SenseCounts: counts,
		Unlabeled:   unlabeled,
	}
}
