package collocation

import (
	"cmp"
	"slices"

	"github.com/kittclouds/yarowsky/pkg/wsd/rules"
)

// List is a decision list: collocations in descending score order.
type List []*Collocation

// Rank sorts collocations by descending Score. The sort is stable, so
// equal scores keep their input order.
func Rank(cs []*Collocation) List {
	type scored struct {
		c     *Collocation
		score float64
	}
	tmp := make([]scored, len(cs))
	for i, c := range cs {
		tmp[i] = scored{c: c, score: c.Score()}
	}
	slices.SortStableFunc(tmp, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	out := make(List, len(tmp))
	for i, s := range tmp {
		out[i] = s.c
	}
	return out
}

// Equal compares two lists element for element (key, rule and counts).
func (l List) Equal(o List) bool {
	return slices.EqualFunc(l, o, (*Collocation).Equal)
}

// First returns the first collocation whose rule matches the context, or
// nil when none does.
func (l List) First(words []string, pos int) *Collocation {
	for _, c := range l {
		if c.Matches(words, pos) {
			return c
		}
	}
	return nil
}

// Entry is a read-only view of a ranked collocation.
type Entry struct {
	Rank      int
	Key       rules.Key
	Rule      rules.Rule
	Counts    []int
	Score     float64
	BestSense int
}

// Entries returns the list as ranked views, 1-based rank.
func (l List) Entries() []Entry {
	out := make([]Entry, len(l))
	for i, c := range l {
		best := c.BestSense()
		out[i] = Entry{
			Rank:      i + 1,
			Key:       c.Key,
			Rule:      c.Rule,
			Counts:    c.Counts(),
			Score:     c.LogLikelihood(best),
			BestSense: best,
		}
	}
	return out
}
