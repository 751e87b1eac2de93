package collocation

import (
	"fmt"
	"slices"

	"github.com/kittclouds/yarowsky/pkg/wsd/rules"
)

type tableKey struct {
	key  rules.Key
	rule rules.Rule
}

// Table maps (key, rule) pairs to collocations, remembering the order in
// which pairs were first observed. A table is built from scratch on every
// training pass.
type Table struct {
	senseCount int
	smoothing  float64
	wideFilter func(word string) bool

	index   map[tableKey]int
	entries []*Collocation
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithWideFilter drops Wide-rule observations of words for which skip
// returns true.
func WithWideFilter(skip func(word string) bool) TableOption {
	return func(t *Table) { t.wideFilter = skip }
}

// NewTable creates an empty table for senseCount senses.
func NewTable(senseCount int, smoothing float64, opts ...TableOption) *Table {
	t := &Table{
		senseCount: senseCount,
		smoothing:  smoothing,
		index:      make(map[tableKey]int),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Observe credits one observation of key under rule to sense, creating the
// collocation on first sight.
func (t *Table) Observe(key rules.Key, rule rules.Rule, sense int) error {
	if rule == rules.Wide && t.wideFilter != nil && t.wideFilter(key.String()) {
		return nil
	}

	if sense < 0 || sense >= t.senseCount {
		return fmt.Errorf("%w: %d (senses: %d)", ErrInvalidSense, sense, t.senseCount)
	}

	tk := tableKey{key: key, rule: rule}
	i, ok := t.index[tk]
	if !ok {
		i = len(t.entries)
		t.index[tk] = i
		t.entries = append(t.entries, New(key, rule, t.senseCount, t.smoothing))
	}
	_, err := t.entries[i].Plus(sense, 1)
	return err
}

// Get returns the collocation for (key, rule), or nil.
func (t *Table) Get(key rules.Key, rule rules.Rule) *Collocation {
	if i, ok := t.index[tableKey{key: key, rule: rule}]; ok {
		return t.entries[i]
	}
	return nil
}

// Len returns the number of distinct (key, rule) pairs.
func (t *Table) Len() int { return len(t.entries) }

// SenseCount returns the number of senses tracked.
func (t *Table) SenseCount() int { return t.senseCount }

// Entries returns the collocations in first-observation order.
func (t *Table) Entries() []*Collocation {
	return slices.Clone(t.entries)
}

// Rank returns the table's collocations ordered as a decision list.
func (t *Table) Rank() List {
	return Rank(t.entries)
}
