// Package collocation implements the statistical model behind the decision
// list: per-sense co-occurrence counts for a (key, rule) pair, smoothed sense
// probabilities and the log-likelihood ratio used to rank rules.
package collocation

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/kittclouds/yarowsky/pkg/wsd/rules"
)

// DefaultSmoothing is the additive constant applied to every sense count.
const DefaultSmoothing = 0.1

var (
	// ErrInvalidSense is returned when a sense index is outside [0, senses).
	ErrInvalidSense = errors.New("invalid sense index")
	// ErrInvalidAmount is returned when a count increment is not positive.
	ErrInvalidAmount = errors.New("invalid count increment")
)

// Collocation accumulates how often its key, under its rule, was seen in
// contexts of each sense.
type Collocation struct {
	Key  rules.Key
	Rule rules.Rule

	counts    []int
	total     int
	smoothing float64
}

// New creates an empty collocation for senseCount senses.
func New(key rules.Key, rule rules.Rule, senseCount int, smoothing float64) *Collocation {
	return &Collocation{
		Key:       key,
		Rule:      rule,
		counts:    make([]int, senseCount),
		smoothing: smoothing,
	}
}

// Plus credits amount observations to sense. It returns the collocation so
// calls can be chained.
func (c *Collocation) Plus(sense, amount int) (*Collocation, error) {
	if sense < 0 || sense >= len(c.counts) {
		return c, fmt.Errorf("%w: %d (senses: %d)", ErrInvalidSense, sense, len(c.counts))
	}
	if amount <= 0 {
		return c, fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}
	c.counts[sense] += amount
	c.total += amount
	return c, nil
}

// Count returns the raw count for sense, or 0 for an unknown sense.
func (c *Collocation) Count(sense int) int {
	if sense < 0 || sense >= len(c.counts) {
		return 0
	}
	return c.counts[sense]
}

// Counts returns a copy of the per-sense counts.
func (c *Collocation) Counts() []int {
	return slices.Clone(c.counts)
}

// Total returns the sum of all per-sense counts.
func (c *Collocation) Total() int { return c.total }

// SenseCount returns the number of senses the collocation tracks.
func (c *Collocation) SenseCount() int { return len(c.counts) }

// P returns the smoothed probability of sense:
//
//	(count[s] + e) / (total + e*senses)
//
// It panics on an invalid sense index.
func (c *Collocation) P(sense int) float64 {
	c.mustSense(sense)
	n := float64(len(c.counts))
	return (float64(c.counts[sense]) + c.smoothing) / (float64(c.total) + c.smoothing*n)
}

// LogLikelihood returns |log2(p / (1 - p))| for sense.
func (c *Collocation) LogLikelihood(sense int) float64 {
	p := c.P(sense)
	return math.Abs(math.Log2(p / (1 - p)))
}

// BestSense returns the sense with the highest raw count; ties go to the
// lowest index.
func (c *Collocation) BestSense() int {
	best := 0
	for s, n := range c.counts {
		if n > c.counts[best] {
			best = s
		}
	}
	return best
}

// Score is the log-likelihood ratio of the best sense, the value the
// decision list is ranked by.
func (c *Collocation) Score() float64 {
	return c.LogLikelihood(c.BestSense())
}

// Matches reports whether the collocation's rule holds for the context words
// with the pattern at pos.
func (c *Collocation) Matches(words []string, pos int) bool {
	return rules.Match(c.Rule, words, pos, c.Key)
}

// Equal reports whether both collocations have the same key, rule and
// per-sense counts.
func (c *Collocation) Equal(o *Collocation) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.Key == o.Key && c.Rule == o.Rule && slices.Equal(c.counts, o.counts)
}

func (c *Collocation) String() string {
	return fmt.Sprintf("%s/%s %v", c.Key, c.Rule, c.counts)
}

func (c *Collocation) mustSense(sense int) {
	if sense < 0 || sense >= len(c.counts) {
		panic(fmt.Sprintf("collocation %s: %v: %d", c.Key, ErrInvalidSense, sense))
	}
}
