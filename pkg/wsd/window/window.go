// Package window extracts fixed-size contexts around occurrences of the
// pattern word and applies the collocation model to them.
package window

import (
	"fmt"
	"strings"

	"github.com/kittclouds/yarowsky/pkg/wsd/collocation"
	"github.com/kittclouds/yarowsky/pkg/wsd/rules"
)

// Unlabeled is the sense of a context no rule or seed has assigned.
const Unlabeled = -1

// Context is the window of words around one pattern occurrence. Only Sense
// changes after extraction.
type Context struct {
	Words []string
	Sense int

	// DocID refers back to the source document; Position is the pattern's
	// offset inside it. Both are provenance and never used for scoring.
	DocID    string
	Position int
}

// Extract returns one context per occurrence of pattern in words, each
// covering [i-k, i+k] clipped to the article.
func Extract(words []string, pattern string, k int, docID string) []*Context {
	if k < 0 {
		k = 0
	}
	var out []*Context
	for i, w := range words {
		if w != pattern {
			continue
		}
		begin := max(i-k, 0)
		end := min(i+k+1, len(words))
		out = append(out, &Context{
			Words:    words[begin:end:end],
			Sense:    Unlabeled,
			DocID:    docID,
			Position: i,
		})
	}
	return out
}

// LocatePattern finds the pattern inside an extracted window. The first
// occurrence exactly k words from either edge wins; otherwise the last
// occurrence seen is returned, or -1 if there is none.
//
// Repeated pattern words near an article boundary can resolve to the wrong
// occurrence.
func LocatePattern(words []string, pattern string, k int) int {
	last := -1
	for i, w := range words {
		if w != pattern {
			continue
		}
		last = i
		if i == k || len(words)-i-1 == k {
			return i
		}
	}
	return last
}

// Labeled reports whether the context carries a sense.
func (c *Context) Labeled() bool { return c.Sense != Unlabeled }

// Text returns the window as space-joined words.
func (c *Context) Text() string { return strings.Join(c.Words, " ") }

// Contribute posts this context's observations into t under its sense.
// Unlabeled contexts, and contexts whose pattern cannot be located, add
// nothing.
func (c *Context) Contribute(t *collocation.Table, pattern string, k int) error {
	if !c.Labeled() {
		return nil
	}
	p := LocatePattern(c.Words, pattern, k)
	if p < 0 {
		return nil
	}

	w := c.Words
	n := len(w)
	observe := func(key rules.Key, r rules.Rule) error {
		if err := t.Observe(key, r, c.Sense); err != nil {
			return fmt.Errorf("context %s@%d: %w", c.DocID, c.Position, err)
		}
		return nil
	}

	if p+1 < n {
		if err := observe(rules.Word(w[p+1]), rules.Right); err != nil {
			return err
		}
	}
	if p-1 >= 0 {
		if err := observe(rules.Word(w[p-1]), rules.Left); err != nil {
			return err
		}
	}
	for i, word := range w {
		if i < p-1 || i > p+1 {
			if err := observe(rules.Word(word), rules.Wide); err != nil {
				return err
			}
		}
	}
	if p-2 >= 0 {
		if err := observe(rules.Pair(w[p-2], w[p-1]), rules.TwoLeft); err != nil {
			return err
		}
	}
	if p-1 >= 0 && p+1 < n {
		if err := observe(rules.Pair(w[p-1], w[p+1]), rules.Surround); err != nil {
			return err
		}
	}
	if p+2 < n {
		if err := observe(rules.Pair(w[p+1], w[p+2]), rules.TwoRight); err != nil {
			return err
		}
	}
	return nil
}

// Classify relabels the context from the decision list. The first matching
// collocation decides: its best sense is adopted when that sense's
// log-likelihood exceeds threshold, otherwise the context becomes
// unlabeled. No match also leaves it unlabeled.
func (c *Context) Classify(list collocation.List, pattern string, k int, threshold float64) {
	c.Sense = Unlabeled
	p := LocatePattern(c.Words, pattern, k)
	if p < 0 {
		return
	}
	match := list.First(c.Words, p)
	if match == nil {
		return
	}
	if sense := match.BestSense(); match.LogLikelihood(sense) > threshold {
		c.Sense = sense
	}
}
