// Package seed assigns initial senses to contexts by looking for the
// hand-picked seed word of each sense.
// A single Aho-Corasick automaton scans each context once for all seeds.
package seed

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/coregx/ahocorasick"

	"github.com/kittclouds/yarowsky/pkg/pool"
)

// Unlabeled is returned when no seed occurs in a context.
const Unlabeled = -1

// ErrInvalidSeed is returned for empty seeds or seeds spanning several words.
var ErrInvalidSeed = errors.New("invalid seed word")

// Matcher finds seed words in contexts.
type Matcher struct {
	ac *ahocorasick.Automaton

	// Pattern index -> lowest sense index using that seed
	senses []int
	seeds  []string
}

// Compile builds a matcher for seeds; seeds[i] marks sense i.
func Compile(seeds []string) (*Matcher, error) {
	m := &Matcher{seeds: append([]string(nil), seeds...)}

	patternIndex := make(map[string]int)
	var patterns []string
	for sense, s := range seeds {
		if s == "" || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
			return nil, fmt.Errorf("%w: %q (sense %d)", ErrInvalidSeed, s, sense)
		}
		// duplicates keep the first sense
		if _, exists := patternIndex[s]; exists {
			continue
		}
		patternIndex[s] = len(patterns)
		patterns = append(patterns, s)
		m.senses = append(m.senses, sense)
	}

	if len(patterns) == 0 {
		return m, nil
	}

	automaton, err := ahocorasick.NewBuilder().
		AddStrings(patterns).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, fmt.Errorf("compile seeds: %w", err)
	}
	m.ac = automaton
	return m, nil
}

// Seeds returns the seed words in sense order.
func (m *Matcher) Seeds() []string {
	return append([]string(nil), m.seeds...)
}

// Sense returns the sense of the first seed, in seed order, that occurs as a
// whole word in words, or Unlabeled.
func (m *Matcher) Sense(words []string) int {
	if m.ac == nil || len(words) == 0 {
		return Unlabeled
	}

	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)
	*buf = pool.JoinWords(*buf, words)
	haystack := *buf

	best := Unlabeled
	for _, match := range m.ac.FindAllOverlapping(haystack) {
		// seeds hold no spaces, so a whole-word hit is bounded by spaces or
		// the haystack edges
		if match.Start > 0 && haystack[match.Start-1] != ' ' {
			continue
		}
		if match.End < len(haystack) && haystack[match.End] != ' ' {
			continue
		}
		sense := m.senses[match.PatternID]
		if best == Unlabeled || sense < best {
			best = sense
		}
	}
	return best
}
