// Package rules holds the six positional collocation rules used by the
// decision list. A rule tests whether a word, or an ordered pair of words,
// sits at a fixed position relative to the pattern word inside a context.
package rules

import "fmt"

// Rule identifies one positional predicate. The numeric ids are stable and
// are written to the run log.
type Rule uint8

const (
	Right    Rule = iota // word immediately after the pattern
	Left                 // word immediately before the pattern
	Wide                 // any word more than one position away
	TwoLeft              // the two words before the pattern
	Surround             // the words on both sides of the pattern
	TwoRight             // the two words after the pattern

	ruleCount
)

// All lists every rule in id order.
var All = [ruleCount]Rule{Right, Left, Wide, TwoLeft, Surround, TwoRight}

var ruleNames = [ruleCount]string{"right", "left", "wide", "two-left", "surround", "two-right"}

// String returns the rule name.
func (r Rule) String() string {
	if !r.Valid() {
		return fmt.Sprintf("rule(%d)", uint8(r))
	}
	return ruleNames[r]
}

// Valid reports whether r is one of the six known rules.
func (r Rule) Valid() bool {
	return r < ruleCount
}

// Shape returns the key variant the rule is keyed by.
func (r Rule) Shape() Shape {
	switch r {
	case TwoLeft, Surround, TwoRight:
		return ShapePair
	default:
		return ShapeWord
	}
}

// Shape distinguishes single-word keys from word-pair keys.
type Shape uint8

const (
	ShapeWord Shape = iota
	ShapePair
)

// Key is the surface form a collocation is keyed by: either one word or an
// ordered pair of words. Keys are comparable and usable as map keys.
type Key struct {
	shape  Shape
	first  string
	second string
}

// Word builds a single-word key.
func Word(w string) Key {
	return Key{shape: ShapeWord, first: w}
}

// Pair builds an ordered word-pair key.
func Pair(a, b string) Key {
	return Key{shape: ShapePair, first: a, second: b}
}

// Shape returns the variant of the key.
func (k Key) Shape() Shape { return k.shape }

// Words returns the words of the key in order (one or two).
func (k Key) Words() []string {
	if k.shape == ShapePair {
		return []string{k.first, k.second}
	}
	return []string{k.first}
}

func (k Key) String() string {
	if k.shape == ShapePair {
		return "(" + k.first + ", " + k.second + ")"
	}
	return k.first
}

type predicate func(words []string, pos int, key Key) bool

// dispatch is indexed by rule id.
var dispatch = [ruleCount]predicate{
	Right:    right,
	Left:     left,
	Wide:     wide,
	TwoLeft:  twoLeft,
	Surround: surround,
	TwoRight: twoRight,
}

// Match reports whether the context words, with the pattern at pos, satisfy
// rule r for key. Positions too close to the window edge, keys of the wrong
// shape and unknown rules never match.
func Match(r Rule, words []string, pos int, key Key) bool {
	if !r.Valid() || key.shape != r.Shape() {
		return false
	}
	if pos < 0 || pos >= len(words) {
		return false
	}
	return dispatch[r](words, pos, key)
}

func right(words []string, pos int, key Key) bool {
	if pos+1 >= len(words) {
		return false
	}
	return words[pos+1] == key.first
}

func left(words []string, pos int, key Key) bool {
	if pos == 0 {
		return false
	}
	return words[pos-1] == key.first
}

func wide(words []string, pos int, key Key) bool {
	for i, w := range words {
		if (i < pos-1 || i > pos+1) && w == key.first {
			return true
		}
	}
	return false
}

func twoLeft(words []string, pos int, key Key) bool {
	if pos < 2 {
		return false
	}
	return words[pos-2] == key.first && words[pos-1] == key.second
}

func surround(words []string, pos int, key Key) bool {
	if pos == 0 || pos+1 >= len(words) {
		return false
	}
	return words[pos-1] == key.first && words[pos+1] == key.second
}

func twoRight(words []string, pos int, key Key) bool {
	if pos+2 >= len(words) {
		return false
	}
	return words[pos+1] == key.first && words[pos+2] == key.second
}
