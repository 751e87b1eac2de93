package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	words := []string{"a", "b", "bank", "c", "d"}
	const pos = 2

	tests := []struct {
		name string
		rule Rule
		key  Key
		want bool
	}{
		{"right hit", Right, Word("c"), true},
		{"right miss", Right, Word("b"), false},
		{"left hit", Left, Word("b"), true},
		{"left miss", Left, Word("c"), false},
		{"wide far left", Wide, Word("a"), true},
		{"wide far right", Wide, Word("d"), true},
		{"wide adjacent excluded", Wide, Word("b"), false},
		{"wide pattern itself excluded", Wide, Word("bank"), false},
		{"two-left hit", TwoLeft, Pair("a", "b"), true},
		{"two-left reversed", TwoLeft, Pair("b", "a"), false},
		{"surround hit", Surround, Pair("b", "c"), true},
		{"surround reversed", Surround, Pair("c", "b"), false},
		{"two-right hit", TwoRight, Pair("c", "d"), true},
		{"two-right miss", TwoRight, Pair("d", "c"), false},
		{"word key on pair rule", TwoLeft, Word("a"), false},
		{"pair key on word rule", Right, Pair("c", "d"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.rule, words, pos, tt.key))
		})
	}
}

func TestMatch_OutOfRange(t *testing.T) {
	edgeLeft := []string{"bank", "c", "d"}
	edgeRight := []string{"a", "b", "bank"}

	assert.False(t, Match(Left, edgeLeft, 0, Word("x")))
	assert.False(t, Match(TwoLeft, edgeLeft, 0, Pair("x", "y")))
	assert.False(t, Match(TwoLeft, []string{"a", "bank"}, 1, Pair("x", "a")))
	assert.False(t, Match(Surround, edgeLeft, 0, Pair("x", "c")))

	assert.False(t, Match(Right, edgeRight, 2, Word("x")))
	assert.False(t, Match(TwoRight, edgeRight, 2, Pair("x", "y")))
	assert.False(t, Match(TwoRight, []string{"bank", "c"}, 0, Pair("c", "x")))
	assert.False(t, Match(Surround, edgeRight, 2, Pair("b", "x")))

	assert.False(t, Match(Right, edgeLeft, -1, Word("bank")))
	assert.False(t, Match(Left, edgeLeft, 5, Word("d")))
	assert.False(t, Match(Rule(9), edgeLeft, 0, Word("c")))
	assert.False(t, Match(Right, nil, 0, Word("c")))
}

func TestRuleShapeAndNames(t *testing.T) {
	for _, r := range All {
		assert.True(t, r.Valid())
	}
	assert.Equal(t, ShapeWord, Right.Shape())
	assert.Equal(t, ShapeWord, Wide.Shape())
	assert.Equal(t, ShapePair, Surround.Shape())
	assert.Equal(t, "two-left", TwoLeft.String())
	assert.Equal(t, "rule(7)", Rule(7).String())
	assert.Equal(t, uint8(5), uint8(TwoRight))
}

func TestKey(t *testing.T) {
	assert.Equal(t, []string{"a"}, Word("a").Words())
	assert.Equal(t, []string{"a", "b"}, Pair("a", "b").Words())
	assert.Equal(t, "(a, b)", Pair("a", "b").String())
	assert.NotEqual(t, Word("a"), Pair("a", ""))
	assert.Equal(t, Pair("a", "b"), Pair("a", "b"))
}
