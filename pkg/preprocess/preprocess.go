// Package preprocess turns raw news-wire files into normalized articles:
// split on <TEXT> blocks, lower-cased, punctuation removed, whitespace
// collapsed to single spaces.
package preprocess

import (
	"regexp"
	"strings"
	"unicode"
)

// articleRe is non-greedy so adjacent blocks stay separate.
var articleRe = regexp.MustCompile(`(?s)<TEXT>(.*?)</TEXT>`)

// SplitArticles returns the body of every <TEXT>...</TEXT> block in raw, in
// order. Input without any block is a single, already split article.
func SplitArticles(raw string) []string {
	matches := articleRe.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		if strings.Contains(raw, "<TEXT>") {
			// unterminated block
			return nil
		}
		return []string{raw}
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m[1]
	}
	return out
}

// Normalize folds s to lower case, deletes every rune that is neither a
// word character (letter, digit, underscore) nor whitespace, and collapses
// whitespace runs into one space with no leading or trailing space.
//
// Deleted runes do not split words: "don't" becomes "dont".
func Normalize(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	pendingSpace := false
	for _, ch := range s {
		switch {
		case unicode.IsSpace(ch):
			pendingSpace = out.Len() > 0
		case isWord(ch):
			if pendingSpace {
				out.WriteByte(' ')
				pendingSpace = false
			}
			out.WriteRune(unicode.ToLower(ch))
		}
	}
	return out.String()
}

// Tokens normalizes s and returns its words.
func Tokens(s string) []string {
	n := Normalize(s)
	if n == "" {
		return nil
	}
	return strings.Split(n, " ")
}

// Articles splits raw and tokenizes each article. Articles that normalize
// to nothing are kept as empty entries so positions match SplitArticles.
func Articles(raw string) [][]string {
	bodies := SplitArticles(raw)
	out := make([][]string, len(bodies))
	for i, b := range bodies {
		out[i] = Tokens(b)
	}
	return out
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.Is(unicode.Mn, r)
}
