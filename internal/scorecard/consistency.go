package scorecard

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenLength filters out short function words before comparing answers.
const minTokenLength = 3

// Tokenize returns the set of lowercased, punctuation-stripped words in text
// that are at least minTokenLength runes long.
func Tokenize(text string) map[string]struct{} {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, text)

	set := make(map[string]struct{})
	for _, word := range strings.Fields(stripped) {
		if utf8.RuneCountInString(word) >= minTokenLength {
			set[word] = struct{}{}
		}
	}
	return set
}

// Jaccard is |a ∩ b| / |a ∪ b|. Two empty sets are identical and score 1.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// ComputeConsistency averages the token overlap of each consecutive pair of
// answers. Fewer than two answers give no evidence of inconsistency, so 1.0.
func ComputeConsistency(answers []string) float64 {
	if len(answers) < 2 {
		return 1
	}
	prev := Tokenize(answers[0])
	var sum float64
	for _, a := range answers[1:] {
		cur := Tokenize(a)
		sum += Jaccard(prev, cur)
		prev = cur
	}
	return sum / float64(len(answers)-1)
}
