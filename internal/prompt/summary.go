package prompt

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tiktoken-go/tokenizer"

	"github.com/CodexForgeBR/mock-interviewer/internal/state"
)

var (
	codecOnce sync.Once
	codec     tokenizer.Codec
	codecErr  error
)

// CountTokens returns the cl100k token count of text, or a rune-based
// estimate when the encoding cannot be loaded.
func CountTokens(text string) int {
	codecOnce.Do(func() {
		codec, codecErr = tokenizer.Get(tokenizer.Cl100kBase)
	})
	if codecErr == nil {
		if ids, _, err := codec.Encode(text); err == nil {
			return len(ids)
		}
	}
	return (len([]rune(text)) + 3) / 4
}

// Summarize renders the transcript as history text, keeping the most recent
// entries that fit within budget tokens. Output stays in chronological order.
// A budget of zero or less disables trimming.
func Summarize(entries []state.TranscriptEntry, budget int) string {
	var kept []string
	used := 0
	for i := len(entries) - 1; i >= 0; i-- {
		line := formatEntry(i+1, entries[i])
		cost := CountTokens(line)
		if budget > 0 && used+cost > budget {
			break
		}
		kept = append(kept, line)
		used += cost
	}
	for l, r := 0, len(kept)-1; l < r; l, r = l+1, r-1 {
		kept[l], kept[r] = kept[r], kept[l]
	}
	return strings.Join(kept, "\n")
}

func formatEntry(n int, e state.TranscriptEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Q%d: %s\nA%d: %s (score %d/5)", n, oneLine(e.Question.Text), n, oneLine(e.Answer), e.Evaluation.Score)
	if e.FollowupPrompt != "" {
		answer := "(pending)"
		if e.FollowupAnswer != nil {
			answer = oneLine(*e.FollowupAnswer)
		}
		fmt.Fprintf(&b, "\nFollow-up: %s\nFollow-up answer: %s", oneLine(e.FollowupPrompt), answer)
	}
	return b.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
