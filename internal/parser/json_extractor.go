// Package parser turns free-form language-model output into typed values.
//
// ExtractJSON locates a JSON object inside arbitrary text. The typed parsers
// (ParseEvaluation, ParseQuestion) fill every optional field with an explicit
// default so callers never re-check presence.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when text contains no JSON object at all.
var ErrNoJSON = errors.New("no json object found")

// ExtractJSON finds a JSON object in text.
//
// Strategy:
//  1. A fenced code block (```json or bare ```) whose content parses as an object.
//  2. Brace matching from the '{' enclosing the first occurrence of anchor
//     (a quoted key such as `"score"`). An empty anchor starts at the first '{'.
//  3. The span from the first '{' to the last '}'.
func ExtractJSON(text, anchor string) (map[string]interface{}, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoJSON
	}

	if obj, ok := fromCodeBlock(text, anchor); ok {
		return obj, nil
	}
	if obj, ok := fromAnchor(text, anchor); ok {
		return obj, nil
	}

	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first == -1 || last <= first {
		return nil, ErrNoJSON
	}
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(text[first:last+1]), &obj); err != nil {
		return nil, fmt.Errorf("parse json span: %w", err)
	}
	return obj, nil
}

func fromCodeBlock(text, anchor string) (map[string]interface{}, bool) {
	const fence = "```"
	remaining := text
	for {
		open := strings.Index(remaining, fence)
		if open == -1 {
			return nil, false
		}
		start := open + len(fence)
		// Skip the info string ("json") up to the end of the line.
		if nl := strings.IndexByte(remaining[start:], '\n'); nl != -1 {
			start += nl + 1
		}
		end := strings.Index(remaining[start:], fence)
		if end == -1 {
			return nil, false
		}
		block := strings.TrimSpace(remaining[start : start+end])
		if anchor == "" || strings.Contains(block, anchor) {
			var obj map[string]interface{}
			if err := json.Unmarshal([]byte(block), &obj); err == nil {
				return obj, true
			}
		}
		remaining = remaining[start+end+len(fence):]
	}
}

func fromAnchor(text, anchor string) (map[string]interface{}, bool) {
	start := strings.Index(text, "{")
	if anchor != "" {
		idx := strings.Index(text, anchor)
		if idx == -1 {
			return nil, false
		}
		start = strings.LastIndex(text[:idx], "{")
	}
	// Walk outward until an enclosing object parses.
	for start >= 0 {
		if end, ok := matchBraces(text[start:]); ok {
			var obj map[string]interface{}
			if err := json.Unmarshal([]byte(text[start:start+end+1]), &obj); err == nil {
				return obj, true
			}
		}
		start = strings.LastIndex(text[:start], "{")
	}
	return nil, false
}

// matchBraces returns the index of the '}' closing the '{' at position 0,
// skipping braces inside string literals.
func matchBraces(s string) (int, bool) {
	if s == "" || s[0] != '{' {
		return 0, false
	}
	depth := 0
	inString := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch ch {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
