package parser

import (
	"math"
	"strconv"
	"strings"
)

// intField reads a numeric field that may arrive as a JSON number or a numeric string.
func intField(raw map[string]interface{}, keys ...string) (int, bool) {
	for _, k := range keys {
		v, ok := lookup(raw, k)
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return int(math.Round(n)), true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				return int(math.Round(f)), true
			}
		}
	}
	return 0, false
}

func stringField(raw map[string]interface{}, keys ...string) (string, bool) {
	for _, k := range keys {
		v, ok := lookup(raw, k)
		if !ok {
			continue
		}
		switch s := v.(type) {
		case string:
			return strings.TrimSpace(s), true
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64), true
		}
	}
	return "", false
}

func objectField(raw map[string]interface{}, keys ...string) (map[string]interface{}, bool) {
	for _, k := range keys {
		if v, ok := lookup(raw, k); ok {
			if m, ok := v.(map[string]interface{}); ok {
				return m, true
			}
		}
	}
	return nil, false
}

// lookup matches keys case-insensitively, ignoring '_' and '-'.
func lookup(raw map[string]interface{}, key string) (interface{}, bool) {
	if v, ok := raw[key]; ok {
		return v, true
	}
	want := normalizeKey(key)
	for k, v := range raw {
		if normalizeKey(k) == want {
			return v, true
		}
	}
	return nil, false
}

func normalizeKey(k string) string {
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(k))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
