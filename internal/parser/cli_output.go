package parser

import (
	"encoding/json"
	"strings"
)

// ParseCLIOutput extracts the assistant text from claude CLI output in either
// "json" (one result object) or "stream-json" (one event per line) format.
// Plain text that is not CLI JSON is returned unchanged.
func ParseCLIOutput(output string) string {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return ""
	}

	var single map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &single); err == nil {
		if text, ok := eventText(single); ok {
			return text
		}
		return trimmed
	}

	var b strings.Builder
	found := false
	for _, line := range strings.Split(trimmed, "\n") {
		var event map[string]interface{}
		if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &event); err != nil {
			continue
		}
		if text, ok := eventText(event); ok {
			// A result event repeats the assistant text; keep only the first copy.
			if event["type"] == "result" && found {
				continue
			}
			b.WriteString(text)
			found = true
		}
	}
	if !found {
		return trimmed
	}
	return b.String()
}

func eventText(event map[string]interface{}) (string, bool) {
	switch event["type"] {
	case "result":
		s, ok := event["result"].(string)
		return s, ok
	case "assistant":
		message, _ := event["message"].(map[string]interface{})
		content, _ := message["content"].([]interface{})
		var b strings.Builder
		for _, item := range content {
			block, _ := item.(map[string]interface{})
			if block["type"] == "text" {
				s, _ := block["text"].(string)
				b.WriteString(s)
			}
		}
		return b.String(), b.Len() > 0
	}
	return "", false
}
