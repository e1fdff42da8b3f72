package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCLIOutput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "  ", ""},
		{"plain text", "just text", "just text"},
		{"json result", `{"type":"result","result":"{\"score\":3}"}`, `{"score":3}`},
		{"other json passes through", `{"score":3}`, `{"score":3}`},
		{
			"stream json",
			`{"type":"system","subtype":"init"}
{"type":"assistant","message":{"content":[{"type":"text","text":"part one "},{"type":"tool_use","name":"x"}]}}
{"type":"assistant","message":{"content":[{"type":"text","text":"part two"}]}}
{"type":"result","result":"part one part two"}`,
			"part one part two",
		},
		{
			"stream json result only",
			`{"type":"system"}
{"type":"result","result":"only result"}`,
			"only result",
		},
		{
			"malformed lines skipped",
			`not json
{"type":"result","result":"ok"}`,
			"ok",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCLIOutput(tt.in))
		})
	}
}
