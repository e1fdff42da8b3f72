package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpTemplate_ContainsKeyFlags(t *testing.T) {
	requiredFlags := []string{
		"--preset",
		"--min-questions",
		"--max-questions",
		"--followup-probability",
		"--followup-budget",
		"--seed",
		"--ai",
		"--model",
		"--store",
		"--config",
		"--name",
		"--yes",
		"--resume",
		"--start-at",
		"--addr",
		"--notify-webhook",
		"--telemetry",
		"--verbose",
		"--help",
		"--version",
	}

	for _, flag := range requiredFlags {
		assert.Contains(t, helpTemplate, flag, "Help template should contain flag: %s", flag)
	}
}

func TestHelpTemplate_ListsEveryBoundFlag(t *testing.T) {
	cmd, _, err := newCommand()
	require.NoError(t, err)
	cmd.Flags().VisitAll(func(fl *pflag.Flag) {
		assert.Contains(t, helpTemplate, "--"+fl.Name)
	})
}

func TestHelpTemplate_ContainsExitCodes(t *testing.T) {
	for _, code := range []string{"Success", "Error", "ResumeFailed", "Abandoned", "Interrupted"} {
		assert.Contains(t, helpTemplate, code, "Help template should contain exit code: %s", code)
	}
}

func TestHelpTemplate_ContainsSections(t *testing.T) {
	for _, section := range []string{"USAGE", "FLAGS", "ENVIRONMENT", "EXIT CODES", "EXAMPLES"} {
		assert.Contains(t, helpTemplate, section, "Help template should contain section: %s", section)
	}
}

func TestSetCustomHelp(t *testing.T) {
	cmd := &cobra.Command{Use: "test", Run: func(*cobra.Command, []string) {}}
	SetCustomHelp(cmd)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "interviewer - Adaptive mock interviewer")
}
