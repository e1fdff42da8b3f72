package cli

import (
	"github.com/spf13/cobra"
)

const helpTemplate = `interviewer - Adaptive mock interviewer for spreadsheet skills

USAGE
  interviewer run [flags]        Run an interview in the terminal
  interviewer serve [flags]      Serve the HTTP API for a browser UI
  interviewer report <id>        Print the scorecard and transcript of a finished session
  interviewer status <id>        Print the progress of a stored session

FLAGS
  Interview:
    --preset <adaptive|extended>           Named set of defaults (default: adaptive)
    --min-questions <int>                  Minimum main questions (default: 4)
    --max-questions <int>                  Maximum main questions (default: 4)
    --followup-probability <float>         Chance of an eligible follow-up (default: 0.35)
    --followup-budget <int>                Follow-ups per session (default: 1)
    --seed <int>                           Follow-up sampling seed, 0 = clock (default: 0)

  Language Model:
    --ai <anthropic|gemini|claude-cli|none>  Backend (default: none, static questions and neutral scores)
    --model <name>                         Model name (default: backend specific)

  Persistence:
    --store <file|memory|sqlite|mongo|redis> Session store (default: file)
    --config <path>                        Path to additional config file

  Run:
    --name <name>                          Candidate name
    -y, --yes                              Accept the interview rules without prompting
    --resume <id>                          Resume a stored session
    --start-at <time>                      Wait for the interview slot (HH:MM, YYYY-MM-DD, "YYYY-MM-DD HH:MM")

  Serve:
    --addr <host:port>                     Listen address (default: :8080)

  Notifications & Diagnostics:
    --notify-webhook <url>                 Recruiter webhook notified when an interview ends
    --telemetry                            Export trace spans to stderr
    -v, --verbose                          Enable debug logging

  Help & Version:
    -h, --help                             Show this help text
    --version                              Show version, commit, build date

ENVIRONMENT
  Every config key can be set as INTERVIEWER_<SECTION>__<KEY>, for example
  INTERVIEWER_INTERVIEW__MAX_QUESTIONS=6. ANTHROPIC_API_KEY and GEMINI_API_KEY
  are used when ai.api_key is empty. A .env file in the working directory is loaded first.

EXIT CODES
  0   Success              Interview finished or command succeeded
  1   Error                Invalid arguments, misconfiguration, store failure
  2   ResumeFailed         Stored session failed its continuity check
  3   Abandoned            Input closed before the interview finished
  130 Interrupted          SIGINT or SIGTERM received

EXAMPLES
  # Practice interview with static questions
  interviewer run --name Ada --yes

  # Graded by Claude, seven-question ceiling
  interviewer run --ai anthropic --preset extended

  # Open the interview at 14:00
  interviewer run --name Ada --start-at 14:00

  # Continue an interrupted session
  interviewer run --resume 5f0c8a1e-...

  # API for the browser UI backed by SQLite
  interviewer serve --store sqlite --addr :9000
`

// SetCustomHelp configures the cobra command to use our custom help template.
func SetCustomHelp(cmd *cobra.Command) {
	cmd.SetHelpTemplate(helpTemplate)
}
