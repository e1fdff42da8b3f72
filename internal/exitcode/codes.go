// Package exitcode defines named exit codes for the interviewer CLI.
package exitcode

// Exit codes returned by interviewer subcommands.
const (
	Success      = 0   // Interview finished or command succeeded
	Error        = 1   // Invalid args, misconfiguration, store failure
	ResumeFailed = 2   // Persisted session failed its continuity check
	Abandoned    = 3   // Candidate quit before the interview finished
	Interrupted  = 130 // SIGINT/SIGTERM received
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case Error:
		return "Error"
	case ResumeFailed:
		return "ResumeFailed"
	case Abandoned:
		return "Abandoned"
	case Interrupted:
		return "Interrupted"
	default:
		return "unknown"
	}
}
