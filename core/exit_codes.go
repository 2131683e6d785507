// exit_codes.go defines the process exit codes of the edukai-ingest
// CLI. Signal-driven exits use the Unix 128+signum convention so shell
// scripts driving batch ingestion can tell an interrupted run from a
// failed one.
package core

// Exit codes returned by the CLI entry point.
const (
	// ExitCodeSuccess: all requested files ingested cleanly.
	ExitCodeSuccess = 0

	// ExitCodeError: configuration failure or at least one file failed.
	ExitCodeError = 1

	// ExitCodeSIGINT: run interrupted by Ctrl+C (128 + 2).
	ExitCodeSIGINT = 130

	// ExitCodeSIGTERM: run terminated externally (128 + 15).
	ExitCodeSIGTERM = 143
)

// ExitCodeName renders an exit code for log lines and status output.
func ExitCodeName(code int) string {
	switch code {
	case ExitCodeSuccess:
		return "success"
	case ExitCodeError:
		return "error"
	case ExitCodeSIGINT:
		return "interrupted (SIGINT)"
	case ExitCodeSIGTERM:
		return "terminated (SIGTERM)"
	}
	return "unknown"
}

// IsSignalExit reports whether an exit code came from signal handling
// rather than from the ingestion run itself.
func IsSignalExit(code int) bool {
	return code == ExitCodeSIGINT || code == ExitCodeSIGTERM
}
