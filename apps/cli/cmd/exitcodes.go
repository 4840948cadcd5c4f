package cmd

// Exit codes for the notrace CLI
const (
	// ExitSuccess indicates the command completed normally
	ExitSuccess = 0

	// ExitParseError indicates the clipboard capture could not be parsed
	ExitParseError = 2

	// ExitIOError indicates a clipboard or console I/O failure
	ExitIOError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
