package commands

// Flags holds global CLI flag values shared by all commands.
type Flags struct {
	LogLevel string
	LogFile  string

	// ConfigPath points at an explicit aipm.yaml, bypassing the upward
	// search from the working directory.
	ConfigPath string

	// Offline forces the keyword fallback strategies even when the AI
	// assistant is installed.
	Offline bool
}
