package main

// Exit codes returned by the CLI.
const (
	ExitSuccess      = 0 // Success
	ExitError        = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError  = 2 // Configuration error (missing or invalid config)
	ExitDataError    = 3 // Data error (DOI not found, no search matches)
	ExitNetworkError = 4 // Network error (service unreachable, rate limited)
)
