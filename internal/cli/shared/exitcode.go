package shared

// Exit codes returned by the CLI, one per pipeline stage. Codes 1 and 2 are
// left to generic failures and cobra's own usage errors.
const (
	ExitOK           = 0
	ExitConfigError  = 3
	ExitResolveError = 4
	ExitVersionError = 5
	ExitReleaseError = 6
	ExitMatchError   = 7
	ExitExtractError = 8
	ExitExecError    = 9
)
