package automation

import "errors"

// Error types
var (
	// ErrJobNotFound indicates an unknown job id
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidStatus indicates a status string outside the enumerated set
	ErrInvalidStatus = errors.New("invalid job status")

	// ErrMissingArguments indicates neither a definition id nor a library
	// path was provided
	ErrMissingArguments = errors.New("missing arguments")
)
