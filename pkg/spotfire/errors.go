package spotfire

import "errors"

// Error types
var (
	// ErrItemNotFound indicates a library item or folder was not found
	ErrItemNotFound = errors.New("item not found")

	// ErrJobNotFound indicates the referenced job id does not exist
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidJobID indicates a job id parameter is not a valid UUID
	ErrInvalidJobID = errors.New("invalid job id")

	// ErrInvalidDefinitionID indicates a job definition id parameter is not
	// a valid UUID
	ErrInvalidDefinitionID = errors.New("invalid job definition id")

	// ErrDefinitionNotFound indicates a job definition could not be found
	// by id or library path
	ErrDefinitionNotFound = errors.New("job definition not found")

	// ErrInvalidJobXML indicates the server rejected an XML job definition
	ErrInvalidJobXML = errors.New("invalid job definition XML")
)
