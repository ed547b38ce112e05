package grading

import "errors"

// Grading error taxonomy. Handlers map these onto HTTP status codes; the
// batch orchestrator isolates the per-item ones and collects them instead
// of failing the run.
var (
	// ErrValidation marks a malformed or incomplete request.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a missing submission or assessment.
	ErrNotFound = errors.New("not found")
	// ErrConfiguration marks a missing vision service credential.
	ErrConfiguration = errors.New("configuration error")
	// ErrParse marks a vision reply with no extractable JSON object.
	ErrParse = errors.New("parse error")
	// ErrExternalService marks a failed vision service call.
	ErrExternalService = errors.New("external service error")
	// ErrPersistence marks a failed store update after successful grading.
	// The grading result is still returned to the caller.
	ErrPersistence = errors.New("persistence error")
)
