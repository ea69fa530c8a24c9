// Package errors provides structured, coded errors for seeding operations.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Question phase errors
	CodeValidationFailed     Code = "VALIDATION_FAILED"
	CodeInvalidQuestionGraph Code = "INVALID_QUESTION_GRAPH"
	CodeNoAnswer             Code = "NO_ANSWER"

	// Precondition errors
	CodePreconditionUnmet Code = "PRECONDITION_UNMET"

	// Apply errors
	CodeApplyFailed   Code = "APPLY_FAILED"
	CodeAnswerMissing Code = "ANSWER_MISSING"

	// Lookup errors
	CodeNotFound       Code = "NOT_FOUND"
	CodeSeederNotFound Code = "SEEDER_NOT_FOUND"
)
