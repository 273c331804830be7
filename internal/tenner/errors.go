package tenner

import "errors"

var (
	// ErrDimensionMismatch means the input failed a precondition check
	// (grid shape vs declared dimensions) and search never started.
	ErrDimensionMismatch = errors.New("grid dimensions mismatch")

	// ErrNoSolution means the search ran to exhaustion without finding a
	// completion. An ordinary outcome, not a fault.
	ErrNoSolution = errors.New("no solution")

	// ErrGenerationFailed means a generation attempt could not produce a
	// puzzle (fill backtracked past the first cell, or too few cells could
	// be removed while keeping the solution unique). Callers retry with a
	// fresh seed.
	ErrGenerationFailed = errors.New("generation failed")

	ErrInvalidParams = errors.New("invalid generation params")
)
