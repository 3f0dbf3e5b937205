package common

import "errors"

// Sentinel errors forming the application's error taxonomy. Callers should
// wrap these with fmt.Errorf("...: %w", ErrX) so errors.Is still matches
// while context is preserved.
var (
	// ErrInvalidContainer means the uploaded bytes could not be opened as
	// the declared container format (not a valid ZIP / PDF object tree).
	ErrInvalidContainer = errors.New("invalid container")

	// ErrUnsupportedFormat means the document extension/content does not
	// match one of the four supported formats.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrPartParse means a known container part failed to parse as XML or
	// as its expected structure (e.g. a malformed document.xml).
	ErrPartParse = errors.New("part parse failure")

	// ErrRemoteUnavailable means an external dependency (the LLM
	// provider) could not be reached or failed after retries.
	ErrRemoteUnavailable = errors.New("remote service unavailable")

	// ErrCancelled means the operation's context was cancelled or timed
	// out before completion.
	ErrCancelled = errors.New("operation cancelled")

	// ErrInternal covers invariant violations that indicate a bug rather
	// than bad input (e.g. a detector producing an out-of-range offset).
	ErrInternal = errors.New("internal error")
)
