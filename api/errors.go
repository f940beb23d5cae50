package api

import "github.com/pkg/errors"

// Error taxonomy of the pipeline. Failures are reported as wrapped instances
// of these sentinels; callers discriminate with errors.Is.
//
// Unknown tokens during subword encoding are not errors: they resolve to the
// unknown-token id and propagate silently.
var (
	// ErrLookup reports a vocabulary lookup with an id that was never
	// issued.
	ErrLookup = errors.New("lookup error")

	// ErrConfiguration reports an invalid or conflicting option
	// combination, e.g. a stride outside [0, max_length).
	ErrConfiguration = errors.New("configuration error")

	// ErrTruncation reports truncation that was requested but is
	// impossible, e.g. the target segment is absent or max_length unset.
	ErrTruncation = errors.New("truncation error")

	// ErrTypeConsistency reports a special-token slot given the wrong shape
	// of value, e.g. a list where a single token was required.
	ErrTypeConsistency = errors.New("type consistency error")
)
