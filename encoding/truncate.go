package encoding

import (
	"github.com/pkg/errors"

	"github.com/gomlx/go-tokenizers/api"
)

// Windows slices tokens into overlapping overflow windows of at most size
// tokens. Each window after the first repeats the last stride tokens of its
// predecessor, so concatenating windows while dropping the repeated stride
// prefix reconstructs the original order. Requires 0 <= stride < size.
func Windows(tokens []api.Token, size, stride int) ([][]api.Token, error) {
	if size <= 0 {
		return nil, errors.Wrapf(api.ErrConfiguration, "window size %d must be positive", size)
	}
	if stride < 0 || stride >= size {
		return nil, errors.Wrapf(api.ErrConfiguration,
			"stride %d must satisfy 0 <= stride < %d", stride, size)
	}
	var windows [][]api.Token
	start := 0
	for {
		end := start + size
		if end > len(tokens) {
			end = len(tokens)
		}
		windows = append(windows, tokens[start:end])
		if end == len(tokens) {
			return windows, nil
		}
		start += size - stride
	}
}

// TruncatePair trims two token segments down to a shared content budget
// according to the truncation strategy, returning the kept segments and the
// removed tokens (with up to stride tokens of kept context prefixed, for
// single-segment strategies).
//
// The second segment may be nil for single-segment inputs; strategies that
// must remove from an absent or too-short segment fail with
// api.ErrTruncation.
func TruncatePair(a, b []api.Token, budget, stride int, strategy api.TruncationStrategy) (keptA, keptB, overflow []api.Token, err error) {
	if strategy == api.TruncateNone {
		return a, b, nil, nil
	}
	if budget <= 0 {
		return nil, nil, nil, errors.Wrapf(api.ErrTruncation,
			"no room left for sequence tokens within max_length")
	}
	total := len(a) + len(b)
	if total <= budget {
		return a, b, nil, nil
	}
	numToRemove := total - budget

	switch strategy {
	case api.TruncateLongestFirst:
		keptA, keptB = a, b
		var removedA, removedB int
		for i := 0; i < numToRemove; i++ {
			if len(keptA) > len(keptB) {
				keptA = keptA[:len(keptA)-1]
				removedA++
			} else {
				keptB = keptB[:len(keptB)-1]
				removedB++
			}
		}
		// Removed tokens in original sequence order: first segment's, then
		// second segment's.
		overflow = append(overflow, a[len(a)-removedA:]...)
		overflow = append(overflow, b[len(b)-removedB:]...)
		return keptA, keptB, overflow, nil

	case api.TruncateOnlyFirst:
		if len(a) <= numToRemove {
			return nil, nil, nil, errors.Wrapf(api.ErrTruncation,
				"cannot remove %d token(s) from the first segment of length %d", numToRemove, len(a))
		}
		cut := len(a) - numToRemove
		return a[:cut], b, withContext(a, cut, stride), nil

	case api.TruncateOnlySecond:
		if b == nil {
			return nil, nil, nil, errors.Wrapf(api.ErrTruncation,
				"truncation strategy %s requires a second segment", strategy)
		}
		if len(b) <= numToRemove {
			return nil, nil, nil, errors.Wrapf(api.ErrTruncation,
				"cannot remove %d token(s) from the second segment of length %d", numToRemove, len(b))
		}
		cut := len(b) - numToRemove
		return a, b[:cut], withContext(b, cut, stride), nil
	}
	return nil, nil, nil, errors.Wrapf(api.ErrConfiguration, "unknown truncation strategy %d", strategy)
}

// withContext returns the removed suffix of tokens starting at cut,
// prefixed by up to stride kept tokens.
func withContext(tokens []api.Token, cut, stride int) []api.Token {
	start := cut - stride
	if start < 0 {
		start = 0
	}
	return tokens[start:]
}
