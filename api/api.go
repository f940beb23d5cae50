// Package api defines the shared contract of the tokenization pipeline:
// token and span types, the subword model interface, encode options and the
// error taxonomy. It exists so that the vocabulary, pre-tokenizer, subword
// model and encoding packages can interoperate without importing each other.
package api

// TokenSpan represents the byte span of a token in the pre-tokenized text.
// Start and End are byte offsets (not rune offsets), suitable for slicing
// Go strings directly: text[span.Start:span.End].
// This is useful for token classification tasks (NER, chunking) where you need
// to map token predictions back to positions in the text.
type TokenSpan struct {
	Start int // start byte position (inclusive)
	End   int // end byte position (exclusive)
}

// Token is a resolved subword unit: a vocabulary id, its surface form and
// the span it covers. Span is nil for synthesized tokens (sentinels,
// padding) that have no source text.
type Token struct {
	ID   int
	Text string
	Span *TokenSpan
}

// PreToken is one word-like unit produced by a pre-tokenizer. Text may be a
// remapped form of the covered span (byte-level families remap bytes to
// printable runes); Span always addresses the pre-tokenizer's input.
type PreToken struct {
	Text    string
	Span    TokenSpan
	Special bool // matched an added/special token verbatim; never subdivided
}

// SubwordModel segments one pre-token into subword tokens whose spans
// partition the pre-token span with no gaps or overlaps. Implementations
// must be deterministic: identical input and vocabulary state always yield
// identical output.
type SubwordModel interface {
	Segment(pre PreToken) []Token
}

// TruncationStrategy selects which segment loses tokens when the assembled
// sequence exceeds the length budget.
type TruncationStrategy int

const (
	// TruncateLongestFirst removes tokens one at a time from whichever
	// segment is currently longer.
	TruncateLongestFirst TruncationStrategy = iota
	// TruncateOnlyFirst removes tokens from the first segment only.
	TruncateOnlyFirst
	// TruncateOnlySecond removes tokens from the second segment only.
	TruncateOnlySecond
	// TruncateNone disables truncation; over-long sequences are emitted
	// unchanged.
	TruncateNone
)

func (s TruncationStrategy) String() string {
	switch s {
	case TruncateLongestFirst:
		return "longest_first"
	case TruncateOnlyFirst:
		return "only_first"
	case TruncateOnlySecond:
		return "only_second"
	case TruncateNone:
		return "do_not_truncate"
	}
	return "unknown"
}

// PaddingStrategy selects how encodings are padded to a common length.
type PaddingStrategy int

const (
	// PadNone leaves encodings at their natural lengths.
	PadNone PaddingStrategy = iota
	// PadLongest pads every row of a batch to the longest row.
	PadLongest
	// PadMaxLength pads every encoding to EncodeOptions.MaxLength.
	PadMaxLength
)

func (s PaddingStrategy) String() string {
	switch s {
	case PadNone:
		return "none"
	case PadLongest:
		return "longest"
	case PadMaxLength:
		return "max_length"
	}
	return "unknown"
}

// PaddingSide selects which end of a sequence receives padding tokens.
type PaddingSide int

const (
	PadRight PaddingSide = iota
	PadLeft
)

func (s PaddingSide) String() string {
	if s == PadLeft {
		return "left"
	}
	return "right"
}

// EncodeOptions is the per-call configuration of the encode pipeline.
// The zero value means: no truncation bound, no stride, longest-first
// truncation when a bound is set, no padding, right-side padding.
type EncodeOptions struct {
	// MaxLength is the truncation/padding bound. 0 means unbounded.
	MaxLength int
	// Stride is the number of trailing tokens repeated at the start of the
	// next overflow window. Must satisfy 0 <= Stride < MaxLength when a
	// bound is set.
	Stride int
	// Truncation selects the truncation strategy applied when the
	// assembled sequence exceeds MaxLength.
	Truncation TruncationStrategy
	// Padding selects the padding strategy.
	Padding PaddingStrategy
	// PaddingSide selects left or right padding.
	PaddingSide PaddingSide

	// ReturnOffsets includes the offset mapping in batch outputs.
	ReturnOffsets bool
	// ReturnSpecialTokensMask includes the special tokens mask in batch
	// outputs.
	ReturnSpecialTokensMask bool
	// ReturnOverflowingTokens emits the full overflow window chain instead
	// of just the first window.
	ReturnOverflowingTokens bool
}
