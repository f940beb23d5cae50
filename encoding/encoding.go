// Package encoding defines the tokenized result record — parallel sequences
// of ids, type-ids, surface forms, offsets, masks — and the operations that
// reshape it: truncation into overlapping overflow windows and padding.
package encoding

import (
	"github.com/gomlx/go-tokenizers/api"
)

// Encoding is a single tokenized result. All slices always have equal
// length. Offsets entries are nil at synthesized positions (sentinels and
// padding). SpecialTokensMask and AttentionMask use 1/0 so rows can be
// summed and batched directly.
type Encoding struct {
	IDs               []int
	TypeIDs           []int
	Tokens            []string
	Offsets           []*api.TokenSpan
	SpecialTokensMask []int
	AttentionMask     []int

	// Overflowing holds the rest of the overflow chain when this encoding
	// is the first window of an over-long input.
	Overflowing []*Encoding
}

// New returns an empty Encoding with capacity for n tokens.
func New(n int) *Encoding {
	return &Encoding{
		IDs:               make([]int, 0, n),
		TypeIDs:           make([]int, 0, n),
		Tokens:            make([]string, 0, n),
		Offsets:           make([]*api.TokenSpan, 0, n),
		SpecialTokensMask: make([]int, 0, n),
		AttentionMask:     make([]int, 0, n),
	}
}

// Len returns the number of token positions.
func (e *Encoding) Len() int { return len(e.IDs) }

// NumSpecialTokens counts positions flagged in the special tokens mask.
func (e *Encoding) NumSpecialTokens() int {
	n := 0
	for _, m := range e.SpecialTokensMask {
		n += m
	}
	return n
}

// AppendTokens appends content tokens under one segment type id.
func (e *Encoding) AppendTokens(tokens []api.Token, typeID int) {
	for _, tok := range tokens {
		e.IDs = append(e.IDs, tok.ID)
		e.TypeIDs = append(e.TypeIDs, typeID)
		e.Tokens = append(e.Tokens, tok.Text)
		e.Offsets = append(e.Offsets, tok.Span)
		e.SpecialTokensMask = append(e.SpecialTokensMask, 0)
		e.AttentionMask = append(e.AttentionMask, 1)
	}
}

// AppendSentinel appends one synthesized special token: no offset, flagged
// in the special tokens mask, attended to.
func (e *Encoding) AppendSentinel(id int, text string, typeID int) {
	e.IDs = append(e.IDs, id)
	e.TypeIDs = append(e.TypeIDs, typeID)
	e.Tokens = append(e.Tokens, text)
	e.Offsets = append(e.Offsets, nil)
	e.SpecialTokensMask = append(e.SpecialTokensMask, 1)
	e.AttentionMask = append(e.AttentionMask, 1)
}

// Pad extends the encoding to length with the padding token on the given
// side. Padding positions carry no offset, a zero attention mask and a set
// special tokens mask. Longer encodings are left untouched.
func (e *Encoding) Pad(length, padID int, padToken string, side api.PaddingSide) {
	missing := length - e.Len()
	if missing <= 0 {
		return
	}
	padIDs := repeatInt(padID, missing)
	padTypes := repeatInt(0, missing)
	padTokens := make([]string, missing)
	for i := range padTokens {
		padTokens[i] = padToken
	}
	padOffsets := make([]*api.TokenSpan, missing)
	padSpecial := repeatInt(1, missing)
	padAttention := repeatInt(0, missing)

	if side == api.PadLeft {
		e.IDs = append(padIDs, e.IDs...)
		e.TypeIDs = append(padTypes, e.TypeIDs...)
		e.Tokens = append(padTokens, e.Tokens...)
		e.Offsets = append(padOffsets, e.Offsets...)
		e.SpecialTokensMask = append(padSpecial, e.SpecialTokensMask...)
		e.AttentionMask = append(padAttention, e.AttentionMask...)
		return
	}
	e.IDs = append(e.IDs, padIDs...)
	e.TypeIDs = append(e.TypeIDs, padTypes...)
	e.Tokens = append(e.Tokens, padTokens...)
	e.Offsets = append(e.Offsets, padOffsets...)
	e.SpecialTokensMask = append(e.SpecialTokensMask, padSpecial...)
	e.AttentionMask = append(e.AttentionMask, padAttention...)
}

func repeatInt(v, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}
