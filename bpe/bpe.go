// Package bpe implements priority-merge subword segmentation: starting from
// the finest-grained symbol sequence of a pre-token, the highest-priority
// known merge rule (lowest merge rank) is applied to adjacent symbol pairs
// until none applies, ties broken by leftmost position. The byte-level
// variant operates over the reversible byte-to-unicode remapping so every
// byte sequence is representable.
package bpe

import (
	"strings"
	"unicode/utf8"

	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/vocab"
)

// Options configures a Model.
type Options struct {
	// UnkToken is the unknown-token surface form, if the family has one.
	// Byte-level families cover all bytes and usually leave it empty.
	UnkToken string
	// ByteLevel marks pre-token text as byte-to-unicode remapped: each
	// symbol rune stands for one byte of the original span.
	ByteLevel bool
}

// Model segments pre-tokens by applying merge rules in rank order.
type Model struct {
	vocab *vocab.Vocabulary
	ranks map[string]int // "left right" -> merge priority, lower merges first
	opts  Options
}

var _ api.SubwordModel = &Model{}

// New creates a BPE model from a vocabulary and an ordered merge table.
// Each merge is the conventional "left right" pair text; its index is its
// rank.
func New(v *vocab.Vocabulary, merges []string, opts Options) *Model {
	ranks := make(map[string]int, len(merges))
	for i, merge := range merges {
		ranks[merge] = i
	}
	return &Model{vocab: v, ranks: ranks, opts: opts}
}

// Segment splits one pre-token into subword tokens whose spans partition the
// pre-token span. Symbols that resolve to no vocabulary entry map to the
// unknown token when one is configured, and are dropped otherwise.
func (m *Model) Segment(pre api.PreToken) []api.Token {
	word := pre.Text
	if word == "" {
		return nil
	}

	// Whole pre-token known: emit it as a single token.
	if id, ok := m.vocab.TokenToID(word); ok {
		span := pre.Span
		return []api.Token{{ID: id, Text: word, Span: &span}}
	}

	symbols, widths := m.initialSymbols(pre)

	for len(symbols) > 1 {
		bestRank := -1
		bestIdx := -1
		for i := 0; i+1 < len(symbols); i++ {
			rank, ok := m.ranks[symbols[i]+" "+symbols[i+1]]
			if !ok {
				continue
			}
			if bestRank == -1 || rank < bestRank {
				bestRank = rank
				bestIdx = i
			}
		}
		if bestIdx == -1 {
			break
		}
		symbols[bestIdx] += symbols[bestIdx+1]
		widths[bestIdx] += widths[bestIdx+1]
		symbols = append(symbols[:bestIdx+1], symbols[bestIdx+2:]...)
		widths = append(widths[:bestIdx+1], widths[bestIdx+2:]...)
	}

	var tokens []api.Token
	pos := pre.Span.Start
	for i, sym := range symbols {
		span := &api.TokenSpan{Start: pos, End: pos + widths[i]}
		pos += widths[i]
		if id, ok := m.vocab.TokenToID(sym); ok {
			tokens = append(tokens, api.Token{ID: id, Text: sym, Span: span})
			continue
		}
		if m.opts.UnkToken != "" {
			if id, ok := m.vocab.TokenToID(m.opts.UnkToken); ok {
				tokens = append(tokens, api.Token{ID: id, Text: m.opts.UnkToken, Span: span})
			}
		}
	}
	return tokens
}

// initialSymbols returns the finest-grained symbol sequence of the
// pre-token, with each symbol's width in bytes of the covered span. In
// byte-level mode each rune stands for one original byte; remapped runes in
// excess of the span width (a synthesized prefix space) get zero width.
func (m *Model) initialSymbols(pre api.PreToken) ([]string, []int) {
	runeCount := utf8.RuneCountInString(pre.Text)
	symbols := make([]string, 0, runeCount)
	widths := make([]int, 0, runeCount)
	if m.opts.ByteLevel {
		synthesized := runeCount - (pre.Span.End - pre.Span.Start)
		for _, r := range pre.Text {
			width := 1
			if synthesized > 0 {
				width = 0
				synthesized--
			}
			symbols = append(symbols, string(r))
			widths = append(widths, width)
		}
		return symbols, widths
	}
	for _, r := range pre.Text {
		symbols = append(symbols, string(r))
		widths = append(widths, utf8.RuneLen(r))
	}
	return symbols, widths
}

// MergeCount reports the number of loaded merge rules.
func (m *Model) MergeCount() int { return len(m.ranks) }

// FormatMerge renders a symbol pair the way the merge table keys it.
func FormatMerge(left, right string) string {
	return strings.Join([]string{left, right}, " ")
}
