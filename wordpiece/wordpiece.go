// Package wordpiece implements greedy longest-match-first subword
// segmentation (the BERT family model): each pre-token is consumed by
// repeatedly taking the longest vocabulary-known prefix, with continuation
// pieces marked by a subword prefix. A pre-token with no matching prefix
// maps to the unknown token covering its whole span.
package wordpiece

import (
	"unicode/utf8"

	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/vocab"
)

// Options configures a Model. Zero fields take the conventional defaults.
type Options struct {
	// UnkToken is the unknown-token surface form. Default "[UNK]".
	UnkToken string
	// ContinuingSubwordPrefix marks non-initial pieces. Default "##".
	ContinuingSubwordPrefix string
	// MaxInputCharsPerWord maps longer pre-tokens straight to the unknown
	// token. Default 100.
	MaxInputCharsPerWord int
}

// Model segments pre-tokens by greedy longest vocabulary match.
type Model struct {
	vocab *vocab.Vocabulary
	opts  Options
}

var _ api.SubwordModel = &Model{}

// New creates a WordPiece model over the given vocabulary.
func New(v *vocab.Vocabulary, opts Options) *Model {
	if opts.UnkToken == "" {
		opts.UnkToken = "[UNK]"
	}
	if opts.ContinuingSubwordPrefix == "" {
		opts.ContinuingSubwordPrefix = "##"
	}
	if opts.MaxInputCharsPerWord == 0 {
		opts.MaxInputCharsPerWord = 100
	}
	return &Model{vocab: v, opts: opts}
}

// Segment splits one pre-token into subword tokens whose spans partition the
// pre-token span.
func (m *Model) Segment(pre api.PreToken) []api.Token {
	word := pre.Text
	if word == "" {
		return nil
	}
	if utf8.RuneCountInString(word) > m.opts.MaxInputCharsPerWord {
		return m.unknown(pre)
	}

	var tokens []api.Token
	start := 0
	for start < len(word) {
		end := len(word)
		matched := false
		for end > start {
			sub := word[start:end]
			if start > 0 {
				sub = m.opts.ContinuingSubwordPrefix + sub
			}
			if id, ok := m.vocab.TokenToID(sub); ok {
				tokens = append(tokens, api.Token{
					ID:   id,
					Text: sub,
					Span: &api.TokenSpan{
						Start: pre.Span.Start + start,
						End:   pre.Span.Start + end,
					},
				})
				matched = true
				break
			}
			_, lw := utf8.DecodeLastRuneInString(word[start:end])
			end -= lw
		}
		if !matched {
			return m.unknown(pre)
		}
		start = end
	}
	return tokens
}

// unknown maps the whole pre-token to the unknown token. When the unknown
// token itself is not in the vocabulary the pre-token produces nothing.
func (m *Model) unknown(pre api.PreToken) []api.Token {
	id, ok := m.vocab.TokenToID(m.opts.UnkToken)
	if !ok {
		return nil
	}
	span := pre.Span
	return []api.Token{{ID: id, Text: m.opts.UnkToken, Span: &span}}
}
