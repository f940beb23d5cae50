// Package pretokenizer splits normalized text into word-like spans with
// exact byte offsets, ready for subword segmentation. It also provides the
// normalizers applied before splitting and the verbatim isolation of
// special/added tokens so they are never subdivided.
package pretokenizer

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gomlx/go-tokenizers/api"
)

func isWhitespace(r rune) bool {
	if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func isPunctuation(r rune) bool {
	if (r >= 33 && r <= 47) || (r >= 58 && r <= 64) ||
		(r >= 91 && r <= 96) || (r >= 123 && r <= 126) {
		return true
	}
	return unicode.IsPunct(r)
}

// PreTokenizer splits text into an ordered sequence of word-like spans.
// Spans are byte offsets into the given text and never overlap.
type PreTokenizer interface {
	PreTokenize(text string) []api.PreToken
}

// Whitespace splits on runs of Unicode whitespace.
type Whitespace struct{}

func (Whitespace) PreTokenize(text string) []api.PreToken {
	var out []api.PreToken
	start := -1
	for i, r := range text {
		if isWhitespace(r) {
			if start >= 0 {
				out = append(out, api.PreToken{
					Text: text[start:i],
					Span: api.TokenSpan{Start: start, End: i},
				})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, api.PreToken{
			Text: text[start:],
			Span: api.TokenSpan{Start: start, End: len(text)},
		})
	}
	return out
}

// Bert splits on whitespace and isolates every punctuation rune as its own
// span, the way BERT-family tokenizers pre-split.
type Bert struct{}

func (Bert) PreTokenize(text string) []api.PreToken {
	var out []api.PreToken
	start := -1
	flush := func(end int) {
		if start >= 0 {
			out = append(out, api.PreToken{
				Text: text[start:end],
				Span: api.TokenSpan{Start: start, End: end},
			})
			start = -1
		}
	}
	for i, r := range text {
		switch {
		case isWhitespace(r):
			flush(i)
		case isPunctuation(r):
			flush(i)
			end := i + utf8.RuneLen(r)
			out = append(out, api.PreToken{
				Text: text[i:end],
				Span: api.TokenSpan{Start: i, End: end},
			})
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(text))
	return out
}

// SplitSpecial wraps a generic pre-tokenizer with verbatim special-token
// isolation: occurrences of any of the given token contents are matched
// longest-first and emitted as atomic spans, and the inner pre-tokenizer
// only runs on the gaps between matches.
type SplitSpecial struct {
	Inner PreTokenizer
	// Tokens returns the current atomic token contents. It is called once
	// per PreTokenize so dynamically added tokens are honored.
	Tokens func() []string
}

func (s SplitSpecial) PreTokenize(text string) []api.PreToken {
	tokens := s.Tokens()
	if len(tokens) == 0 {
		return s.Inner.PreTokenize(text)
	}
	// Longest first so overlapping contents match greedily.
	sorted := make([]string, len(tokens))
	copy(sorted, tokens)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	var out []api.PreToken
	gapStart := 0
	flushGap := func(end int) {
		if end <= gapStart {
			return
		}
		for _, pre := range s.Inner.PreTokenize(text[gapStart:end]) {
			pre.Span.Start += gapStart
			pre.Span.End += gapStart
			out = append(out, pre)
		}
	}
	i := 0
	for i < len(text) {
		matched := ""
		for _, token := range sorted {
			if strings.HasPrefix(text[i:], token) {
				matched = token
				break
			}
		}
		if matched == "" {
			i++
			continue
		}
		flushGap(i)
		out = append(out, api.PreToken{
			Text:    matched,
			Span:    api.TokenSpan{Start: i, End: i + len(matched)},
			Special: true,
		})
		i += len(matched)
		gapStart = i
	}
	flushGap(len(text))
	return out
}
