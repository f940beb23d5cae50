// Package normalizer implements the text normalizers applied before
// pre-tokenization: Unicode forms, lowercasing, accent stripping and
// BERT-style text cleaning.
package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalizer rewrites raw text before pre-tokenization. Pre-token offsets
// are byte offsets into the normalizer's output; with a nil or identity
// normalizer they are offsets into the original input.
type Normalizer interface {
	Normalize(text string) string
}

// Lowercase lowercases the text.
type Lowercase struct{}

func (Lowercase) Normalize(text string) string { return strings.ToLower(text) }

// Form applies one of the Unicode normalization forms.
type Form struct{ Form norm.Form }

func (f Form) Normalize(text string) string { return f.Form.String(text) }

// NFC, NFD, NFKC and NFKD are the ready-made Unicode form normalizers.
var (
	NFC  = Form{norm.NFC}
	NFD  = Form{norm.NFD}
	NFKC = Form{norm.NFKC}
	NFKD = Form{norm.NFKD}
)

// StripAccents decomposes the text and removes nonspacing marks.
type StripAccents struct{}

func (StripAccents) Normalize(text string) string {
	return removeAccents(norm.NFD.String(text))
}

// Bert applies BERT-style text cleaning: drop control characters and
// replacement characters, fold whitespace to plain spaces, optionally
// lowercase and strip accents.
type Bert struct {
	Lowercase    bool
	StripAccents bool
}

func (n Bert) Normalize(text string) string {
	result := cleanText(text)
	if n.Lowercase {
		result = strings.ToLower(result)
	}
	if n.StripAccents {
		result = removeAccents(norm.NFD.String(result))
	}
	return result
}

// Sequence applies normalizers in order.
type Sequence []Normalizer

func (s Sequence) Normalize(text string) string {
	for _, n := range s {
		text = n.Normalize(text)
	}
	return text
}

func cleanText(text string) string {
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == 0 || r == 0xFFFD || isControl(r) {
			continue
		}
		if isWhitespace(r) {
			result.WriteRune(' ')
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

func removeAccents(text string) string {
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if !unicode.Is(unicode.Mn, r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

func isWhitespace(r rune) bool {
	if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func isControl(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return unicode.IsControl(r)
}
