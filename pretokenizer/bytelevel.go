package pretokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/internal/bytelevel"
)

// ByteLevel pre-tokenizes the way byte-level BPE families (GPT-2, RoBERTa)
// do: words keep at most one leading space, contractions split off, and the
// emitted Text is the byte-to-unicode remapped form of the covered span.
// Each remapped rune stands for exactly one original byte, except for the
// synthesized prefix space when AddPrefixSpace is set.
type ByteLevel struct {
	// AddPrefixSpace prepends a space to the first word when the text does
	// not start with one, so the first word tokenizes like any other.
	AddPrefixSpace bool
}

func (b ByteLevel) PreTokenize(text string) []api.PreToken {
	var out []api.PreToken
	synth := b.AddPrefixSpace && text != "" && !unicode.IsSpace(firstRune(text))
	emit := func(start, end int) {
		enc := bytelevel.Encode(text[start:end])
		if synth && start == 0 {
			enc = string(bytelevel.EncodeByte(' ')) + enc
		}
		out = append(out, api.PreToken{
			Text: enc,
			Span: api.TokenSpan{Start: start, End: end},
		})
	}

	i := 0
	for i < len(text) {
		start := i
		r, w := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			j := i + w
			for j < len(text) {
				r2, w2 := utf8.DecodeRuneInString(text[j:])
				if !unicode.IsSpace(r2) {
					break
				}
				j += w2
			}
			if j == len(text) {
				// Trailing whitespace is its own span.
				emit(i, j)
				break
			}
			// The last whitespace rune attaches to the following word.
			_, lw := utf8.DecodeLastRuneInString(text[:j])
			if j-lw > i {
				emit(i, j-lw)
			}
			start = j - lw
			i = j
			r, w = utf8.DecodeRuneInString(text[i:])
		}
		if r == '\'' && start == i {
			if n := contractionLen(text[i+w:]); n > 0 {
				emit(start, i+w+n)
				i += w + n
				continue
			}
		}
		i += w
		i = scanCategory(text, i, runeCategory(r))
		emit(start, i)
	}
	return out
}

type byteLevelCategory int

const (
	catLetter byteLevelCategory = iota
	catNumber
	catOther
)

func runeCategory(r rune) byteLevelCategory {
	switch {
	case unicode.IsLetter(r):
		return catLetter
	case unicode.IsNumber(r):
		return catNumber
	default:
		return catOther
	}
}

// scanCategory advances past the run of runes sharing cat, starting at i.
func scanCategory(text string, i int, cat byteLevelCategory) int {
	for i < len(text) {
		r, w := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) || runeCategory(r) != cat {
			break
		}
		i += w
	}
	return i
}

// contractionLen returns the byte length of an English contraction suffix
// ("s", "t", "re", "ve", "m", "ll", "d") at the start of rest, or 0.
func contractionLen(rest string) int {
	for _, suffix := range []string{"re", "ve", "ll", "s", "t", "m", "d"} {
		if strings.HasPrefix(rest, suffix) {
			return len(suffix)
		}
	}
	return 0
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}
