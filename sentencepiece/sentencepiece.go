// Package sentencepiece adapts a SentencePiece processor to the span-aware
// encode/decode surface of this module. The processor must already be
// loaded; pretrained-resource download and caching is a concern of the
// caller.
package sentencepiece

import (
	"strings"

	esentencepiece "github.com/eliben/go-sentencepiece"
	"github.com/pkg/errors"

	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/vocab"
)

// metaspace is the U+2581 marker SentencePiece uses for word-leading spaces.
const metaspace = "▁"

// Tokenizer wraps a loaded SentencePiece model.
type Tokenizer struct {
	*esentencepiece.Processor
	Info *esentencepiece.ModelInfo
}

// New wraps an already-loaded processor.
func New(proc *esentencepiece.Processor) *Tokenizer {
	return &Tokenizer{Processor: proc, Info: proc.ModelInfo()}
}

// NewFromFile loads a SentencePiece model proto from a local path.
func NewFromFile(path string) (*Tokenizer, error) {
	proc, err := esentencepiece.NewProcessorFromPath(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't load sentencepiece model %q", path)
	}
	return New(proc), nil
}

// Encode returns the text encoded into a sequence of ids.
func (p *Tokenizer) Encode(text string) []int {
	tokens := p.Processor.Encode(text)
	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		ids[i] = tok.ID
	}
	return ids
}

// EncodeWithSpans returns ids along with the byte span each piece covers in
// the input text.
func (p *Tokenizer) EncodeWithSpans(text string) ([]int, []api.TokenSpan) {
	tokens := p.Processor.Encode(text)
	ids := make([]int, len(tokens))
	pieces := make([]string, len(tokens))
	for i, tok := range tokens {
		ids[i] = tok.ID
		pieces[i] = tok.Text
	}
	return ids, alignSpans(text, pieces)
}

// alignSpans maps SentencePiece pieces back to byte spans in the original
// text. Pieces carry the metaspace marker for word-leading spaces, which
// the original text may or may not contain.
func alignSpans(text string, pieces []string) []api.TokenSpan {
	spans := make([]api.TokenSpan, len(pieces))
	pos := 0
	for i, piece := range pieces {
		match, hadSpace := strings.CutPrefix(piece, metaspace)
		if hadSpace {
			for pos < len(text) && isSpaceByte(text[pos]) {
				pos++
			}
		}
		if match == "" {
			// The piece is just the space marker.
			start := pos
			if hadSpace && start > 0 {
				start--
			}
			spans[i] = api.TokenSpan{Start: start, End: pos}
			continue
		}
		start := pos
		if at := strings.Index(text[pos:], match); at >= 0 {
			start = pos + at
			pos = start + len(match)
		} else {
			pos += len(match)
			if pos > len(text) {
				pos = len(text)
			}
		}
		spans[i] = api.TokenSpan{Start: start, End: pos}
	}
	return spans
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// Decode returns the text for a sequence of ids.
func (p *Tokenizer) Decode(ids []int) string {
	return p.Processor.Decode(ids)
}

// SpecialTokenID resolves a special-token slot against the model's own
// reserved ids.
func (p *Tokenizer) SpecialTokenID(slot vocab.Slot) (int, error) {
	switch slot {
	case vocab.SlotUnknown:
		return p.Info.UnknownID, nil
	case vocab.SlotPad:
		return p.Info.PadID, nil
	case vocab.SlotBos:
		return p.Info.BeginningOfSentenceID, nil
	case vocab.SlotEos:
		return p.Info.EndOfSentenceID, nil
	default:
		return 0, errors.Wrapf(api.ErrLookup, "slot %q has no sentencepiece reserved id", slot)
	}
}
