// Package fasttokenizer drives the full tokenization pipeline: normalize,
// pre-tokenize, subword-segment, assemble with sentinel tokens, truncate
// into overlapping overflow windows, pad, and batch-encode into rectangular
// records with attention masks.
package fasttokenizer

import (
	"github.com/pkg/errors"

	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/bpe"
	"github.com/gomlx/go-tokenizers/encoding"
	"github.com/gomlx/go-tokenizers/normalizer"
	"github.com/gomlx/go-tokenizers/pretokenizer"
	"github.com/gomlx/go-tokenizers/vocab"
	"github.com/gomlx/go-tokenizers/wordpiece"
)

// Tokenizer is the encode/decode pipeline over one vocabulary, one subword
// model and one assembly template. Per-input encoding is a pure function of
// (input, vocabulary state, options); concurrent encodes are safe, and
// vocabulary additions are serialized against them by the vocabulary.
type Tokenizer struct {
	vocab    *vocab.Vocabulary
	norm     normalizer.Normalizer // optional
	pretok   pretokenizer.PreTokenizer
	model    api.SubwordModel
	template Template
	decoder  Decoder
}

// Option customizes a Tokenizer at construction time.
type Option func(*Tokenizer)

// WithNormalizer sets the normalizer applied before pre-tokenization.
func WithNormalizer(n normalizer.Normalizer) Option {
	return func(t *Tokenizer) { t.norm = n }
}

// WithPreTokenizer sets the generic pre-tokenizer. Special and added tokens
// are always isolated before it runs.
func WithPreTokenizer(p pretokenizer.PreTokenizer) Option {
	return func(t *Tokenizer) { t.pretok = p }
}

// WithTemplate sets the special-token assembly template.
func WithTemplate(tmpl Template) Option {
	return func(t *Tokenizer) { t.template = tmpl }
}

// WithDecoder sets the family decoder used by Decode.
func WithDecoder(d Decoder) Option {
	return func(t *Tokenizer) { t.decoder = d }
}

// New creates a Tokenizer over an already-loaded vocabulary and a subword
// model. Defaults: whitespace pre-tokenization, no normalizer, no sentinel
// template, whitespace-joining decoder.
func New(v *vocab.Vocabulary, model api.SubwordModel, opts ...Option) *Tokenizer {
	t := &Tokenizer{
		vocab:    v,
		pretok:   pretokenizer.Whitespace{},
		model:    model,
		template: NullTemplate{},
		decoder:  SpaceJoinDecoder{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewBert creates a BERT-family tokenizer: BERT normalization and
// pre-splitting, WordPiece segmentation, [CLS]/[SEP] assembly and WordPiece
// decoding. The conventional special tokens are registered and bound.
func NewBert(v *vocab.Vocabulary, lowercase bool) (*Tokenizer, error) {
	_, err := v.AddSpecialTokens(map[string]any{
		string(vocab.SlotUnknown): "[UNK]",
		string(vocab.SlotCls):     "[CLS]",
		string(vocab.SlotSep):     "[SEP]",
		string(vocab.SlotPad):     "[PAD]",
		string(vocab.SlotMask):    "[MASK]",
	})
	if err != nil {
		return nil, err
	}
	tmpl, err := NewBertTemplate(v)
	if err != nil {
		return nil, err
	}
	return New(v, wordpiece.New(v, wordpiece.Options{}),
		WithNormalizer(normalizer.Bert{Lowercase: lowercase}),
		WithPreTokenizer(pretokenizer.Bert{}),
		WithTemplate(tmpl),
		WithDecoder(WordPieceDecoder{}),
	), nil
}

// NewByteLevelBPE creates a GPT-2-style tokenizer: byte-level
// pre-tokenization over the reversible byte mapping, priority-merge
// segmentation, no sentinels, byte-level decoding.
func NewByteLevelBPE(v *vocab.Vocabulary, merges []string, addPrefixSpace bool) *Tokenizer {
	return New(v, bpe.New(v, merges, bpe.Options{ByteLevel: true}),
		WithPreTokenizer(pretokenizer.ByteLevel{AddPrefixSpace: addPrefixSpace}),
		WithDecoder(ByteLevelDecoder{}),
	)
}

// Vocab returns the tokenizer's vocabulary.
func (t *Tokenizer) Vocab() *vocab.Vocabulary { return t.vocab }

// AddTokens grows the vocabulary; see vocab.Vocabulary.AddTokens. Additions
// are visible to subsequent encode calls.
func (t *Tokenizer) AddTokens(tokens []string) int {
	return t.vocab.AddTokens(tokens)
}

// AddSpecialTokens registers special tokens by slot; see
// vocab.Vocabulary.AddSpecialTokens.
func (t *Tokenizer) AddSpecialTokens(tokens map[string]any) (int, error) {
	return t.vocab.AddSpecialTokens(tokens)
}

// NumAddedTokens returns the fixed number of sentinel tokens the assembly
// template inserts for the given arity.
func (t *Tokenizer) NumAddedTokens(pair bool) int {
	return t.template.NumAddedTokens(pair)
}

// BuildInputsWithSpecialTokens inserts the template's sentinel ids around
// already-encoded id sequences.
func (t *Tokenizer) BuildInputsWithSpecialTokens(ids, pairIDs []int) []int {
	return t.template.BuildInputsWithSpecialTokens(ids, pairIDs)
}

// Tokenize returns the subword surface forms of text, without sentinels.
func (t *Tokenizer) Tokenize(text string) []string {
	tokens := t.segmentText(text)
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Text
	}
	return out
}

// normalizedPreTokenizer normalizes a chunk before generic splitting.
// Spans are byte offsets into the normalized chunk, exact against the
// original for length-preserving normalizers.
type normalizedPreTokenizer struct {
	norm  normalizer.Normalizer
	inner pretokenizer.PreTokenizer
}

func (n normalizedPreTokenizer) PreTokenize(text string) []api.PreToken {
	if n.norm != nil {
		text = n.norm.Normalize(text)
	}
	return n.inner.PreTokenize(text)
}

// splitter wraps the generic pre-tokenizer with verbatim isolation of the
// current special and added tokens. The special match runs on the raw text,
// before normalization, so bound tokens survive lowercasing untouched.
func (t *Tokenizer) splitter() pretokenizer.PreTokenizer {
	return pretokenizer.SplitSpecial{
		Inner: normalizedPreTokenizer{norm: t.norm, inner: t.pretok},
		Tokens: func() []string {
			atomic := t.vocab.SpecialTokens()
			return append(atomic, t.vocab.AddedTokens()...)
		},
	}
}

// segmentText runs the special split, normalization, pre-tokenization and
// subword segmentation, producing the content token sequence with spans.
func (t *Tokenizer) segmentText(text string) []api.Token {
	var tokens []api.Token
	for _, pre := range t.splitter().PreTokenize(text) {
		if pre.Special {
			if id, ok := t.vocab.TokenToID(pre.Text); ok {
				span := pre.Span
				tokens = append(tokens, api.Token{ID: id, Text: pre.Text, Span: &span})
				continue
			}
		}
		tokens = append(tokens, t.model.Segment(pre)...)
	}
	return tokens
}

// Encode runs the full pipeline on one input (or input pair; empty pair
// means none). The returned encoding's Overflowing field carries the rest
// of the overflow chain when the input exceeded MaxLength and
// ReturnOverflowingTokens was set.
func (t *Tokenizer) Encode(text, pair string, opts api.EncodeOptions) (*encoding.Encoding, error) {
	if err := t.validate(opts); err != nil {
		return nil, err
	}
	isPair := pair != ""

	segA := t.segmentText(text)
	var segB []api.Token
	if isPair {
		segB = t.segmentText(pair)
		if segB == nil {
			segB = []api.Token{}
		}
	}

	main, err := t.assembleWithTruncation(segA, segB, isPair, opts)
	if err != nil {
		return nil, err
	}

	if opts.Padding == api.PadMaxLength {
		pad, err := t.padSentinel()
		if err != nil {
			return nil, err
		}
		main.Pad(opts.MaxLength, pad.ID, pad.Text, opts.PaddingSide)
		for _, overflow := range main.Overflowing {
			overflow.Pad(opts.MaxLength, pad.ID, pad.Text, opts.PaddingSide)
		}
	}
	return main, nil
}

func (t *Tokenizer) validate(opts api.EncodeOptions) error {
	if opts.MaxLength > 0 && (opts.Stride < 0 || opts.Stride >= opts.MaxLength) {
		return errors.Wrapf(api.ErrConfiguration,
			"stride %d must satisfy 0 <= stride < max_length (%d)", opts.Stride, opts.MaxLength)
	}
	if opts.MaxLength == 0 {
		if opts.Padding == api.PadMaxLength {
			return errors.Wrapf(api.ErrConfiguration,
				"padding strategy %s requires max_length", opts.Padding)
		}
		if opts.ReturnOverflowingTokens {
			return errors.Wrapf(api.ErrTruncation,
				"overflowing tokens requested but max_length is unset")
		}
		if opts.Stride != 0 {
			return errors.Wrapf(api.ErrConfiguration, "stride %d requires max_length", opts.Stride)
		}
	}
	return nil
}

// assembleWithTruncation applies the truncation strategy and assembles the
// main encoding plus its overflow chain.
func (t *Tokenizer) assembleWithTruncation(segA, segB []api.Token, isPair bool, opts api.EncodeOptions) (*encoding.Encoding, error) {
	added := t.template.NumAddedTokens(isPair)
	total := len(segA) + len(segB) + added

	if opts.MaxLength == 0 || total <= opts.MaxLength || opts.Truncation == api.TruncateNone {
		return t.template.Assemble(segA, segB), nil
	}

	budget := opts.MaxLength - added
	if budget <= 0 {
		return nil, errors.Wrapf(api.ErrTruncation,
			"max_length %d leaves no room for sequence tokens after %d sentinel(s)", opts.MaxLength, added)
	}

	if !isPair {
		if opts.Truncation == api.TruncateOnlySecond {
			return nil, errors.Wrapf(api.ErrTruncation,
				"truncation strategy %s requires a second segment", opts.Truncation)
		}
		if !opts.ReturnOverflowingTokens {
			return t.template.Assemble(segA[:budget], nil), nil
		}
		return t.assembleWindows(segA, budget, opts.Stride)
	}

	keptA, keptB, overflow, err := encoding.TruncatePair(segA, segB, budget, opts.Stride, opts.Truncation)
	if err != nil {
		return nil, err
	}
	main := t.template.Assemble(keptA, keptB)
	if opts.ReturnOverflowingTokens && len(overflow) > 0 {
		windows, err := encoding.Windows(overflow, budget, opts.Stride)
		if err != nil {
			return nil, err
		}
		for _, w := range windows {
			main.Overflowing = append(main.Overflowing, t.template.Assemble(w, nil))
		}
	}
	return main, nil
}

// assembleWindows cuts a single segment into overlapping windows and runs
// each through the template, so every window carries correct sentinels,
// offsets and masks.
func (t *Tokenizer) assembleWindows(seg []api.Token, budget, stride int) (*encoding.Encoding, error) {
	windows, err := encoding.Windows(seg, budget, stride)
	if err != nil {
		return nil, err
	}
	main := t.template.Assemble(windows[0], nil)
	for _, w := range windows[1:] {
		main.Overflowing = append(main.Overflowing, t.template.Assemble(w, nil))
	}
	return main, nil
}

// padSentinel resolves the bound padding token.
func (t *Tokenizer) padSentinel() (Sentinel, error) {
	if s, err := slotSentinel(t.vocab, vocab.SlotPad); err == nil {
		return s, nil
	}
	return Sentinel{}, errors.Wrapf(api.ErrConfiguration, "padding requested but no pad token is bound")
}
