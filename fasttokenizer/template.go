package fasttokenizer

import (
	"github.com/pkg/errors"

	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/encoding"
	"github.com/gomlx/go-tokenizers/vocab"
)

// Sentinel is one bound special token used by an assembly template.
type Sentinel struct {
	ID   int
	Text string
}

// Template assembles one or two encoded segments into the final sequence,
// inserting the family's sentinel tokens, assigning per-segment type ids and
// flagging sentinel positions in the special tokens mask.
//
// NumAddedTokens must be consistent with what Assemble actually inserts for
// the same arity.
type Template interface {
	Assemble(a, b []api.Token) *encoding.Encoding
	BuildInputsWithSpecialTokens(ids, pairIDs []int) []int
	NumAddedTokens(pair bool) int
}

// BertTemplate assembles [CLS] A [SEP] and [CLS] A [SEP] B [SEP], with
// type id 1 on the second segment and its closing separator.
type BertTemplate struct {
	Cls Sentinel
	Sep Sentinel
}

// NewBertTemplate resolves the classification and separator sentinels from
// the vocabulary's bound slots.
func NewBertTemplate(v *vocab.Vocabulary) (*BertTemplate, error) {
	cls, err := slotSentinel(v, vocab.SlotCls)
	if err != nil {
		return nil, err
	}
	sep, err := slotSentinel(v, vocab.SlotSep)
	if err != nil {
		return nil, err
	}
	return &BertTemplate{Cls: cls, Sep: sep}, nil
}

func (t *BertTemplate) Assemble(a, b []api.Token) *encoding.Encoding {
	e := encoding.New(len(a) + len(b) + 3)
	e.AppendSentinel(t.Cls.ID, t.Cls.Text, 0)
	e.AppendTokens(a, 0)
	e.AppendSentinel(t.Sep.ID, t.Sep.Text, 0)
	if b != nil {
		e.AppendTokens(b, 1)
		e.AppendSentinel(t.Sep.ID, t.Sep.Text, 1)
	}
	return e
}

func (t *BertTemplate) BuildInputsWithSpecialTokens(ids, pairIDs []int) []int {
	out := make([]int, 0, len(ids)+len(pairIDs)+3)
	out = append(out, t.Cls.ID)
	out = append(out, ids...)
	out = append(out, t.Sep.ID)
	if pairIDs != nil {
		out = append(out, pairIDs...)
		out = append(out, t.Sep.ID)
	}
	return out
}

func (t *BertTemplate) NumAddedTokens(pair bool) int {
	if pair {
		return 3
	}
	return 2
}

// RobertaTemplate assembles <s> A </s> and <s> A </s></s> B </s>. RoBERTa
// does not use segment embeddings, so every type id is 0.
type RobertaTemplate struct {
	Bos Sentinel
	Eos Sentinel
}

// NewRobertaTemplate resolves the sequence-start and sequence-end sentinels
// from the vocabulary's bound slots.
func NewRobertaTemplate(v *vocab.Vocabulary) (*RobertaTemplate, error) {
	bos, err := slotSentinel(v, vocab.SlotBos)
	if err != nil {
		return nil, err
	}
	eos, err := slotSentinel(v, vocab.SlotEos)
	if err != nil {
		return nil, err
	}
	return &RobertaTemplate{Bos: bos, Eos: eos}, nil
}

func (t *RobertaTemplate) Assemble(a, b []api.Token) *encoding.Encoding {
	e := encoding.New(len(a) + len(b) + 4)
	e.AppendSentinel(t.Bos.ID, t.Bos.Text, 0)
	e.AppendTokens(a, 0)
	e.AppendSentinel(t.Eos.ID, t.Eos.Text, 0)
	if b != nil {
		e.AppendSentinel(t.Eos.ID, t.Eos.Text, 0)
		e.AppendTokens(b, 0)
		e.AppendSentinel(t.Eos.ID, t.Eos.Text, 0)
	}
	return e
}

func (t *RobertaTemplate) BuildInputsWithSpecialTokens(ids, pairIDs []int) []int {
	out := make([]int, 0, len(ids)+len(pairIDs)+4)
	out = append(out, t.Bos.ID)
	out = append(out, ids...)
	out = append(out, t.Eos.ID)
	if pairIDs != nil {
		out = append(out, t.Eos.ID)
		out = append(out, pairIDs...)
		out = append(out, t.Eos.ID)
	}
	return out
}

func (t *RobertaTemplate) NumAddedTokens(pair bool) int {
	if pair {
		return 4
	}
	return 2
}

// NullTemplate inserts no sentinels; GPT-2-style families assemble segments
// back to back, second segment under type id 1.
type NullTemplate struct{}

func (NullTemplate) Assemble(a, b []api.Token) *encoding.Encoding {
	e := encoding.New(len(a) + len(b))
	e.AppendTokens(a, 0)
	if b != nil {
		e.AppendTokens(b, 1)
	}
	return e
}

func (NullTemplate) BuildInputsWithSpecialTokens(ids, pairIDs []int) []int {
	out := make([]int, 0, len(ids)+len(pairIDs))
	out = append(out, ids...)
	out = append(out, pairIDs...)
	return out
}

func (NullTemplate) NumAddedTokens(bool) int { return 0 }

func slotSentinel(v *vocab.Vocabulary, slot vocab.Slot) (Sentinel, error) {
	token, ok := v.SlotToken(slot)
	if !ok {
		return Sentinel{}, errors.Wrapf(api.ErrConfiguration, "special token slot %q is not bound", slot)
	}
	id, ok := v.TokenToID(token)
	if !ok {
		return Sentinel{}, errors.Wrapf(api.ErrConfiguration,
			"special token %q bound to slot %q is not in the vocabulary", token, slot)
	}
	return Sentinel{ID: id, Text: token}, nil
}
