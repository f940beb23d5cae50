package fasttokenizer

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/vocab"
)

func makeSegment(ids ...int) []api.Token {
	tokens := make([]api.Token, len(ids))
	for i, id := range ids {
		tokens[i] = api.Token{
			ID:   id,
			Text: "x",
			Span: &api.TokenSpan{Start: i, End: i + 1},
		}
	}
	return tokens
}

func TestBertTemplateAssemble(t *testing.T) {
	tmpl := &BertTemplate{
		Cls: Sentinel{ID: 101, Text: "[CLS]"},
		Sep: Sentinel{ID: 102, Text: "[SEP]"},
	}

	single := tmpl.Assemble(makeSegment(7, 8), nil)
	assert.Equal(t, []int{101, 7, 8, 102}, single.IDs)
	assert.Equal(t, []int{0, 0, 0, 0}, single.TypeIDs)
	assert.Equal(t, []int{1, 0, 0, 1}, single.SpecialTokensMask)
	assert.Equal(t, 2, tmpl.NumAddedTokens(false))

	pair := tmpl.Assemble(makeSegment(7, 8), makeSegment(9))
	assert.Equal(t, []int{101, 7, 8, 102, 9, 102}, pair.IDs)
	assert.Equal(t, []int{0, 0, 0, 0, 1, 1}, pair.TypeIDs)
	assert.Equal(t, 3, tmpl.NumAddedTokens(true))
	assert.Equal(t, pair.NumSpecialTokens(), tmpl.NumAddedTokens(true))
}

func TestRobertaTemplateAssemble(t *testing.T) {
	v := vocab.New(map[string]int{"<s>": 0, "</s>": 2, "x": 5, "y": 6})
	_, err := v.AddSpecialTokens(map[string]any{
		string(vocab.SlotBos): "<s>",
		string(vocab.SlotEos): "</s>",
	})
	require.NoError(t, err)

	tmpl, err := NewRobertaTemplate(v)
	require.NoError(t, err)

	single := tmpl.Assemble(makeSegment(5), nil)
	assert.Equal(t, []int{0, 5, 2}, single.IDs)

	pair := tmpl.Assemble(makeSegment(5), makeSegment(6))
	assert.Equal(t, []int{0, 5, 2, 2, 6, 2}, pair.IDs)
	// RoBERTa carries no segment embeddings.
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0}, pair.TypeIDs)
	assert.Equal(t, 2, tmpl.NumAddedTokens(false))
	assert.Equal(t, 4, tmpl.NumAddedTokens(true))

	assert.Equal(t, []int{0, 5, 2, 2, 6, 2}, tmpl.BuildInputsWithSpecialTokens([]int{5}, []int{6}))
}

func TestNullTemplateAssemble(t *testing.T) {
	tmpl := NullTemplate{}

	pair := tmpl.Assemble(makeSegment(1, 2), makeSegment(3))
	assert.Equal(t, []int{1, 2, 3}, pair.IDs)
	assert.Equal(t, []int{0, 0, 1}, pair.TypeIDs)
	assert.Equal(t, 0, pair.NumSpecialTokens())
	assert.Equal(t, 0, tmpl.NumAddedTokens(true))

	assert.Equal(t, []int{1, 2, 3}, tmpl.BuildInputsWithSpecialTokens([]int{1, 2}, []int{3}))
}

func TestNewBertTemplateRequiresBoundSlots(t *testing.T) {
	v := vocab.New(map[string]int{"x": 0})

	_, err := NewBertTemplate(v)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, api.ErrConfiguration), "got %v", err)
}
