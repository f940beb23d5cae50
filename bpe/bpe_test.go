package bpe

import (
	"testing"

	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/internal/bytelevel"
	"github.com/gomlx/go-tokenizers/vocab"
)

func pre(text string, start int) api.PreToken {
	return api.PreToken{
		Text: text,
		Span: api.TokenSpan{Start: start, End: start + len(text)},
	}
}

func ids(tokens []api.Token) []int {
	out := make([]int, len(tokens))
	for i, t := range tokens {
		out[i] = t.ID
	}
	return out
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSegment_MergeOrder(t *testing.T) {
	v := vocab.New(map[string]int{
		"h": 0, "e": 1, "l": 2, "o": 3, "z": 4,
		"he": 5, "lo": 6, "helo": 7,
	})
	m := New(v, []string{
		FormatMerge("h", "e"),
		FormatMerge("l", "o"),
		FormatMerge("he", "lo"),
	}, Options{})

	// Partial merges stop when no rule applies.
	got := m.Segment(pre("heloz", 0))
	if !intSliceEqual(ids(got), []int{7, 4}) {
		t.Errorf("Segment(heloz) = %v, want [7 4]", ids(got))
	}
}

func TestSegment_LeftmostTieBreak(t *testing.T) {
	v := vocab.New(map[string]int{"a": 0, "b": 1, "ab": 2})
	m := New(v, []string{FormatMerge("a", "b")}, Options{})

	got := m.Segment(pre("abab", 0))
	if !intSliceEqual(ids(got), []int{2, 2}) {
		t.Fatalf("Segment(abab) = %v, want [2 2]", ids(got))
	}
	if got[0].Span.End != 2 || got[1].Span.Start != 2 {
		t.Errorf("spans = %+v, %+v, want [0,2) [2,4)", *got[0].Span, *got[1].Span)
	}
}

func TestSegment_WholeWordInVocab(t *testing.T) {
	v := vocab.New(map[string]int{"hello": 9})
	m := New(v, nil, Options{})
	got := m.Segment(pre("hello", 3))
	if len(got) != 1 || got[0].ID != 9 {
		t.Fatalf("Segment(hello) = %v, want [9]", ids(got))
	}
	if got[0].Span.Start != 3 || got[0].Span.End != 8 {
		t.Errorf("span = %+v, want [3,8)", *got[0].Span)
	}
}

func TestSegment_UnknownSymbols(t *testing.T) {
	v := vocab.New(map[string]int{"<unk>": 0, "a": 1})
	m := New(v, nil, Options{UnkToken: "<unk>"})
	got := m.Segment(pre("aq", 0))
	if !intSliceEqual(ids(got), []int{1, 0}) {
		t.Errorf("Segment(aq) = %v, want [1 0]", ids(got))
	}

	// Without an unknown token, unresolvable symbols are dropped.
	m = New(v, nil, Options{})
	got = m.Segment(pre("aq", 0))
	if !intSliceEqual(ids(got), []int{1}) {
		t.Errorf("Segment(aq) without unk = %v, want [1]", ids(got))
	}
}

func TestSegment_SpansPartitionPreToken(t *testing.T) {
	v := vocab.New(map[string]int{"a": 0, "b": 1, "ab": 2, "c": 3})
	m := New(v, []string{FormatMerge("a", "b")}, Options{})
	p := pre("abc", 7)
	got := m.Segment(p)
	pos := p.Span.Start
	for i, tok := range got {
		if tok.Span.Start != pos {
			t.Errorf("token %d starts at %d, want %d", i, tok.Span.Start, pos)
		}
		pos = tok.Span.End
	}
	if pos != p.Span.End {
		t.Errorf("spans end at %d, want %d", pos, p.Span.End)
	}
}

func TestSegment_ByteLevel(t *testing.T) {
	// " world" remapped: the leading space becomes the visible rune.
	remapped := bytelevel.Encode(" world")
	v := vocab.New(map[string]int{
		remapped: 10, "a": 11,
	})
	m := New(v, nil, Options{ByteLevel: true})

	p := api.PreToken{Text: remapped, Span: api.TokenSpan{Start: 5, End: 11}}
	got := m.Segment(p)
	if len(got) != 1 || got[0].ID != 10 {
		t.Fatalf("Segment = %v, want [10]", ids(got))
	}
	if got[0].Span.Start != 5 || got[0].Span.End != 11 {
		t.Errorf("span = %+v, want [5,11)", *got[0].Span)
	}
}

func TestSegment_ByteLevel_SynthesizedPrefix(t *testing.T) {
	// Pre-token carries a synthesized prefix space: 6 runes over a 5-byte
	// span. The prefix gets zero width so spans still partition the span.
	text := string(bytelevel.EncodeByte(' ')) + bytelevel.Encode("hello")
	v := vocab.New(map[string]int{
		string(bytelevel.EncodeByte(' ')): 0,
		"hello":                           1,
		"h":                               2, "e": 3, "l": 4, "o": 5,
	})
	m := New(v, []string{
		FormatMerge("h", "e"),
		FormatMerge("he", "l"),
		FormatMerge("hel", "l"),
		FormatMerge("hell", "o"),
	}, Options{ByteLevel: true})

	p := api.PreToken{Text: text, Span: api.TokenSpan{Start: 0, End: 5}}
	got := m.Segment(p)
	if len(got) != 2 {
		t.Fatalf("Segment produced %d tokens, want 2", len(got))
	}
	if got[0].Span.Start != 0 || got[0].Span.End != 0 {
		t.Errorf("synthesized prefix span = %+v, want zero-width [0,0)", *got[0].Span)
	}
	if got[1].Span.Start != 0 || got[1].Span.End != 5 {
		t.Errorf("word span = %+v, want [0,5)", *got[1].Span)
	}
}

func TestSegment_Deterministic(t *testing.T) {
	v := vocab.New(map[string]int{"a": 0, "b": 1, "ab": 2, "ba": 3})
	m := New(v, []string{FormatMerge("a", "b"), FormatMerge("b", "a")}, Options{})
	first := ids(m.Segment(pre("ababab", 0)))
	for i := 0; i < 10; i++ {
		if got := ids(m.Segment(pre("ababab", 0))); !intSliceEqual(got, first) {
			t.Fatalf("run %d produced %v, first run produced %v", i, got, first)
		}
	}
}
