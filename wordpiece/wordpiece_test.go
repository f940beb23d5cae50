package wordpiece

import (
	"testing"

	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/vocab"
)

func newTestModel() *Model {
	v := vocab.New(map[string]int{
		"[UNK]":     0,
		"hello":     1,
		"world":     2,
		"test":      3,
		"##ing":     4,
		"##ed":      5,
		"##s":       6,
		"un":        7,
		"##affable": 8,
	})
	return New(v, Options{})
}

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

func TestSegment(t *testing.T) {
	m := newTestModel()
	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{"word in vocab", "hello", []int{1}},
		{"word with continuation", "testing", []int{3, 4}},
		{"two continuations", "tests", []int{3, 6}},
		{"prefix plus continuation", "unaffable", []int{7, 8}},
		{"unknown word", "xyzzy", []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Segment(pre(tt.input, 0))
			if !intSliceEqual(ids(got), tt.want) {
				t.Errorf("Segment(%q) = %v, want %v", tt.input, ids(got), tt.want)
			}
		})
	}
}

func TestSegment_SpansPartitionPreToken(t *testing.T) {
	m := newTestModel()
	p := pre("testing", 10)
	got := m.Segment(p)
	if len(got) != 2 {
		t.Fatalf("Segment produced %d tokens, want 2", len(got))
	}
	if got[0].Span.Start != 10 || got[0].Span.End != 14 {
		t.Errorf("first span = %+v, want [10,14)", *got[0].Span)
	}
	if got[1].Span.Start != 14 || got[1].Span.End != 17 {
		t.Errorf("second span = %+v, want [14,17)", *got[1].Span)
	}
}

func TestSegment_UnknownCoversWholeSpan(t *testing.T) {
	m := newTestModel()
	p := pre("qqq", 5)
	got := m.Segment(p)
	if len(got) != 1 {
		t.Fatalf("Segment produced %d tokens, want 1", len(got))
	}
	if got[0].Span.Start != 5 || got[0].Span.End != 8 {
		t.Errorf("unknown span = %+v, want [5,8)", *got[0].Span)
	}
	// A partially matchable word with an unmatchable tail also collapses to
	// the unknown token.
	got = m.Segment(pre("helloqqq", 0))
	if len(got) != 1 || got[0].ID != 0 {
		t.Errorf("Segment(helloqqq) = %v, want single unknown", ids(got))
	}
}

func TestSegment_TooLongWord(t *testing.T) {
	v := vocab.New(map[string]int{"[UNK]": 0, "a": 1})
	m := New(v, Options{MaxInputCharsPerWord: 4})
	got := m.Segment(pre("aaaaa", 0))
	if len(got) != 1 || got[0].ID != 0 {
		t.Errorf("Segment(too long) = %v, want single unknown", ids(got))
	}
}

func TestSegment_Deterministic(t *testing.T) {
	m := newTestModel()
	first := ids(m.Segment(pre("unaffable", 0)))
	for i := 0; i < 10; i++ {
		if got := ids(m.Segment(pre("unaffable", 0))); !intSliceEqual(got, first) {
			t.Fatalf("run %d produced %v, first run produced %v", i, got, first)
		}
	}
}

func TestSegment_DynamicVocabGrowth(t *testing.T) {
	v := vocab.New(map[string]int{"[UNK]": 0})
	m := New(v, Options{})
	if got := m.Segment(pre("brandnew", 0)); len(got) != 1 || got[0].ID != 0 {
		t.Fatalf("before addition: %v, want unknown", ids(got))
	}
	v.AddTokens([]string{"brandnew"})
	got := m.Segment(pre("brandnew", 0))
	if len(got) != 1 || got[0].ID == 0 {
		t.Errorf("after addition: %v, want the added token id", ids(got))
	}
}
