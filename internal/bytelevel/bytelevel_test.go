package bytelevel

import "testing"

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"hello world",
		"café",
		"\x00\x01\xff",
		"tabs\tand\nnewlines",
	}
	for _, in := range inputs {
		enc := Encode(in)
		if got := Decode(enc); got != in {
			t.Errorf("Decode(Encode(%q)) = %q", in, got)
		}
	}
}

func TestEncodeOneRunePerByte(t *testing.T) {
	in := "café \x00"
	enc := []rune(Encode(in))
	if len(enc) != len(in) {
		t.Errorf("Encode produced %d runes for %d bytes", len(enc), len(in))
	}
}

func TestSpaceMapsToVisibleRune(t *testing.T) {
	if EncodeByte(' ') != 'Ġ' {
		t.Errorf("EncodeByte(' ') = %q, want Ġ", EncodeByte(' '))
	}
}
