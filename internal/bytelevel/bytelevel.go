// Package bytelevel implements the reversible byte-to-unicode remapping used
// by byte-level BPE families (GPT-2, RoBERTa). Every byte maps to exactly
// one printable rune, so any byte sequence is representable as vocabulary
// symbols and the mapping can be inverted losslessly.
package bytelevel

var (
	byteToRune [256]rune
	runeToByte map[rune]byte
)

func init() {
	runeToByte = make(map[rune]byte, 256)
	n := 0
	for b := 0; b < 256; b++ {
		if (b >= '!' && b <= '~') || (b >= 0xa1 && b <= 0xac) || (b >= 0xae && b <= 0xff) {
			byteToRune[b] = rune(b)
		} else {
			byteToRune[b] = rune(256 + n)
			n++
		}
		runeToByte[byteToRune[b]] = byte(b)
	}
}

// EncodeByte returns the printable rune standing for one byte.
func EncodeByte(b byte) rune {
	return byteToRune[b]
}

// Encode remaps every byte of s to its printable rune. The result has
// exactly one rune per input byte.
func Encode(s string) string {
	out := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = byteToRune[s[i]]
	}
	return string(out)
}

// Decode inverts Encode. Runes outside the mapping pass through as their
// UTF-8 bytes, so decoding never fails.
func Decode(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if b, ok := runeToByte[r]; ok {
			out = append(out, b)
		} else {
			out = append(out, []byte(string(r))...)
		}
	}
	return string(out)
}
