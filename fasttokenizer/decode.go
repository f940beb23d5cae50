package fasttokenizer

import (
	"strings"

	"github.com/gomlx/go-tokenizers/internal/bytelevel"
)

// Decoder joins token surface forms back into text, undoing the family's
// subword marking. Decoding is lossy at unknown-token positions.
type Decoder interface {
	Decode(tokens []string) string
}

// SpaceJoinDecoder joins tokens with single spaces.
type SpaceJoinDecoder struct{}

func (SpaceJoinDecoder) Decode(tokens []string) string {
	return strings.Join(tokens, " ")
}

// WordPieceDecoder joins tokens with spaces and fuses continuation pieces
// onto their predecessor.
type WordPieceDecoder struct {
	// Prefix marks continuation pieces. Default "##".
	Prefix string
}

func (d WordPieceDecoder) Decode(tokens []string) string {
	prefix := d.Prefix
	if prefix == "" {
		prefix = "##"
	}
	var result strings.Builder
	for i, token := range tokens {
		if rest, ok := strings.CutPrefix(token, prefix); ok {
			result.WriteString(rest)
			continue
		}
		if i > 0 {
			result.WriteString(" ")
		}
		result.WriteString(token)
	}
	return result.String()
}

// ByteLevelDecoder concatenates tokens and inverts the byte-to-unicode
// remapping.
type ByteLevelDecoder struct{}

func (ByteLevelDecoder) Decode(tokens []string) string {
	return bytelevel.Decode(strings.Join(tokens, ""))
}

// Decode converts ids back to text. Ids that were never issued fail with
// api.ErrLookup. With skipSpecialTokens, registered special tokens are
// dropped before joining.
func (t *Tokenizer) Decode(ids []int, skipSpecialTokens bool) (string, error) {
	tokens := make([]string, 0, len(ids))
	for _, id := range ids {
		token, err := t.vocab.IDToToken(id)
		if err != nil {
			return "", err
		}
		if skipSpecialTokens && t.vocab.IsSpecial(token) {
			continue
		}
		tokens = append(tokens, token)
	}
	return t.decoder.Decode(tokens), nil
}
