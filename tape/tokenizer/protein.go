package tokenizer

import (
	"fmt"
)

// Special token ids shared by every protein vocabulary layout.
const (
	PadID   int64 = 0
	MaskID  int64 = 1
	ClsID   int64 = 2
	SepID   int64 = 3
	UnkID   int64 = 4
	numSpec int64 = 5
)

// residueOrder fixes the id assignment for the 25 residue symbols
// (standard amino acids plus the ambiguity codes B O U X Z, no J).
const residueOrder = "ABCDEFGHIKLMNOPQRSTUVWXYZ"

// ProteinTokenizer maps amino-acid sequences onto a fixed character
// vocabulary: five special tokens followed by one id per residue symbol.
// GenTokenIDs brackets each sequence with <cls> and <sep>.
type ProteinTokenizer struct {
	vocab  map[rune]int64
	strict bool
}

// NewProteinTokenizer builds the fixed amino-acid tokenizer. Unknown
// residues map to <unk>; with strict set they fail instead.
func NewProteinTokenizer(strict bool) *ProteinTokenizer {
	vocab := make(map[rune]int64, len(residueOrder))
	for i, r := range residueOrder {
		vocab[r] = numSpec + int64(i)
	}
	return &ProteinTokenizer{vocab: vocab, strict: strict}
}

// GenTokenIDs tokenizes one sequence character-wise and wraps it in the
// <cls>/<sep> markers the pretraining archives use.
func (t *ProteinTokenizer) GenTokenIDs(sequence string) ([]int64, error) {
	ids := make([]int64, 0, len(sequence)+2)
	ids = append(ids, ClsID)
	for _, r := range sequence {
		id, ok := t.vocab[r]
		if !ok {
			if t.strict {
				return nil, fmt.Errorf("%w: %q", ErrUnsupportedChar, r)
			}
			id = UnkID
		}
		ids = append(ids, id)
	}
	ids = append(ids, SepID)
	return ids, nil
}

// VocabSize returns the total id count, special tokens included.
func (t *ProteinTokenizer) VocabSize() int { return int(numSpec) + len(t.vocab) }

// MaskID returns the id of the <mask> token.
func (t *ProteinTokenizer) MaskID() int64 { return MaskID }

// IsSpecial reports whether id belongs to the reserved token range.
func (t *ProteinTokenizer) IsSpecial(id int64) bool { return id < numSpec }
