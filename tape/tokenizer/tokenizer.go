package tokenizer

import (
	"fmt"
)

// Tokenizer converts one raw biological sequence to model-ready token IDs
type Tokenizer interface {
	GenTokenIDs(sequence string) ([]int64, error)
}

// Vocabulary exposes the id space a masking transform needs: which ids
// are special (never masked), which id stands for the mask token, and
// how many ids exist for random replacement draws.
type Vocabulary interface {
	VocabSize() int
	MaskID() int64
	IsSpecial(id int64) bool
}

// ErrUnsupportedChar indicates the input contained a character the
// tokenizer has no token for
var ErrUnsupportedChar = fmt.Errorf("unsupported character in sequence")
