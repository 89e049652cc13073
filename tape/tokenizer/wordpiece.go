package tokenizer

import (
	"fmt"

	tk "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/model/wordpiece"
	"github.com/sugarme/tokenizer/normalizer"
	"github.com/sugarme/tokenizer/pretokenizer"
)

// WordPiece wraps sugarme/tokenizer WordPiece (BERT-style), for
// ProtBERT-like vocab.txt files where residues are space-separated
// words rather than a character alphabet.
type WordPiece struct {
	t *tk.Tokenizer
}

// NewWordPieceFromVocab loads vocab.txt and builds a BERT WordPiece tokenizer
func NewWordPieceFromVocab(vocabPath string) (*WordPiece, error) {
	wp, err := wordpiece.NewWordPieceFromFile(vocabPath, "[UNK]")
	if err != nil {
		return nil, fmt.Errorf("load wordpiece vocab %s: %w", vocabPath, err)
	}

	t := tk.NewTokenizer(wp)
	t.WithNormalizer(normalizer.NewBertNormalizer(true, true, true, true))
	t.WithPreTokenizer(pretokenizer.NewBertPreTokenizer())

	return &WordPiece{t: t}, nil
}

// GenTokenIDs encodes one sequence and returns its token ids.
func (w *WordPiece) GenTokenIDs(sequence string) ([]int64, error) {
	enc, err := w.t.Encode(tk.NewSingleEncodeInput(tk.NewInputSequence(sequence)), false)
	if err != nil {
		return nil, err
	}
	raw := enc.GetIds()
	ids := make([]int64, len(raw))
	for i, v := range raw {
		ids[i] = int64(v)
	}
	return ids, nil
}
