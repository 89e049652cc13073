package tokenizer

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/armon/go-radix"
)

// VocabTokenizer tokenizes against a vocabulary file (one token per
// line, id = line number) by greedy longest-match over a patricia tree.
// Multi-character tokens (k-mers, special markers) are matched before
// shorter prefixes, so a vocab carrying "AAA" wins over "AA" and "A".
type VocabTokenizer struct {
	tree *radix.Tree
	size int
}

// NewVocabTokenizerFromFile loads a token-per-line vocabulary.
func NewVocabTokenizerFromFile(path string) (*VocabTokenizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocab %s: %w", path, err)
	}
	defer f.Close()

	tree := radix.New()
	var id int64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		tok := strings.TrimSpace(scanner.Text())
		if tok == "" {
			continue
		}
		tree.Insert(tok, id)
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan vocab %s: %w", path, err)
	}
	return &VocabTokenizer{tree: tree, size: int(id)}, nil
}

// GenTokenIDs walks the sequence consuming the longest vocabulary entry
// at every position. A position matching no entry at all is an error,
// propagated unchanged to the caller.
func (t *VocabTokenizer) GenTokenIDs(sequence string) ([]int64, error) {
	ids := make([]int64, 0, len(sequence))
	rest := sequence
	for len(rest) > 0 {
		match, v, ok := t.tree.LongestPrefix(rest)
		if !ok || match == "" {
			return nil, fmt.Errorf("%w: %q at offset %d", ErrUnsupportedChar,
				rest[0], len(sequence)-len(rest))
		}
		ids = append(ids, v.(int64))
		rest = rest[len(match):]
	}
	return ids, nil
}

// VocabSize returns the number of vocabulary entries.
func (t *VocabTokenizer) VocabSize() int { return t.size }
