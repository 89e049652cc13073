package masking

import (
	"log/slog"
	"time"

	internal "github.com/GT-AcerZhang/helix-linear-wheel/tape"
	"github.com/GT-AcerZhang/helix-linear-wheel/tape/tokenizer"

	"github.com/RoaringBitmap/roaring"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultMaskProb is the fraction of maskable positions selected for
// prediction during pretraining.
const DefaultMaskProb = 0.15

// Masker applies BERT-style masking to a flat token-id buffer: each
// non-special position is selected with probability Prob; of the
// selected positions 80% are replaced by <mask>, 10% by a random
// non-special token, and 10% left unchanged. The returned label buffer
// carries the original id at selected positions and the ignore sentinel
// everywhere else.
type Masker struct {
	vocab tokenizer.Vocabulary
	sel   distuv.Bernoulli
	rnd   *rand.Rand
}

// Option configures a Masker.
type Option func(*options)

type options struct {
	prob float64
	seed uint64
}

// WithProb overrides the selection probability.
func WithProb(p float64) Option { return func(o *options) { o.prob = p } }

// WithSeed fixes the random source for reproducible masking.
func WithSeed(seed uint64) Option { return func(o *options) { o.seed = seed } }

// NewMasker builds a Masker over the given vocabulary.
func NewMasker(vocab tokenizer.Vocabulary, opts ...Option) *Masker {
	o := options{prob: DefaultMaskProb, seed: uint64(time.Now().UnixNano())}
	for _, opt := range opts {
		opt(&o)
	}
	src := rand.NewSource(o.seed)
	return &Masker{
		vocab: vocab,
		sel:   distuv.Bernoulli{P: o.prob, Src: src},
		rnd:   rand.New(src),
	}
}

// Apply masks a full token buffer in one pass, returning the masked
// copy and the parallel label buffer. The input is never mutated, so a
// Ragged view over it stays valid.
func (m *Masker) Apply(tokenIDs []int64) (masked []int64, labels []int64) {
	masked = make([]int64, len(tokenIDs))
	copy(masked, tokenIDs)
	labels = make([]int64, len(tokenIDs))
	for i := range labels {
		labels[i] = internal.IgnoreLabelID
	}

	selected := roaring.New()
	for i, id := range tokenIDs {
		if m.vocab.IsSpecial(id) {
			continue
		}
		if m.sel.Rand() == 1 {
			selected.Add(uint32(i))
		}
	}

	it := selected.Iterator()
	for it.HasNext() {
		i := it.Next()
		labels[i] = tokenIDs[i]
		switch u := m.rnd.Float64(); {
		case u < 0.8:
			masked[i] = m.vocab.MaskID()
		case u < 0.9:
			masked[i] = m.randomToken()
		default:
			// keep the original token; the label still demands it
		}
	}

	slog.Debug("Applied BERT mask",
		"tokens", len(tokenIDs),
		"selected", selected.GetCardinality())
	return masked, labels
}

// randomToken draws a uniformly random non-special token id.
func (m *Masker) randomToken() int64 {
	for {
		id := m.rnd.Int63n(int64(m.vocab.VocabSize()))
		if !m.vocab.IsSpecial(id) {
			return id
		}
	}
}
