package batching

import (
	"errors"
	"fmt"
	"io"

	"github.com/GT-AcerZhang/helix-linear-wheel/tape/archive"
	"github.com/GT-AcerZhang/helix-linear-wheel/tape/config"
	"github.com/GT-AcerZhang/helix-linear-wheel/tape/masking"
	"github.com/GT-AcerZhang/helix-linear-wheel/tape/tokenizer"
)

// ErrUnsupportedTask is returned by the dispatch for task names outside
// the recognized set.
var ErrUnsupportedTask = errors.New("unsupported task")

// Variant identifies one of the three batching policies.
type Variant int

const (
	// VariantPretrain masks the token buffer before slicing and labels
	// every position with the original id or the ignore sentinel.
	VariantPretrain Variant = iota
	// VariantSequence slices per-token labels with the same offsets as
	// the tokens.
	VariantSequence
	// VariantScalar takes one label per example, indexed by example
	// ordinal rather than token offset.
	VariantScalar
)

// SelectVariant maps a task name onto its batching policy. Unknown task
// names fail here, before any file is touched.
func SelectVariant(task string) (Variant, error) {
	switch task {
	case config.TaskPretrain:
		return VariantPretrain, nil
	case config.TaskSeqClassification:
		return VariantSequence, nil
	case config.TaskClassification, config.TaskRegression:
		return VariantScalar, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedTask, task)
	}
}

// SampleGenerator produces independent single-pass batch readers over a
// fixed ordered set of archive files. It holds no cursor itself, so any
// number of passes can be taken from one generator.
type SampleGenerator struct {
	filenames  []string
	batchSize  int
	variant    Variant
	labelField string
	masker     *masking.Masker
}

// Option configures a SampleGenerator.
type Option func(*SampleGenerator)

// WithMasker overrides the pretraining masker, e.g. to fix its seed or
// swap the vocabulary.
func WithMasker(m *masking.Masker) Option {
	return func(g *SampleGenerator) { g.masker = m }
}

// NewSampleGenerator validates the task and wires the matching variant.
// Pretraining defaults to a masker over the fixed protein vocabulary.
func NewSampleGenerator(filenames []string, batchSize int, mc config.ModelConfig, opts ...Option) (*SampleGenerator, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	variant, err := SelectVariant(mc.Task)
	if err != nil {
		return nil, err
	}
	g := &SampleGenerator{
		filenames:  filenames,
		batchSize:  batchSize,
		variant:    variant,
		labelField: mc.Label(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.variant == VariantPretrain && g.masker == nil {
		g.masker = masking.NewMasker(tokenizer.NewProteinTokenizer(false))
	}
	return g, nil
}

// Reader starts a fresh pass over the generator's files. Each call
// returns an independent cursor; consuming one does not advance another.
func (g *SampleGenerator) Reader() *BatchReader {
	return &BatchReader{gen: g}
}

// BatchReader is a pull iterator over batches. Next returns io.EOF once
// every file is exhausted and the final partial batch (if any) has been
// handed out. Any failure is terminal: the same error is returned on
// every subsequent call.
type BatchReader struct {
	gen     *SampleGenerator
	fileIdx int
	cur     *fileCursor
	pending Batch
	err     error
}

// fileCursor walks the examples of one decoded archive.
type fileCursor struct {
	tokens *archive.Ragged
	label  func(i int) []float64
	next   int
}

// Next returns the next batch.
func (r *BatchReader) Next() (Batch, error) {
	if r.err != nil {
		return nil, r.err
	}
	for {
		if r.cur == nil {
			if r.fileIdx == len(r.gen.filenames) {
				if len(r.pending) > 0 {
					out := r.pending
					r.pending = nil
					r.err = io.EOF
					return out, nil
				}
				r.err = io.EOF
				return nil, r.err
			}
			cur, err := r.gen.openFile(r.gen.filenames[r.fileIdx])
			if err != nil {
				r.err = err
				return nil, r.err
			}
			r.fileIdx++
			r.cur = cur
		}
		for r.cur.next < r.cur.tokens.Len() {
			i := r.cur.next
			r.cur.next++
			tokens := r.cur.tokens.Example(i)
			r.pending = append(r.pending, Example{
				Tokens:    tokens,
				Positions: positions(len(tokens)),
				Labels:    r.cur.label(i),
			})
			if len(r.pending) == r.gen.batchSize {
				out := r.pending
				r.pending = nil
				return out, nil
			}
		}
		// file exhausted, release its buffers
		r.cur = nil
	}
}

// openFile decodes one archive and binds the variant's label accessor.
func (g *SampleGenerator) openFile(path string) (*fileCursor, error) {
	switch g.variant {
	case VariantPretrain:
		a, err := archive.Load(path, "")
		if err != nil {
			return nil, err
		}
		maskedIDs, labels := g.masker.Apply(a.Tokens.Data())
		masked, err := a.Tokens.WithData(maskedIDs)
		if err != nil {
			return nil, fmt.Errorf("archive %s: %w", path, err)
		}
		offsets := masked.Offsets()
		return &fileCursor{
			tokens: masked,
			label:  func(i int) []float64 { return toFloats(labels[offsets[i]:offsets[i+1]]) },
		}, nil

	case VariantSequence:
		a, err := archive.Load(path, g.labelField)
		if err != nil {
			return nil, err
		}
		if len(a.Labels) != a.Tokens.TotalTokens() {
			return nil, fmt.Errorf("archive %s: field %q holds %d labels for %d tokens: %w",
				path, g.labelField, len(a.Labels), a.Tokens.TotalTokens(), archive.ErrBadLengths)
		}
		offsets := a.Tokens.Offsets()
		return &fileCursor{
			tokens: a.Tokens,
			label:  func(i int) []float64 { return a.Labels[offsets[i]:offsets[i+1]] },
		}, nil

	case VariantScalar:
		a, err := archive.Load(path, g.labelField)
		if err != nil {
			return nil, err
		}
		// one label per example; checked up front so a misaligned label
		// table fails loudly instead of silently pairing wrong labels
		if len(a.Labels) != a.NumExamples() {
			return nil, fmt.Errorf("archive %s: field %q holds %d labels for %d examples: %w",
				path, g.labelField, len(a.Labels), a.NumExamples(), archive.ErrBadLengths)
		}
		return &fileCursor{
			tokens: a.Tokens,
			label:  func(i int) []float64 { return a.Labels[i : i+1] },
		}, nil

	default:
		return nil, fmt.Errorf("%w: variant %d", ErrUnsupportedTask, g.variant)
	}
}

func toFloats(ids []int64) []float64 {
	out := make([]float64, len(ids))
	for i, v := range ids {
		out[i] = float64(v)
	}
	return out
}

// Collect drains the reader, mainly useful in tests and epoch sizing.
func (r *BatchReader) Collect() ([]Batch, error) {
	var out []Batch
	for {
		b, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, err
		}
		out = append(out, b)
	}
}
