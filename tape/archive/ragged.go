package archive

import (
	"fmt"
)

// Ragged is a jagged array: one owned contiguous buffer of token-level
// values plus a monotonic offsets table delimiting variable-length
// examples. Offsets has one more entry than there are examples, with
// offsets[0] == 0 and offsets[n] == len(data), so every example i is the
// half-open window data[offsets[i]:offsets[i+1]].
//
// Keeping the offsets explicit makes the sum-of-lengths invariant
// checkable in one place instead of at every slicing site.
type Ragged struct {
	data    []int64
	offsets []int64
}

// NewRagged builds a Ragged view over data partitioned by lengths.
// It fails if any length is negative or the lengths do not sum to
// exactly len(data).
func NewRagged(data []int64, lengths []int64) (*Ragged, error) {
	offsets := make([]int64, len(lengths)+1)
	var total int64
	for i, l := range lengths {
		if l < 0 {
			return nil, fmt.Errorf("%w: length %d at index %d", ErrBadLengths, l, i)
		}
		total += l
		offsets[i+1] = total
	}
	if total != int64(len(data)) {
		return nil, fmt.Errorf("%w: lengths sum to %d but buffer holds %d values",
			ErrBadLengths, total, len(data))
	}
	return &Ragged{data: data, offsets: offsets}, nil
}

// Len returns the number of examples.
func (r *Ragged) Len() int { return len(r.offsets) - 1 }

// TotalTokens returns the length of the underlying flat buffer.
func (r *Ragged) TotalTokens() int { return len(r.data) }

// Example returns the i-th example as a view into the flat buffer.
// The returned slice aliases the buffer; callers must copy before
// mutating.
func (r *Ragged) Example(i int) []int64 {
	return r.data[r.offsets[i]:r.offsets[i+1]]
}

// ExampleLen returns the token count of example i.
func (r *Ragged) ExampleLen(i int) int {
	return int(r.offsets[i+1] - r.offsets[i])
}

// Offsets returns the cumulative offsets table, including the leading 0
// and the trailing total length.
func (r *Ragged) Offsets() []int64 { return r.offsets }

// Data returns the underlying flat buffer.
func (r *Ragged) Data() []int64 { return r.data }

// WithData returns a Ragged sharing this one's offsets over a different
// flat buffer of identical total length. Used when a transform (e.g.
// masking) rewrites the buffer without changing example boundaries.
func (r *Ragged) WithData(data []int64) (*Ragged, error) {
	if len(data) != len(r.data) {
		return nil, fmt.Errorf("%w: replacement buffer holds %d values, want %d",
			ErrBadLengths, len(data), len(r.data))
	}
	return &Ragged{data: data, offsets: r.offsets}, nil
}
