package batching

// Example is one sequence prepared for the model: token ids, their
// 0-based positions, and the task's labels. Tokens and Positions always
// have the sequence's length L; Labels has length L for per-token tasks
// and length 1 for scalar-label tasks.
type Example struct {
	Tokens    []int64
	Positions []int64
	Labels    []float64
}

// Batch is an ordered group of examples. All batches a reader yields
// have exactly the configured size except possibly the last one, which
// is short but never dropped.
type Batch []Example

// positions returns the column 0..n-1.
func positions(n int) []int64 {
	pos := make([]int64, n)
	for i := range pos {
		pos[i] = int64(i)
	}
	return pos
}
