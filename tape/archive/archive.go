package archive

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sbinet/npyio/npz"
)

// Common error types for archive decoding
var (
	ErrMissingField = errors.New("archive field missing")
	ErrBadLengths   = errors.New("length table does not match buffer")
)

// Archive holds the fully decoded contents of one .npz dataset shard:
// the flat token buffer partitioned by the lengths table, and the raw
// label field if one was requested.
type Archive struct {
	Path    string
	Tokens  *Ragged
	Lengths []int64
	Labels  []float64
}

// Load opens the archive at path and decodes token_ids, lengths and,
// when labelField is non-empty, the named label field. The file is fully
// read and closed before returning; Archive holds no open handles.
func Load(path string, labelField string) (*Archive, error) {
	f, err := npz.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	defer f.Close()

	tokenIDs, err := readInts(f, path, "token_ids")
	if err != nil {
		return nil, err
	}
	lengths, err := readInts(f, path, "lengths")
	if err != nil {
		return nil, err
	}

	tokens, err := NewRagged(tokenIDs, lengths)
	if err != nil {
		return nil, fmt.Errorf("archive %s: %w", path, err)
	}

	a := &Archive{Path: path, Tokens: tokens, Lengths: lengths}
	if labelField != "" {
		labels, err := readFloats(f, path, labelField)
		if err != nil {
			return nil, err
		}
		a.Labels = labels
	}

	slog.Debug("Decoded archive",
		"path", path,
		"examples", tokens.Len(),
		"tokens", tokens.TotalTokens())
	return a, nil
}

// NumExamples returns the number of sequences in the shard.
func (a *Archive) NumExamples() int { return a.Tokens.Len() }

// resolveKey maps a logical field name onto the member name inside the
// zip container. numpy's savez stores each field as "<name>.npy".
func resolveKey(f *npz.Reader, name string) (string, bool) {
	for _, k := range f.Keys() {
		if k == name || strings.TrimSuffix(k, ".npy") == name {
			return k, true
		}
	}
	return "", false
}

// readInts decodes a 1-D integer field, widening 32-bit storage to
// int64. The npz decoder only fills a slice whose element type matches
// the stored dtype, so storage widths are tried in order.
func readInts(f *npz.Reader, path, name string) ([]int64, error) {
	key, ok := resolveKey(f, name)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrMissingField, name, path)
	}
	var i64 []int64
	err := f.Read(key, &i64)
	if err == nil {
		return i64, nil
	}
	var i32 []int32
	if f.Read(key, &i32) == nil {
		out := make([]int64, len(i32))
		for i, v := range i32 {
			out[i] = int64(v)
		}
		return out, nil
	}
	return nil, fmt.Errorf("read %q from %s: %w", name, path, err)
}

// readFloats decodes a 1-D numeric field into float64, accepting float
// and integer storage since classification labels are written as ints.
func readFloats(f *npz.Reader, path, name string) ([]float64, error) {
	key, ok := resolveKey(f, name)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrMissingField, name, path)
	}
	var f64 []float64
	err := f.Read(key, &f64)
	if err == nil {
		return f64, nil
	}
	var f32 []float32
	if f.Read(key, &f32) == nil {
		out := make([]float64, len(f32))
		for i, v := range f32 {
			out[i] = float64(v)
		}
		return out, nil
	}
	ints, intErr := readInts(f, path, name)
	if intErr != nil {
		return nil, fmt.Errorf("read %q from %s: %w", name, path, err)
	}
	out := make([]float64, len(ints))
	for i, v := range ints {
		out[i] = float64(v)
	}
	return out, nil
}
