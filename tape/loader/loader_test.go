package loader

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/GT-AcerZhang/helix-linear-wheel/tape/batching"
	"github.com/GT-AcerZhang/helix-linear-wheel/tape/config"

	"github.com/sbinet/npyio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeNPZ(t *testing.T, path string, fields map[string]interface{}) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, v := range fields {
		w, err := zw.Create(name + ".npy")
		require.NoError(t, err)
		require.NoError(t, npyio.Write(w, v))
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func setupDataDir(t *testing.T) string {
	dir := t.TempDir()
	writeNPZ(t, filepath.Join(dir, "shard0.npz"), map[string]interface{}{
		"token_ids": []int64{1, 2, 3, 4, 5},
		"lengths":   []int64{2, 3},
		"labels":    []float64{7, 8},
	})
	writeNPZ(t, filepath.Join(dir, "shard1.npz"), map[string]interface{}{
		"token_ids": []int64{6, 7},
		"lengths":   []int64{1, 1},
		"labels":    []float64{9, 10},
	})
	return dir
}

func drain(t *testing.T, e *Epoch) []batching.Batch {
	t.Helper()
	var out []batching.Batch
	for {
		b, err := e.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, b)
	}
}

func TestDataLoader(t *testing.T) {
	tests := []struct {
		name string
		test func(t *testing.T)
	}{
		{"EpochDelivery", testLoaderEpochDelivery},
		{"FreshPassPerEpoch", testLoaderFreshPassPerEpoch},
		{"UnsupportedTask", testLoaderUnsupportedTask},
		{"ReaderErrorSurfaces", testLoaderReaderErrorSurfaces},
		{"Stop", testLoaderStop},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.test)
	}
}

func testLoaderEpochDelivery(t *testing.T) {
	dir := setupDataDir(t)

	dl, err := SetupDataLoader([]string{"protein_token", "protein_pos"},
		config.ModelConfig{Task: config.TaskClassification},
		dir, 0, 1, batching.CPUPlace(), 3)
	require.NoError(t, err)
	assert.NotEqual(t, "", dl.ID().String())

	batches := drain(t, dl.Epoch(context.Background()))

	// 4 examples total at batch size 3: one full batch plus a short one
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 3)
	assert.Len(t, batches[1], 1)
	assert.Equal(t, []float64{7}, batches[0][0].Labels)
}

func testLoaderFreshPassPerEpoch(t *testing.T) {
	dir := setupDataDir(t)

	dl, err := SetupDataLoader(nil,
		config.ModelConfig{Task: config.TaskClassification},
		dir, 0, 1, batching.CPUPlace(), 2)
	require.NoError(t, err)

	first := drain(t, dl.Epoch(context.Background()))
	second := drain(t, dl.Epoch(context.Background()))
	assert.Equal(t, first, second, "each epoch is a fresh pass over the same shard")
}

func testLoaderUnsupportedTask(t *testing.T) {
	dir := setupDataDir(t)

	_, err := SetupDataLoader(nil, config.ModelConfig{Task: "bogus"},
		dir, 0, 1, batching.CPUPlace(), 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, batching.ErrUnsupportedTask)
}

func testLoaderReaderErrorSurfaces(t *testing.T) {
	dir := t.TempDir()
	// not a zip container at all
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.npz"), []byte("junk"), 0o644))

	dl, err := SetupDataLoader(nil,
		config.ModelConfig{Task: config.TaskClassification},
		dir, 0, 1, batching.CPUPlace(), 2)
	require.NoError(t, err)

	e := dl.Epoch(context.Background())
	_, err = e.Next()
	require.Error(t, err)
	assert.NotEqual(t, io.EOF, err, "decode failure must not masquerade as end of data")

	_, again := e.Next()
	assert.Equal(t, err, again, "epoch errors are terminal")
}

func testLoaderStop(t *testing.T) {
	dir := setupDataDir(t)

	dl, err := SetupDataLoader(nil,
		config.ModelConfig{Task: config.TaskClassification},
		dir, 0, 1, batching.CPUPlace(), 1)
	require.NoError(t, err)

	e := dl.Epoch(context.Background())
	_, err = e.Next()
	require.NoError(t, err)
	e.Stop()
}
