package loader

import (
	"os"
	"path/filepath"
	"testing"

	internal "github.com/GT-AcerZhang/helix-linear-wheel/tape"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestPartFiles(t *testing.T) {
	tests := []struct {
		name string
		test func(t *testing.T)
	}{
		{"StrideSlicing", testPartFilesStrideSlicing},
		{"SingleTrainer", testPartFilesSingleTrainer},
		{"IgnoreFile", testPartFilesIgnoreFile},
		{"BadArguments", testPartFilesBadArguments},
		{"MissingDir", testPartFilesMissingDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.test)
	}
}

func testPartFilesStrideSlicing(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.npz", "b.npz", "c.npz", "d.npz", "e.npz"} {
		touch(t, dir, name)
	}

	// trainer 0 of 2 takes files 0, 2, 4 of the sorted listing
	shard0, err := PartFiles(dir, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.npz"),
		filepath.Join(dir, "c.npz"),
		filepath.Join(dir, "e.npz"),
	}, shard0)

	shard1, err := PartFiles(dir, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "b.npz"),
		filepath.Join(dir, "d.npz"),
	}, shard1)
}

func testPartFilesSingleTrainer(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.npz")
	touch(t, dir, "a.npz")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "checkpoints"), 0o755))

	files, err := PartFiles(dir, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.npz"),
		filepath.Join(dir, "b.npz"),
	}, files, "listing is sorted and skips directories")
}

func testPartFilesIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.npz")
	touch(t, dir, "train.log")
	touch(t, dir, "model.ckpt")
	require.NoError(t, os.WriteFile(filepath.Join(dir, internal.DefaultIgnoreFile),
		[]byte("*.log\n*.ckpt\n"), 0o644))

	files, err := PartFiles(dir, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.npz")}, files,
		"ignore patterns and the ignore file itself are filtered out")
}

func testPartFilesBadArguments(t *testing.T) {
	dir := t.TempDir()

	_, err := PartFiles(dir, 0, 0)
	assert.Error(t, err, "zero trainers")

	_, err = PartFiles(dir, 2, 2)
	assert.Error(t, err, "trainer id out of range")

	_, err = PartFiles(dir, -1, 2)
	assert.Error(t, err, "negative trainer id")
}

func testPartFilesMissingDir(t *testing.T) {
	_, err := PartFiles(filepath.Join(t.TempDir(), "nope"), 0, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
