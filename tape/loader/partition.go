package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	internal "github.com/GT-AcerZhang/helix-linear-wheel/tape"

	ignore "github.com/sabhiram/go-gitignore"
)

// PartFiles resolves the archive files belonging to shard trainerID of
// trainerNum trainers. Listing is deterministic (lexical order) and the
// shard takes every trainerNum-th file starting at trainerID, so all
// trainers together cover the directory exactly once.
//
// A .dataignore file in the data directory filters out non-archive
// clutter (checkpoints, logs) with gitignore pattern semantics.
func PartFiles(dataPath string, trainerID, trainerNum int) ([]string, error) {
	if trainerNum <= 0 {
		return nil, fmt.Errorf("trainer count must be positive, got %d", trainerNum)
	}
	if trainerID < 0 || trainerID >= trainerNum {
		return nil, fmt.Errorf("trainer id %d outside [0, %d)", trainerID, trainerNum)
	}

	entries, err := os.ReadDir(dataPath)
	if err != nil {
		return nil, fmt.Errorf("list data dir %s: %w", dataPath, err)
	}

	var ignored *ignore.GitIgnore
	ignorePath := filepath.Join(dataPath, internal.DefaultIgnoreFile)
	if _, err := os.Stat(ignorePath); err == nil {
		ignored, err = ignore.CompileIgnoreFile(ignorePath)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", ignorePath, err)
		}
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || e.Name() == internal.DefaultIgnoreFile {
			continue
		}
		if ignored != nil && ignored.MatchesPath(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dataPath, e.Name()))
	}
	sort.Strings(files)

	var shard []string
	for i := trainerID; i < len(files); i += trainerNum {
		shard = append(shard, files[i])
	}
	return shard, nil
}
