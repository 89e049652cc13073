package tape

import (
	"os"

	"github.com/rs/zerolog"
)

var (
	// DefaultAppName is used for config lookup paths and log context
	DefaultAppName = "tape"

	// DefaultLabelField is the archive field holding labels unless the
	// model config overrides it
	DefaultLabelField = "labels"

	// DefaultLoaderCapacity bounds the number of batches the prefetch
	// queue may hold before the producer blocks
	DefaultLoaderCapacity = 256

	// DefaultIgnoreFile, when present in a data directory, filters which
	// files are considered archives during shard partitioning
	DefaultIgnoreFile = ".dataignore"

	// IgnoreLabelID marks unmasked positions in pretraining label buffers
	IgnoreLabelID int64 = -1
)

// GetLogger returns a properly configured zerolog logger instance
func GetLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Str("app", DefaultAppName).Logger()
}
