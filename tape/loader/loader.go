package loader

import (
	"context"
	"io"
	"log/slog"

	internal "github.com/GT-AcerZhang/helix-linear-wheel/tape"
	"github.com/GT-AcerZhang/helix-linear-wheel/tape/batching"
	"github.com/GT-AcerZhang/helix-linear-wheel/tape/config"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
)

// DataLoader feeds a training loop from one trainer's file shard
// through a bounded prefetch queue. It is iterable once per epoch: each
// Epoch call regenerates the underlying reader for a fresh pass over
// the same shard.
type DataLoader struct {
	id       uuid.UUID
	gen      *batching.SampleGenerator
	feedList []string
	place    batching.Place
	capacity int
}

// SetupDataLoader resolves this trainer's shard of dataPath, builds the
// task-appropriate sample generator, and wires it behind a prefetch
// queue of capacity 256 with one-batch read-ahead.
func SetupDataLoader(inputList []string, mc config.ModelConfig, dataPath string,
	trainerID, trainerNum int, place batching.Place, batchSize int) (*DataLoader, error) {

	filenames, err := PartFiles(dataPath, trainerID, trainerNum)
	if err != nil {
		return nil, err
	}
	gen, err := batching.NewSampleGenerator(filenames, batchSize, mc)
	if err != nil {
		return nil, err
	}

	dl := &DataLoader{
		id:       uuid.New(),
		gen:      gen,
		feedList: inputList,
		place:    place,
		capacity: internal.DefaultLoaderCapacity,
	}
	slog.Info("Initialized data loader",
		"loader", dl.id,
		"task", mc.Task,
		"feeds", inputList,
		"place", place.String(),
		"shard", trainerID,
		"trainers", trainerNum,
		"files", len(filenames))
	return dl, nil
}

// ID returns the loader's instance id, used to correlate log lines.
func (dl *DataLoader) ID() uuid.UUID { return dl.id }

// Epoch starts one pass over the shard. Batches are decoded on a
// background worker and buffered ahead of the consumer; cancelling ctx
// stops the worker once it next tries to hand off a batch.
func (dl *DataLoader) Epoch(ctx context.Context) *Epoch {
	ctx, cancel := context.WithCancel(ctx)
	e := &Epoch{
		ch:     make(chan result, dl.capacity),
		cancel: cancel,
	}
	reader := dl.gen.Reader()
	e.wg.Go(func() {
		defer close(e.ch)
		for {
			batch, err := reader.Next()
			if err != nil {
				if err != io.EOF {
					select {
					case e.ch <- result{err: err}:
					case <-ctx.Done():
					}
				}
				return
			}
			select {
			case e.ch <- result{batch: batch}:
			case <-ctx.Done():
				return
			}
		}
	})
	return e
}

type result struct {
	batch batching.Batch
	err   error
}

// Epoch is one buffered pass over the loader's shard.
type Epoch struct {
	ch     chan result
	cancel context.CancelFunc
	wg     conc.WaitGroup
	err    error
}

// Next returns the next prefetched batch, io.EOF once the pass is
// complete, or the reader's error. Errors are terminal for the epoch.
func (e *Epoch) Next() (batching.Batch, error) {
	if e.err != nil {
		return nil, e.err
	}
	res, ok := <-e.ch
	if !ok {
		e.err = io.EOF
		e.wg.Wait()
		return nil, e.err
	}
	if res.err != nil {
		e.err = res.err
		e.cancel()
		e.wg.Wait()
		return nil, e.err
	}
	return res.batch, nil
}

// Stop abandons the pass early and releases the prefetch worker.
func (e *Epoch) Stop() {
	e.cancel()
	for range e.ch {
		// drain so the worker can exit if blocked on a full queue
	}
	e.wg.Wait()
}
