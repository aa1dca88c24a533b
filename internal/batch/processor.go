package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Default batch processing configuration.
const (
	// DefaultBatchSize is the default number of items per batch.
	DefaultBatchSize = 8

	// MinBatchSize is the minimum allowed batch size.
	MinBatchSize = 1

	// MaxBatchSize is the maximum allowed batch size.
	MaxBatchSize = 1000
)

// Common batch processing errors.
var (
	ErrInvalidBatchSize = errors.New("batch size must be between 1 and 1000")
	ErrNilCallback      = errors.New("batch callback cannot be nil")
	ErrEmptyItems       = errors.New("items slice cannot be empty")
)

// Callback processes one batch. offset is the index of batch[0] in the input.
type Callback[T any] func(ctx context.Context, batch []T, offset int) error

// ProgressCallback is invoked after each batch completes with a snapshot.
// It may be called from several goroutines but never concurrently.
type ProgressCallback func(ProgressSnapshot)

// Processor splits a slice into fixed-size batches.
type Processor[T any] struct {
	batchSize  int
	onProgress ProgressCallback
}

// NewProcessor creates a processor with the given batch size.
func NewProcessor[T any](batchSize int) (*Processor[T], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}
	return &Processor[T]{batchSize: batchSize}, nil
}

// NewProcessorWithDefaults creates a processor with DefaultBatchSize.
func NewProcessorWithDefaults[T any]() *Processor[T] {
	return &Processor[T]{batchSize: DefaultBatchSize}
}

// SizeFor returns the batch size that spreads totalItems over maxConcurrency
// batches, clamped to [MinBatchSize, MaxBatchSize].
func SizeFor(totalItems, maxConcurrency int) int {
	maxConcurrency = max(maxConcurrency, 1)
	size := (totalItems + maxConcurrency - 1) / maxConcurrency
	return min(max(size, MinBatchSize), MaxBatchSize)
}

// NewProcessorFor creates a processor whose batches let totalItems run across
// maxConcurrency workers.
func NewProcessorFor[T any](totalItems, maxConcurrency int) *Processor[T] {
	return &Processor[T]{batchSize: SizeFor(totalItems, maxConcurrency)}
}

// WithProgressCallback sets a progress callback.
func (p *Processor[T]) WithProgressCallback(callback ProgressCallback) *Processor[T] {
	p.onProgress = callback
	return p
}

// BatchSize returns the configured batch size.
func (p *Processor[T]) BatchSize() int {
	return p.batchSize
}

// Bounds returns the [start, end) index pairs of each batch.
func (p *Processor[T]) Bounds(totalItems int) [][2]int {
	n := (totalItems + p.batchSize - 1) / p.batchSize
	bounds := make([][2]int, n)
	for i := range n {
		start := i * p.batchSize
		bounds[i] = [2]int{start, min(start+p.batchSize, totalItems)}
	}
	return bounds
}

// Process runs callback over each batch in order and stops on the first error.
func (p *Processor[T]) Process(ctx context.Context, items []T, callback Callback[T]) error {
	return p.ProcessConcurrent(ctx, items, callback, 1)
}

// ProcessConcurrent runs at most maxConcurrency batches at once. The first
// error cancels the context passed to the remaining batches and is returned.
func (p *Processor[T]) ProcessConcurrent(
	ctx context.Context,
	items []T,
	callback Callback[T],
	maxConcurrency int,
) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	if callback == nil {
		return ErrNilCallback
	}
	maxConcurrency = max(maxConcurrency, 1)

	bounds := p.Bounds(len(items))
	progress := NewProgress(len(items), len(bounds), p.batchSize)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)

	for i, b := range bounds {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := callback(gctx, items[b[0]:b[1]], b[0]); err != nil {
				return fmt.Errorf("batch %d failed: %w", i, err)
			}
			snap := progress.AddProcessed(b[1] - b[0])
			if p.onProgress != nil {
				progress.notify(p.onProgress, snap)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Map applies fn to every item with at most maxConcurrency batches in flight
// and returns the results in input order.
func Map[T, R any](
	ctx context.Context,
	p *Processor[T],
	items []T,
	maxConcurrency int,
	fn func(ctx context.Context, item T) (R, error),
) ([]R, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}
	results := make([]R, len(items))
	err := p.ProcessConcurrent(ctx, items, func(ctx context.Context, batch []T, offset int) error {
		for i, item := range batch {
			r, err := fn(ctx, item)
			if err != nil {
				return fmt.Errorf("item %d: %w", offset+i, err)
			}
			results[offset+i] = r
		}
		return nil
	}, maxConcurrency)
	if err != nil {
		return nil, err
	}
	return results, nil
}
