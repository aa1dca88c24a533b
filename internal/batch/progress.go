package batch

import (
	"sync"
	"time"
)

// percentMultiplier is used to convert a ratio to percentage (0-100).
const percentMultiplier = 100

// Progress tracks processed items and batches. It is safe for concurrent use.
type Progress struct {
	mu        sync.Mutex
	notifyMu  sync.Mutex
	total     int
	processed int
	batches   int
	doneBatch int
	batchSize int
	start     time.Time
}

// ProgressSnapshot is an immutable view of a Progress.
type ProgressSnapshot struct {
	TotalItems       int
	ProcessedItems   int
	TotalBatches     int
	ProcessedBatches int
	BatchSize        int
	Elapsed          time.Duration
}

// PercentComplete returns the completion percentage (0-100).
func (s ProgressSnapshot) PercentComplete() float64 {
	if s.TotalItems == 0 {
		return 0
	}
	return float64(s.ProcessedItems) / float64(s.TotalItems) * percentMultiplier
}

// IsComplete reports whether every item has been processed.
func (s ProgressSnapshot) IsComplete() bool {
	return s.ProcessedItems >= s.TotalItems
}

// NewProgress creates a progress tracker.
func NewProgress(totalItems, totalBatches, batchSize int) *Progress {
	return &Progress{
		total:     totalItems,
		batches:   totalBatches,
		batchSize: batchSize,
		start:     time.Now(),
	}
}

// AddProcessed records a finished batch of n items and returns the new state.
func (p *Progress) AddProcessed(n int) ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processed += n
	p.doneBatch++
	return p.snapshotLocked()
}

// Snapshot returns the current state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Progress) snapshotLocked() ProgressSnapshot {
	return ProgressSnapshot{
		TotalItems:       p.total,
		ProcessedItems:   p.processed,
		TotalBatches:     p.batches,
		ProcessedBatches: p.doneBatch,
		BatchSize:        p.batchSize,
		Elapsed:          time.Since(p.start),
	}
}

// notify serializes callback invocations.
func (p *Progress) notify(cb ProgressCallback, snap ProgressSnapshot) {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()
	cb(snap)
}
