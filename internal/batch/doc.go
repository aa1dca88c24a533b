// Package batch runs per-item work over slices in fixed-size batches, either
// sequentially or on a bounded errgroup, reporting progress as batches finish.
package batch
