// Package progress provides the shared remaining-count indicator used by
// the download engine.
//
// A Counter is seeded with the batch size before any task is dispatched and
// is drained by the tasks as they finish writing their files:
//
//	counter := progress.NewCounter(len(photos))
//	// ... in every task, after the file is on disk:
//	remaining, ok := counter.Decrement()
//
// Decrement is a single indivisible read-modify-write, so concurrent callers
// always observe distinct values and no update is lost.
package progress
