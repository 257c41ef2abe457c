package download

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Gate brackets a blocking call made by a job.
//
// Jobs wrap every network request and file write in Gate.Do. Executors that
// interleave jobs cooperatively use it to hand control to another job while
// the call is in flight; the others simply run fn.
type Gate interface {
	Do(fn func() error) error
}

// Job is one unit of work handed to an Executor.
//
// A Job reports its outcome through its own closure. It must not panic.
type Job func(ctx context.Context, gate Gate)

// Executor runs a batch of jobs.
//
// Execute returns once every job has returned. A failing job never stops
// its siblings; ctx is passed through to the jobs unchanged.
type Executor interface {
	Execute(ctx context.Context, jobs []Job)
}

type passthrough struct{}

func (passthrough) Do(fn func() error) error { return fn() }

// sequentialExecutor runs jobs one after another on the calling goroutine.
type sequentialExecutor struct{}

func (sequentialExecutor) Execute(ctx context.Context, jobs []Job) {
	for _, job := range jobs {
		job(ctx, passthrough{})
	}
}

// poolExecutor runs jobs on at most workers goroutines.
type poolExecutor struct {
	workers int
}

func (p poolExecutor) Execute(ctx context.Context, jobs []Job) {
	var g errgroup.Group
	g.SetLimit(p.workers)

	for _, job := range jobs {
		g.Go(func() error {
			job(ctx, passthrough{})
			return nil
		})
	}

	g.Wait()
}

// cooperativeExecutor starts a goroutine per job (at most workers at a time
// when workers > 0). A job must hold the baton to run; it gives the baton up
// only while inside Gate.Do.
type cooperativeExecutor struct {
	workers int
}

func (c cooperativeExecutor) Execute(ctx context.Context, jobs []Job) {
	b := newBaton()

	var g errgroup.Group
	if c.workers > 0 {
		g.SetLimit(c.workers)
	}

	for _, job := range jobs {
		g.Go(func() error {
			b.acquire()
			defer b.release()

			job(ctx, b)
			return nil
		})
	}

	g.Wait()
}

// baton is a single token passed between cooperative jobs.
type baton struct {
	sem *semaphore.Weighted
}

func newBaton() *baton {
	return &baton{sem: semaphore.NewWeighted(1)}
}

// acquire blocks until the baton is free. The background context keeps a
// cancelled run from leaving a job without the baton it is about to release.
func (b *baton) acquire() {
	_ = b.sem.Acquire(context.Background(), 1)
}

func (b *baton) release() {
	b.sem.Release(1)
}

// Do releases the baton for the duration of fn and takes it back before
// returning.
func (b *baton) Do(fn func() error) error {
	b.release()
	defer b.acquire()
	return fn()
}
