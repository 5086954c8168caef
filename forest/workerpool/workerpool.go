// Copyright 2026 The go-forest Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent, reusable worker pool for the
// parallel phases of forest inference. Unlike per-call goroutine spawning, a
// Pool is created once and reused across many inference calls, eliminating
// allocation and spawn overhead.
//
// This matters for serving workloads where small batches arrive at high
// rates: per-call goroutine spawning and channel allocation can dominate the
// actual tree evaluation time for batches of a few hundred rows.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	// Reuse pool across many inference calls
//	for _, batch := range batches {
//	    pool.ParallelFor(batch.Tasks(), func(start, end int) {
//	        runTasks(start, end)
//	    })
//	}
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool that can be reused across many parallel
// operations. Workers are spawned once at creation and reused.
type Pool struct {
	numWorkers int
	taskC      chan task
	closeOnce  sync.Once
	closed     atomic.Bool
}

// task is a single unit handed to a worker.
type task struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a worker pool with the given number of workers. Workers are
// spawned immediately and persist until Close is called. If numWorkers <= 0,
// GOMAXPROCS is used.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		// Buffer enough for every worker to have queued work
		taskC: make(chan task, numWorkers*2),
	}

	for w := 0; w < numWorkers; w++ {
		go p.worker()
	}

	return p
}

// worker is the main loop of each persistent worker goroutine.
func (p *Pool) worker() {
	for t := range p.taskC {
		t.fn()
		t.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the pool. All queued work completes first. Calling Close
// more than once is safe.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.taskC)
	})
}

// ParallelFor executes fn over [0, n) using the pool and blocks until all
// work completes. Each worker receives one contiguous index range; fn must
// process [start, end).
//
// The ranges handed to fn are disjoint, so fn may write to per-index state
// without synchronization.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	if p.closed.Load() {
		// Sequential fallback once the pool is closed
		fn(0, n)
		return
	}

	workers := min(p.numWorkers, n)
	if workers == 1 {
		fn(0, n)
		return
	}

	// Split so that every index is covered
	span := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		start := i * span
		end := min(start+span, n)
		if start >= n {
			wg.Done()
			continue
		}

		p.taskC <- task{
			fn: func() {
				fn(start, end)
			},
			barrier: &wg,
		}
	}

	wg.Wait()
}

// ParallelForBatched executes fn over [0, n) in batches of batchSize indices,
// distributed by atomic work stealing. It balances load when the cost per
// index varies, at the price of one atomic per batch grab. Blocks until all
// work completes.
//
// fn must process [start, end).
func (p *Pool) ParallelForBatched(n, batchSize int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if batchSize <= 0 {
		batchSize = 1
	}

	if p.closed.Load() {
		fn(0, n)
		return
	}

	batches := (n + batchSize - 1) / batchSize
	workers := min(p.numWorkers, batches)
	if workers == 1 {
		fn(0, n)
		return
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		p.taskC <- task{
			fn: func() {
				for {
					batch := int(next.Add(1)) - 1
					start := batch * batchSize
					if start >= n {
						return
					}
					fn(start, min(start+batchSize, n))
				}
			},
			barrier: &wg,
		}
	}

	wg.Wait()
}
