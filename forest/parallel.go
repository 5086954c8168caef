// Copyright 2026 The go-forest Authors
// SPDX-License-Identifier: Apache-2.0

package forest

import (
	"runtime"
	"sync"

	"github.com/mohankrishna12/go-forest/forest/workerpool"
)

// parallelFor splits [0, n) into contiguous spans and runs fn over them,
// through pool when one is supplied and on freshly spawned goroutines
// otherwise. The spawn path suits one-shot calls; repeated inference should
// pass a pool to skip the per-call goroutine churn.
func parallelFor(pool *workerpool.Pool, n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if pool != nil {
		pool.ParallelFor(n, fn)
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}
	span := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += span {
		start := start
		end := min(start+span, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(start, end)
		}()
	}
	wg.Wait()
}
