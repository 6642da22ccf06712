// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool runs range-partitioned work across goroutines.
//
// Work is expressed as ParallelFor(n, fn): [0, n) is split into one
// contiguous Range per worker with Partition and fn is called once per
// non-empty range. Ranges never overlap, so callers can hand each one an
// exclusive slice of their output without locking. ParallelFor returns only
// after every range has finished.
//
// Two executors are provided. Pool keeps its goroutines alive between calls
// and is meant to be created once and reused for every frame or batch.
// Spawn starts fresh goroutines on each call, which is simpler for one-shot
// work and tests.
package workerpool

import (
	"errors"
	"runtime"
	"sync"
)

// ErrClosed is returned by ParallelFor on a Pool that has been closed.
var ErrClosed = errors.New("workerpool: pool is closed")

// Executor runs fn over [0, n) split into disjoint ranges.
type Executor interface {
	// ParallelFor calls fn(start, end) for each non-empty range of
	// Partition(n, NumWorkers()) and waits for all of them. If the executor
	// cannot run the work, no range is started and an error is returned.
	ParallelFor(n int, fn func(start, end int)) error

	// NumWorkers returns the number of ranges work is split into.
	NumWorkers() int
}

// Pool is a fixed set of goroutines that execute ranges submitted by
// ParallelFor. The zero value is not usable; call New.
//
// Pool is safe for concurrent use. Concurrent ParallelFor calls share the
// workers and each waits only for its own ranges.
type Pool struct {
	workers int
	tasks   chan func()
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// New starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		workers: workers,
		tasks:   make(chan func(), workers),
	}
	for range workers {
		p.wg.Go(p.worker)
	}
	return p
}

func (p *Pool) worker() {
	for task := range p.tasks {
		task()
	}
}

// NumWorkers returns the number of worker goroutines.
func (p *Pool) NumWorkers() int {
	return p.workers
}

// ParallelFor implements Executor.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) error {
	// Holding the read lock while submitting keeps Close from closing the
	// task channel under a sender.
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	var done sync.WaitGroup
	for _, r := range Partition(n, p.workers) {
		if r.Empty() {
			continue
		}
		done.Add(1)
		p.tasks <- func() {
			defer done.Done()
			fn(r.Start, r.End)
		}
	}
	done.Wait()
	return nil
}

// Close stops the workers after in-flight work has finished. It is safe to
// call Close more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

// Spawn is an Executor that starts one goroutine per non-empty range on
// every call and joins them before returning.
type Spawn int

// NumWorkers returns the number of ranges, at least 1.
func (s Spawn) NumWorkers() int {
	return max(int(s), 1)
}

// ParallelFor implements Executor.
func (s Spawn) ParallelFor(n int, fn func(start, end int)) error {
	var wg sync.WaitGroup
	for _, r := range Partition(n, s.NumWorkers()) {
		if r.Empty() {
			continue
		}
		wg.Go(func() {
			fn(r.Start, r.End)
		})
	}
	wg.Wait()
	return nil
}

var (
	_ Executor = (*Pool)(nil)
	_ Executor = Spawn(0)
)
