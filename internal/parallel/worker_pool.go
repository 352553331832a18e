// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package parallel runs per-file scan jobs across a worker pool. Scanning
// is pure parsing with no I/O, so files fan out freely; merging results
// into the shared index stays the caller's responsibility and is
// serialized there.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"time"

	"crossref-scan/internal/observability"
	"crossref-scan/internal/scanner"
)

// Job is one document to scan.
type Job struct {
	File    string
	Content string
}

// Result is the outcome of scanning a single document.
type Result struct {
	File     string
	Scan     *scanner.Result
	Duration time.Duration
}

// WorkerPool manages parallel document scanning.
type WorkerPool struct {
	workers  int
	jobs     chan Job
	results  chan Result
	wg       sync.WaitGroup
	observer *observability.StandardObserver
}

// NewWorkerPool creates a pool with the given worker count; zero or
// negative means one worker per CPU.
func NewWorkerPool(workers int, observer *observability.StandardObserver) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &WorkerPool{
		workers:  workers,
		jobs:     make(chan Job, workers*2),
		results:  make(chan Result, workers*2),
		observer: observer,
	}
}

// ScanAll scans every job and returns one result per job, in input order.
// It always drains all workers before returning; a cancelled context stops
// new work but never abandons in-flight results.
func (wp *WorkerPool) ScanAll(ctx context.Context, jobs []Job) []Result {
	sc := scanner.New()

	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, sc)
	}

	go func() {
		defer close(wp.jobs)
		for _, job := range jobs {
			select {
			case wp.jobs <- job:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wp.wg.Wait()
		close(wp.results)
	}()

	byFile := make(map[string]Result, len(jobs))
	for result := range wp.results {
		byFile[result.File] = result
	}

	ordered := make([]Result, 0, len(byFile))
	for _, job := range jobs {
		if result, ok := byFile[job.File]; ok {
			ordered = append(ordered, result)
		}
	}
	return ordered
}

func (wp *WorkerPool) worker(ctx context.Context, sc *scanner.Scanner) {
	defer wp.wg.Done()
	for job := range wp.jobs {
		start := time.Now()
		var finish func(bool, map[string]interface{})
		if wp.observer != nil {
			finish = wp.observer.StartTiming("worker_pool", "scan_file", job.File)
		}

		scanned := sc.Scan(job.Content, job.File)

		if finish != nil {
			finish(true, map[string]interface{}{
				"label_count": len(scanned.Labels),
				"ref_keys":    len(scanned.References),
			})
		}

		select {
		case wp.results <- Result{File: job.File, Scan: scanned, Duration: time.Since(start)}:
		case <-ctx.Done():
			// Keep draining jobs so close(jobs) is reached and Wait returns.
		}
	}
}
