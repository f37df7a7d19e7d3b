// Package worker runs bank extraction jobs across a small pool of
// goroutines (ETC-11).
//
// Go Pattern: Goroutines and channels are Go's concurrency primitives.
// A goroutine is like a lightweight thread (thousands are fine), and
// channels are typed pipes for communication between goroutines.
//
// This is the classic worker pool shape:
// 1. Create a buffered channel as a job queue
// 2. Spawn N worker goroutines that read from the channel
// 3. Feed jobs into the channel and close it
// 4. Wait for the workers to drain it
//
// Unlike a server-side queue, this pool is batch-shaped: Run feeds every
// job in, waits for completion, and returns results in input order no
// matter which worker finished first. Test banks are independent files,
// so reading them concurrently is safe.
package worker

import (
	"log"
	"sync"

	"github.com/Shimizu-Technology/exam-tools-cli/internal/models"
)

// BankResult is the outcome of extracting one test bank.
type BankResult struct {
	Bank        models.TestBank
	Questions   []models.Question
	Diagnostics []models.Diagnostic
}

// ExtractFunc does the actual work for one bank. It must be safe to
// call from multiple goroutines.
type ExtractFunc func(models.TestBank) BankResult

// Pool fans bank extraction out over N goroutines.
type Pool struct {
	workers int
}

// NewPool creates a pool. Worker counts below 1 are clamped to 1.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// WorkerCount returns the number of goroutines Run will use at most.
func (p *Pool) WorkerCount() int {
	return p.workers
}

// Run extracts every bank and returns results indexed like the input.
//
// Go Pattern: A buffered channel acts as the job queue and a
// sync.WaitGroup tracks the workers. Each worker writes into its job's
// slot of the shared results slice; the indices are distinct, so no
// mutex is needed.
func (p *Pool) Run(banks []models.TestBank, fn ExtractFunc) []BankResult {
	if len(banks) == 0 {
		return nil
	}

	type job struct {
		idx  int
		bank models.TestBank
	}

	workers := p.workers
	if workers > len(banks) {
		workers = len(banks)
	}

	jobs := make(chan job, len(banks))
	results := make([]BankResult, len(banks))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			// Go Pattern: `range` over a channel reads values until the
			// channel is closed. This is the idiomatic way to consume.
			for j := range jobs {
				log.Printf("👷 Worker %d reading %s", id, j.bank.Name)
				results[j.idx] = fn(j.bank)
			}
		}(i)
	}

	for i, b := range banks {
		jobs <- job{idx: i, bank: b}
	}
	close(jobs)
	wg.Wait()

	return results
}
