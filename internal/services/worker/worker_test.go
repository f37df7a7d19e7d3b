// worker_test.go — Unit tests for the extraction worker pool.
package worker

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Shimizu-Technology/exam-tools-cli/internal/models"
)

func fakeBanks(n int) []models.TestBank {
	banks := make([]models.TestBank, n)
	for i := range banks {
		banks[i] = models.TestBank{
			Name:  fmt.Sprintf("TB_%d", i+1),
			Index: i + 1,
			Path:  fmt.Sprintf("/banks/TB_%d.pdf", i+1),
		}
	}
	return banks
}

// TestRun_PreservesInputOrder makes early jobs slow and late jobs fast,
// then checks the results still line up with the input slice.
func TestRun_PreservesInputOrder(t *testing.T) {
	banks := fakeBanks(6)

	fn := func(b models.TestBank) BankResult {
		// Later banks finish first; order must not depend on timing.
		time.Sleep(time.Duration(len(banks)-b.Index) * 2 * time.Millisecond)
		return BankResult{
			Bank:      b,
			Questions: []models.Question{{SourceBank: b.Name, PageNumber: 1, LocalIndex: 1}},
		}
	}

	results := NewPool(4).Run(banks, fn)
	if len(results) != len(banks) {
		t.Fatalf("Run() returned %d results, want %d", len(results), len(banks))
	}
	for i, r := range results {
		if r.Bank.Name != banks[i].Name {
			t.Errorf("results[%d] is for %s, want %s", i, r.Bank.Name, banks[i].Name)
		}
		if len(r.Questions) != 1 || r.Questions[0].SourceBank != banks[i].Name {
			t.Errorf("results[%d] questions = %+v, want one from %s", i, r.Questions, banks[i].Name)
		}
	}
}

// TestRun_ProcessesEveryBankOnce counts invocations across goroutines.
func TestRun_ProcessesEveryBankOnce(t *testing.T) {
	banks := fakeBanks(10)

	var calls atomic.Int32
	fn := func(b models.TestBank) BankResult {
		calls.Add(1)
		return BankResult{Bank: b}
	}

	NewPool(3).Run(banks, fn)
	if got := calls.Load(); got != int32(len(banks)) {
		t.Errorf("extract function called %d times, want %d", got, len(banks))
	}
}

// TestRun_EmptyInput returns nothing without spawning workers.
func TestRun_EmptyInput(t *testing.T) {
	results := NewPool(3).Run(nil, func(b models.TestBank) BankResult {
		t.Error("extract function should not be called for empty input")
		return BankResult{}
	})
	if results != nil {
		t.Errorf("Run(nil) = %v, want nil", results)
	}
}

// TestNewPool_ClampsWorkerCount keeps the pool usable on bad config.
func TestNewPool_ClampsWorkerCount(t *testing.T) {
	if got := NewPool(0).WorkerCount(); got != 1 {
		t.Errorf("NewPool(0).WorkerCount() = %d, want 1", got)
	}
	if got := NewPool(-5).WorkerCount(); got != 1 {
		t.Errorf("NewPool(-5).WorkerCount() = %d, want 1", got)
	}
	if got := NewPool(8).WorkerCount(); got != 8 {
		t.Errorf("NewPool(8).WorkerCount() = %d, want 8", got)
	}
}
