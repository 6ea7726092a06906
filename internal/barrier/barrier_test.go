package barrier

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWaitZeroReturnsImmediately(t *testing.T) {
	b := New(3, 5)
	done := make(chan struct{})
	go func() {
		b.Wait(0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait(0) should return immediately, counter[0] starts satisfied")
	}
}

func TestWaitBlocksUntilRelease(t *testing.T) {
	b := New(2, 5)
	unblocked := make(chan struct{})
	go func() {
		b.Wait(1)
		close(unblocked)
	}()

	select {
	case <-unblocked:
		t.Fatal("Wait(1) returned before Release(0) was called")
	case <-time.After(50 * time.Millisecond):
	}

	b.Release(0)

	select {
	case <-unblocked:
	case <-time.After(time.Second):
		t.Fatal("Wait(1) should return once Release(0) has been called")
	}
}

func TestReleaseOnlyUnblocksItsOwnPivot(t *testing.T) {
	b := New(2, 5)
	b.Release(2) // satisfies counter[3], must not satisfy counter[1]

	unblocked := make(chan struct{})
	go func() {
		b.Wait(1)
		close(unblocked)
	}()

	select {
	case <-unblocked:
		t.Fatal("Wait(1) should not be satisfied by a Release for a different pivot")
	case <-time.After(50 * time.Millisecond):
	}

	b.Release(0)
	select {
	case <-unblocked:
	case <-time.After(time.Second):
		t.Fatal("Wait(1) should return once Release(0) has been called")
	}
}

// TestRowOwnerBoundaryNeverReadsUnfinalizedPivotRow reproduces the
// generateParallel partition shape (n=4 rows split [0,2) and [2,4) across
// two workers) and checks that a worker never treats row k as the pivot
// for iteration k until the worker owning row k has actually finished
// relaxing it through pivot k-1 — i.e. Release(k) must be gated on
// ownership of row k+1, not row k. Worker 1's finalization of row 2 is
// deliberately delayed to widen the race window a wrong gating would miss.
func TestRowOwnerBoundaryNeverReadsUnfinalizedPivotRow(t *testing.T) {
	const n = 4
	const numWorkers = 2
	starts := []int{0, 2, 4}

	b := New(numWorkers, n)
	var finalizedThroughPivot [n]atomic.Int32
	for i := range finalizedThroughPivot {
		finalizedThroughPivot[i].Store(-1)
	}

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		rowStart, rowEnd := starts[w], starts[w+1]
		go func(rowStart, rowEnd int) {
			defer wg.Done()
			for k := 0; k < n; k++ {
				b.Wait(k)
				if k > 0 {
					if got := finalizedThroughPivot[k].Load(); got != int32(k-1) {
						t.Errorf("pivot %d read row %d before it was finalized through pivot %d (got %d)", k, k, k-1, got)
					}
				}
				for i := rowStart; i < rowEnd; i++ {
					if k == 1 && i == 2 {
						// Widen the race window: if Release(1) were wrongly
						// gated on the owner of row 1 instead of row 2, the
						// other worker could pass Wait(2) well before this
						// store happens.
						time.Sleep(5 * time.Millisecond)
					}
					finalizedThroughPivot[i].Store(int32(k))
				}
				if k+1 >= rowStart && k+1 < rowEnd {
					b.Release(k)
				}
			}
		}(rowStart, rowEnd)
	}
	wg.Wait()
}
