package parfold_test

import (
	"sync"
	"testing"

	"github.com/parfold/parfold"
)

func TestStore_GetOrCreate_ReturnsSameBucket(t *testing.T) {
	s := parfold.NewStore[int, string]()

	a := s.GetOrCreate(3)
	b := s.GetOrCreate(3)
	if a != b {
		t.Fatal("expected the same bucket for repeated calls with one key")
	}
	if s.Buckets() != 1 {
		t.Fatalf("expected 1 bucket, got %d", s.Buckets())
	}
}

// TestStore_ConcurrentFirstWrites exercises the synchronized insert path:
// many goroutines with distinct identities all create their bucket at once.
func TestStore_ConcurrentFirstWrites(t *testing.T) {
	s := parfold.NewStore[int, int]()

	const workers = 64
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.GetOrCreate(i).Append(i)
		}()
	}
	wg.Wait()

	if got := s.Buckets(); got != workers {
		t.Fatalf("expected %d buckets, got %d", workers, got)
	}
	if got := s.Pending(); got != workers {
		t.Fatalf("expected %d pending values, got %d", workers, got)
	}
}

// TestStore_Drain_SortedOrder verifies drain output is in ascending key
// order regardless of insertion order, so one drain is reproducible.
func TestStore_Drain_SortedOrder(t *testing.T) {
	s := parfold.NewStore[int, string]()
	for _, key := range []int{7, 2, 9, 0} {
		s.GetOrCreate(key).Append("x")
	}

	drained := s.Drain()
	if len(drained) != 4 {
		t.Fatalf("expected 4 drained buckets, got %d", len(drained))
	}
	for i, want := range []int{0, 2, 7, 9} {
		if drained[i].Key != want {
			t.Fatalf("position %d: expected key %d, got %d", i, want, drained[i].Key)
		}
	}
}

// TestStore_Drain_ResetsButKeepsBuckets verifies buckets survive a drain in
// an empty state: a second drain with no intervening writes yields nothing.
func TestStore_Drain_ResetsButKeepsBuckets(t *testing.T) {
	s := parfold.NewStore[int, int]()
	s.GetOrCreate(1).AppendBatch(10, 11, 12)
	s.GetOrCreate(2).Append(20)

	first := s.Drain()
	if len(first) != 2 {
		t.Fatalf("expected 2 drained buckets, got %d", len(first))
	}

	if got := s.Drain(); got != nil {
		t.Fatalf("expected empty second drain, got %d buckets", len(got))
	}
	if s.Buckets() != 2 {
		t.Fatalf("expected buckets to remain allocated, got %d", s.Buckets())
	}
	if s.Pending() != 0 {
		t.Fatalf("expected no pending values after drain, got %d", s.Pending())
	}
}

// TestStore_Drain_SkipsEmptyBuckets: a worker that created a bucket but
// wrote nothing this invocation contributes nothing to the drain.
func TestStore_Drain_SkipsEmptyBuckets(t *testing.T) {
	s := parfold.NewStore[int, int]()
	s.GetOrCreate(0)
	s.GetOrCreate(1).Append(42)

	drained := s.Drain()
	if len(drained) != 1 || drained[0].Key != 1 {
		t.Fatalf("expected only bucket 1 in drain, got %+v", drained)
	}
}
