package utils

import (
	"sync/atomic"
	"testing"
)

func TestSetNoDuplicates(t *testing.T) {
	s := NewSet()

	added := s.Add("Dubai Marina")
	if !added {
		t.Error("first Add should return true")
	}

	added = s.Add("Dubai Marina")
	if added {
		t.Error("second Add of same value should return false")
	}

	if s.Size() != 1 {
		t.Errorf("size: got %d, want 1", s.Size())
	}
}

func TestSetKeepsInsertionOrder(t *testing.T) {
	s := NewSet()
	for _, v := range []string{"JVC", "Downtown", "JVC", "Business Bay"} {
		s.Add(v)
	}

	got := s.Values()
	want := []string{"JVC", "Downtown", "Business Bay"}
	if len(got) != len(want) {
		t.Fatalf("values: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("values[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSetConcurrency(t *testing.T) {
	s := NewSet()
	var added int64

	pool := NewWorkerPool(10)
	for i := 0; i < 100; i++ {
		pool.Submit(func() {
			if s.Add("same") {
				atomic.AddInt64(&added, 1)
			}
		})
	}
	pool.Wait()

	if added != 1 {
		t.Errorf("expected exactly 1 successful add, got %d", added)
	}
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	pool := NewWorkerPool(3)
	var running, peak int64

	for i := 0; i < 50; i++ {
		pool.Submit(func() {
			n := atomic.AddInt64(&running, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			atomic.AddInt64(&running, -1)
		})
	}
	pool.Wait()

	if peak > 3 {
		t.Errorf("peak concurrency: got %d, want <= 3", peak)
	}
}

func TestWorkerPoolMinimumSize(t *testing.T) {
	if got := NewWorkerPool(0).Size(); got != 1 {
		t.Errorf("size: got %d, want 1", got)
	}
}
