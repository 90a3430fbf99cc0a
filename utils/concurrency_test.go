package utils

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestWorkerPoolRunsAllJobs(t *testing.T) {
	pool := NewWorkerPool(4, 0)

	var done int32
	for i := 0; i < 50; i++ {
		pool.Submit(func() {
			atomic.AddInt32(&done, 1)
		})
	}
	pool.Wait()

	if done != 50 {
		t.Errorf("expected 50 jobs to run, got %d", done)
	}
}

func TestWorkerPoolConcurrencyCap(t *testing.T) {
	pool := NewWorkerPool(3, 0)

	var mu sync.Mutex
	var active, peak int
	for i := 0; i < 20; i++ {
		pool.Submit(func() {
			mu.Lock()
			active++
			if active > peak {
				peak = active
			}
			mu.Unlock()

			mu.Lock()
			active--
			mu.Unlock()
		})
	}
	pool.Wait()

	if peak > 3 {
		t.Errorf("concurrency exceeded cap: peak %d", peak)
	}
}

func TestIDSetAdd(t *testing.T) {
	set := NewIDSet()

	if !set.Add("b-1004530000123") {
		t.Error("first Add should return true")
	}
	if set.Add("b-1004530000123") {
		t.Error("duplicate Add should return false")
	}
	if !set.Contains("b-1004530000123") {
		t.Error("Contains should see the added id")
	}
	if set.Contains("b-999") {
		t.Error("Contains should not see an absent id")
	}
	if set.Size() != 1 {
		t.Errorf("Size = %d, want 1", set.Size())
	}
}

func TestIDSetConcurrentAdd(t *testing.T) {
	set := NewIDSet()

	var wg sync.WaitGroup
	var added int32
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if set.Add("same-id") {
				atomic.AddInt32(&added, 1)
			}
		}()
	}
	wg.Wait()

	if added != 1 {
		t.Errorf("exactly one goroutine should win Add, got %d", added)
	}
	if set.Size() != 1 {
		t.Errorf("Size = %d, want 1", set.Size())
	}
}
