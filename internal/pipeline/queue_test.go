package pipeline

import (
	"runtime"
	"sync"
	"testing"
)

func TestQueue_InvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		if _, err := NewQueue[int](capacity); err == nil {
			t.Errorf("expected error for capacity %d", capacity)
		}
	}
}

func TestQueue_WriteFullThenDrain(t *testing.T) {
	q, err := NewQueue[string](2)
	if err != nil {
		t.Fatalf("failed to create queue: %v", err)
	}

	if status := q.Write("A"); status != WriteAccepted {
		t.Fatalf("write A: expected WriteAccepted, got %v", status)
	}
	if status := q.Write("B"); status != WriteAccepted {
		t.Fatalf("write B: expected WriteAccepted, got %v", status)
	}

	// Queue is at capacity, C stays with the caller
	if status := q.Write("C"); status != WriteFull {
		t.Fatalf("write C: expected WriteFull, got %v", status)
	}

	item, status := q.Read()
	if status != ReadOK || item != "A" {
		t.Fatalf("read: expected (A, ReadOK), got (%q, %v)", item, status)
	}

	// One slot freed, C now fits
	if status := q.Write("C"); status != WriteAccepted {
		t.Fatalf("write C retry: expected WriteAccepted, got %v", status)
	}

	expected := []string{"B", "C"}
	for _, want := range expected {
		item, status = q.Read()
		if status != ReadOK || item != want {
			t.Errorf("read: expected (%q, ReadOK), got (%q, %v)", want, item, status)
		}
	}
}

func TestQueue_FIFOAcrossWraparound(t *testing.T) {
	q, err := NewQueue[int](3)
	if err != nil {
		t.Fatalf("failed to create queue: %v", err)
	}

	next := 0
	for i := 0; i < 10; i++ {
		q.Write(2 * i)
		q.Write(2*i + 1)

		for j := 0; j < 2; j++ {
			item, status := q.Read()
			if status != ReadOK {
				t.Fatalf("iteration %d: expected ReadOK, got %v", i, status)
			}
			if item != next {
				t.Fatalf("iteration %d: expected %d, got %d", i, next, item)
			}
			next++
		}
	}
}

func TestQueue_CloseDrainsBeforeClosed(t *testing.T) {
	q, err := NewQueue[int](4)
	if err != nil {
		t.Fatalf("failed to create queue: %v", err)
	}

	q.Write(1)
	q.Write(2)
	q.Close()

	// Writes after close are rejected and the caller keeps the item
	if status := q.Write(3); status != WriteClosed {
		t.Errorf("write after close: expected WriteClosed, got %v", status)
	}

	// Queued items survive the close and drain in order
	for _, want := range []int{1, 2} {
		item, status := q.Read()
		if status != ReadOK || item != want {
			t.Errorf("drain: expected (%d, ReadOK), got (%d, %v)", want, item, status)
		}
	}

	// Once drained, closed is terminal
	for i := 0; i < 2; i++ {
		if _, status := q.Read(); status != ReadClosed {
			t.Errorf("read %d after drain: expected ReadClosed, got %v", i, status)
		}
	}
}

func TestQueue_EmptyWhileOpen(t *testing.T) {
	q, err := NewQueue[int](2)
	if err != nil {
		t.Fatalf("failed to create queue: %v", err)
	}

	if _, status := q.Read(); status != ReadEmpty {
		t.Errorf("expected ReadEmpty, got %v", status)
	}

	q.Close()
	if _, status := q.Read(); status != ReadClosed {
		t.Errorf("expected ReadClosed after close, got %v", status)
	}
}

func TestQueue_SingleProducerSingleConsumer(t *testing.T) {
	const count = 10000

	q, err := NewQueue[int](4)
	if err != nil {
		t.Fatalf("failed to create queue: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < count; {
			if q.Write(i) == WriteAccepted {
				i++
			} else {
				runtime.Gosched() // queue full, let the reader catch up
			}
		}
		q.Close()
	}()

	received := make([]int, 0, count)
	for {
		item, status := q.Read()
		if status == ReadClosed {
			break
		}
		if status == ReadOK {
			received = append(received, item)
		} else {
			runtime.Gosched()
		}
	}
	wg.Wait()

	if len(received) != count {
		t.Fatalf("expected %d items, got %d", count, len(received))
	}
	for i, item := range received {
		if item != i {
			t.Fatalf("FIFO order violated at %d: got %d", i, item)
		}
	}
}
