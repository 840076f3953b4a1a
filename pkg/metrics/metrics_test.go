package metrics

import (
	"errors"
	"sync"
	"testing"
)

func TestCounterIncAndValue(t *testing.T) {
	c := NewCounter("test_total", "operation", "outcome")

	if err := c.Inc("Add", "ok"); err != nil {
		t.Fatalf("Inc failed: %v", err)
	}
	if err := c.Add(2, "Add", "ok"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := c.Inc("Add", "fault"); err != nil {
		t.Fatalf("Inc failed: %v", err)
	}

	if got := c.Value("Add", "ok"); got != 3 {
		t.Errorf("Value(Add, ok) = %d, want 3", got)
	}
	if got := c.Value("Add", "fault"); got != 1 {
		t.Errorf("Value(Add, fault) = %d, want 1", got)
	}
	if got := c.Value("Divide", "ok"); got != 0 {
		t.Errorf("Value of unseen labels = %d, want 0", got)
	}
}

func TestCounterLabelMismatch(t *testing.T) {
	c := NewCounter("test_total", "operation")
	if err := c.Inc("a", "b"); !errors.Is(err, ErrLabelCountMismatch) {
		t.Errorf("expected ErrLabelCountMismatch, got %v", err)
	}
	if err := c.Inc(); !errors.Is(err, ErrLabelCountMismatch) {
		t.Errorf("expected ErrLabelCountMismatch, got %v", err)
	}
}

func TestCounterConcurrent(t *testing.T) {
	c := NewCounter("test_total", "op")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = c.Inc("x")
			}
		}()
	}
	wg.Wait()

	if got := c.Value("x"); got != 1000 {
		t.Errorf("concurrent count = %d, want 1000", got)
	}
}

func TestCounterSnapshot(t *testing.T) {
	c := NewCounter("test_total", "op")
	_ = c.Inc("a")
	_ = c.Inc("b")
	_ = c.Inc("b")

	snap := c.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot size = %d, want 2", len(snap))
	}
	if snap["a"] != 1 || snap["b"] != 2 {
		t.Errorf("unexpected snapshot: %v", snap)
	}
}
