package arbiter

import "testing"

func TestWindowInsertRemove(t *testing.T) {
	w := NewWindow(100)
	w.InsertRange(100, 5) // [100,104]
	if w.Count() != 5 {
		t.Fatalf("count = %d, want 5", w.Count())
	}
	if w.Lowest() != 100 {
		t.Fatalf("lowest = %d, want 100", w.Lowest())
	}
	if w.Highest() != 104 {
		t.Fatalf("highest = %d, want 104", w.Highest())
	}

	w.Remove(100)
	if w.Lowest() != 101 {
		t.Fatalf("lowest after remove = %d, want 101", w.Lowest())
	}
	if w.Count() != 4 {
		t.Fatalf("count after remove = %d, want 4", w.Count())
	}

	for _, s := range []uint64{101, 102, 103, 104} {
		w.Remove(s)
	}
	if !w.Empty() {
		t.Fatalf("expected window empty after removing all")
	}
	if w.Lowest() != 0 {
		t.Fatalf("lowest after empty = %d, want 0", w.Lowest())
	}
}

func TestWindowResetReanchors(t *testing.T) {
	w := NewWindow(0)
	w.InsertRange(0, 3)
	w.Reset(1000)
	if w.Base() != 1000 {
		t.Fatalf("base = %d, want 1000", w.Base())
	}
	if !w.Empty() {
		t.Fatalf("expected empty after reset")
	}
	if w.Contains(1) {
		t.Fatalf("expected old bits cleared after reset")
	}
}
