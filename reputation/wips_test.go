package reputation

import "testing"

func TestWipActivatesAboveThreshold(t *testing.T) {
	w := NewWipActivation(4, 75)
	w.Register("WIP-0027", 0)

	for i := 0; i < 3; i++ {
		w.ObserveBlockVersion(0b1) // yes
	}
	w.ObserveBlockVersion(0b0) // no

	activated := w.CloseWindow()
	if len(activated) != 1 || activated[0] != "WIP-0027" {
		t.Fatalf("expected WIP-0027 to activate at 75%%, got %v", activated)
	}
	if !w.Active()["WIP-0027"] {
		t.Fatalf("expected WIP-0027 in Active() set")
	}
}

func TestWipStaysPendingBelowThreshold(t *testing.T) {
	w := NewWipActivation(4, 75)
	w.Register("WIP-0028", 1)

	w.ObserveBlockVersion(0b10)
	w.ObserveBlockVersion(0)
	w.ObserveBlockVersion(0)
	w.ObserveBlockVersion(0)

	activated := w.CloseWindow()
	if len(activated) != 0 {
		t.Fatalf("expected no activation at 25%%, got %v", activated)
	}
	if w.Active()["WIP-0028"] {
		t.Fatalf("WIP-0028 should not be active yet")
	}
}

func TestOnceActiveStopsCountingVotes(t *testing.T) {
	w := NewWipActivation(2, 50)
	w.Register("WIP-1", 0)
	w.ObserveBlockVersion(1)
	w.ObserveBlockVersion(1)
	w.CloseWindow()
	if !w.Active()["WIP-1"] {
		t.Fatalf("expected WIP-1 active after first window")
	}

	// Re-registering an active WIP must be a no-op.
	w.Register("WIP-1", 5)
	if w.bit["WIP-1"] != 0 {
		t.Fatalf("re-registering an active WIP must not change its bit")
	}
}
