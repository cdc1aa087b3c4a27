package fib

import "testing"

// spec.md §8: FIB install is idempotent — running the same tick twice
// yields the same FIB state.
func TestRecorderIdempotentOnRepeatedInstall(t *testing.T) {
	r := &Recorder{}

	r.Install("10.0.3.0/24", "10.0.0.2")
	r.Install("10.0.3.0/24", "10.0.0.2")

	nextHop, ok := r.Last("10.0.3.0/24")
	if !ok || nextHop != "10.0.0.2" {
		t.Fatalf("Last(10.0.3.0/24) = %v, %v; want 10.0.0.2, true", nextHop, ok)
	}
	if len(r.Calls) != 2 {
		t.Fatalf("expected both calls recorded, got %d", len(r.Calls))
	}
}

func TestRecorderLastReflectsMostRecentInstall(t *testing.T) {
	r := &Recorder{}

	r.Install("10.0.3.0/24", "10.0.0.2")
	r.Install("10.0.3.0/24", "10.0.0.5") // alternate next hop after reconvergence

	nextHop, ok := r.Last("10.0.3.0/24")
	if !ok || nextHop != "10.0.0.5" {
		t.Fatalf("Last(10.0.3.0/24) = %v, %v; want 10.0.0.5, true", nextHop, ok)
	}
}
