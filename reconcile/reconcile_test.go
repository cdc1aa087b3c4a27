package reconcile

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestTickRunsStepsInOrder(t *testing.T) {
	var seq []string
	record := func(name string) func() { return func() { seq = append(seq, name) } }

	l := NewLoop(20*time.Millisecond, 5*time.Millisecond,
		func(time.Time) { seq = append(seq, "purge") },
		record("hello"), record("flood"), record("install"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	l.Run(ctx)

	if len(seq) < 4 {
		t.Fatalf("expected at least one full tick sequence, got %v", seq)
	}
	for i := 0; i+3 < len(seq); i += 4 {
		got := seq[i : i+4]
		want := []string{"purge", "hello", "flood", "install"}
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("tick order = %v, want order %v", got, want)
			}
		}
	}
}

func TestTriggerImmediateRunsInstallOutOfBand(t *testing.T) {
	var installs int32

	l := NewLoop(time.Hour, time.Hour, // no tick will fire in this test's window
		func(time.Time) {}, func() {}, func() {},
		func() { atomic.AddInt32(&installs, 1) })

	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)

	l.TriggerImmediate()
	time.Sleep(20 * time.Millisecond)
	cancel()

	if atomic.LoadInt32(&installs) != 1 {
		t.Fatalf("expected exactly one immediate install, got %d", installs)
	}
}

func TestTriggerImmediateCoalesces(t *testing.T) {
	l := NewLoop(time.Hour, time.Hour, func(time.Time) {}, func() {}, func() {}, func() {})

	// A second trigger before the first is drained must not block.
	l.TriggerImmediate()
	done := make(chan struct{})
	go func() {
		l.TriggerImmediate()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("TriggerImmediate must never block the caller")
	}
}
