// Package reconcile drives the single periodic tick of spec.md §4.7:
// HELLO broadcast, LSA origination/flood, then — after a settling
// delay — topology rebuild, SPF, and FIB install. Intent ingestion
// (§4.8) triggers the SPF/install step out-of-band between ticks.
//
// Grounded on spec.md §9 "Timers as a single ticker, not per-entity
// threads": one goroutine owns the ticker and every step runs on it, so
// a tick's settle-triggered install and an intent-triggered immediate
// pass can never overlap (they are two branches of the same select
// loop), without reconcile needing its own mutex.
package reconcile

import (
	"context"
	"time"
)

// Loop owns the ticker and calls back into the daemon for each step.
// It has no knowledge of topology/spf/fib/transport types — those are
// wired by the caller as plain closures, keeping this package a pure
// scheduler, per spec.md §2's "Reconciliation loop" component.
type Loop struct {
	tickPeriod time.Duration
	settle     time.Duration

	purgeStale        func(now time.Time)
	sendHellos        func()
	originateAndFlood func()
	computeAndInstall func()

	immediate chan struct{}
}

func NewLoop(tickPeriod, settle time.Duration, purgeStale func(time.Time), sendHellos, originateAndFlood, computeAndInstall func()) *Loop {
	return &Loop{
		tickPeriod:        tickPeriod,
		settle:            settle,
		purgeStale:        purgeStale,
		sendHellos:        sendHellos,
		originateAndFlood: originateAndFlood,
		computeAndInstall: computeAndInstall,
		immediate:         make(chan struct{}, 1),
	}
}

// TriggerImmediate requests an out-of-band SPF/install pass (spec.md
// §4.8). It never blocks: if one is already pending, this is a no-op.
func (l *Loop) TriggerImmediate() {
	select {
	case l.immediate <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is cancelled, driving the reconciliation
// schedule. Call it in its own goroutine.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.tickPeriod)
	defer ticker.Stop()

	var settleC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case now := <-ticker.C:
			l.purgeStale(now)
			l.sendHellos()
			l.originateAndFlood()
			settleC = time.After(l.settle)

		case <-settleC:
			settleC = nil
			l.computeAndInstall()

		case <-l.immediate:
			l.computeAndInstall()
		}
	}
}
