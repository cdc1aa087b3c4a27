// Package fib abstracts the host kernel's forwarding table as a narrow
// side-effect interface (spec.md §4.9, §9 "Side effects abstracted").
package fib

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/linkstate/intentd/topology"
	"github.com/linkstate/intentd/util/logger"
)

// Installer installs a forwarding entry for prefix via nextHop.
// install(prefix, next_hop) must be idempotent: calling it twice with
// the same arguments yields the same resulting state (spec.md §4.9).
// A returned error is non-fatal to the caller; the core logs it and
// proceeds to the next prefix (spec.md §7).
type Installer interface {
	Install(prefix topology.Prefix, nextHop topology.TransportAddr) error
}

// KernelInstaller shells out to `ip route replace`, grounded on
// original_source/router_script.py's `ip route replace {subnet} via
// {next_hop_ip}` side effect.
type KernelInstaller struct{}

func (KernelInstaller) Install(prefix topology.Prefix, nextHop topology.TransportAddr) error {
	cmd := exec.Command("ip", "route", "replace", string(prefix), "via", string(nextHop))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logger.Warnf("fib: install %s via %s failed: %v (%s)", prefix, nextHop, err, strings.TrimSpace(stderr.String()))
		return err
	}
	return nil
}

// CountKernelRoutes probes the current kernel route table size, for the
// per-tick METRIC_TABLE_SIZE observability line (spec.md §6),
// supplemented from original_source/router_script.py's
// `ip route | wc -l` probe.
func CountKernelRoutes() (int, error) {
	out, err := exec.Command("ip", "route").Output()
	if err != nil {
		return 0, err
	}
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return 0, nil
	}
	return len(lines), nil
}

// Recorder is a test double that records every install call instead of
// touching the kernel, per spec.md §9 ("tests can substitute a
// recording collaborator").
type Recorder struct {
	Calls []Call
}

type Call struct {
	Prefix  topology.Prefix
	NextHop topology.TransportAddr
}

func (r *Recorder) Install(prefix topology.Prefix, nextHop topology.TransportAddr) error {
	r.Calls = append(r.Calls, Call{Prefix: prefix, NextHop: nextHop})
	return nil
}

// Last returns the most recently installed next hop for prefix, and
// whether one exists — the idempotency-relevant view of the recorded
// state (spec.md §8: "running the same tick twice yields the same FIB
// state").
func (r *Recorder) Last(prefix topology.Prefix) (topology.TransportAddr, bool) {
	var last topology.TransportAddr
	found := false
	for _, c := range r.Calls {
		if c.Prefix == prefix {
			last = c.NextHop
			found = true
		}
	}
	return last, found
}
