// Package common holds process-wide constants, grounded on the
// teacher's common package (a flat const block for protocol tunables).
package common

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	// PortBase and ControlBase derive a node's two UDP ports from the
	// numeric suffix of its NodeId (spec.md §6): "r1" -> 10001/20001.
	PortBase    = 10000
	ControlBase = 20000

	// TDead is the neighbor staleness timeout (spec.md §5).
	TDead = 15 * time.Second
	// TTick is the reconciliation loop period (spec.md §5, §4.7).
	TTick = 10 * time.Second
	// TSettle is the delay between LSA flood and SPF/FIB install
	// within a tick, giving flooded LSAs time to arrive (spec.md §4.7).
	TSettle = 1500 * time.Millisecond
)

// nodeIdPattern matches the `<letter><digits>` NodeId convention spec.md
// §6 assumes, e.g. "r1" or "pc12".
var nodeIdPattern = regexp.MustCompile(`^[A-Za-z]+(\d+)$`)

// Ports derives a node's protocol and control UDP ports from its NodeId
// suffix, per spec.md §6: PortBase+numeric(suffix), ControlBase+numeric(suffix).
func Ports(nodeId string) (protocolPort, controlPort int, err error) {
	m := nodeIdPattern.FindStringSubmatch(nodeId)
	if m == nil {
		return 0, 0, fmt.Errorf("common: NodeId %q does not match <letter><digits>", nodeId)
	}
	suffix, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, err
	}
	return PortBase + suffix, ControlBase + suffix, nil
}
