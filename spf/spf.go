// Package spf implements the constrained-path SPF engine of spec.md
// §4.6: Dijkstra over a topology.Graph's cost weights, with per-edge
// bandwidth/latency pruning from an intent's constraints and
// deterministic insertion-order tie-breaking. Grounded on the teacher's
// routing.dijkstraPriorityQueue/buildRoutingTable (container/heap,
// index-tracked heap.Fix updates), generalized from "next hop reachable
// in one hop" relaxation to full edge-weighted relaxation with path
// reconstruction and constraint pruning.
package spf

import (
	"container/heap"

	"github.com/linkstate/intentd/topology"
)

// Constraints bounds which edges SPF may traverse. A nil field means
// unconstrained in that dimension.
type Constraints struct {
	MaxLatency   *int
	MinBandwidth *int
}

// node is one heap entry: current best known cost/latency to reach it,
// and the path taken so far. insertion records the order in which heap
// entries were pushed, breaking ties deterministically (spec.md §4.6).
type node struct {
	id        topology.NodeId
	cost      int
	latency   int
	path      []topology.NodeId
	insertion int
	index     int // heap.Interface bookkeeping
}

type priorityQueue []*node

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].cost != pq[j].cost {
		return pq[i].cost < pq[j].cost
	}
	return pq[i].insertion < pq[j].insertion
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	n := x.(*node)
	n.index = len(*pq)
	*pq = append(*pq, n)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// Run computes a constrained shortest path from src to dst over graph,
// per spec.md §4.6. It returns the path [src, ..., dst] (inclusive) and
// true if one was found under the given constraints, or (nil, false) if
// the heap empties first.
//
// Edges are pruned per-edge (bandwidth/latency), a best-known cost is
// tracked per node so stale heap entries are discarded on pop, and ties
// in cost are broken by insertion order — identical inputs always
// produce the identical path.
func Run(graph *topology.Graph, src, dst topology.NodeId, c Constraints) ([]topology.NodeId, bool) {
	best := map[topology.NodeId]int{src: 0}
	insertionCounter := 0

	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &node{
		id:        src,
		cost:      0,
		latency:   0,
		path:      []topology.NodeId{src},
		insertion: insertionCounter,
	})
	insertionCounter++

	for pq.Len() > 0 {
		current := heap.Pop(pq).(*node)

		if knownBest, ok := best[current.id]; ok && current.cost > knownBest {
			continue // stale entry, a better path to this node already won
		}

		if current.id == dst {
			return current.path, true
		}

		for _, edge := range graph.Adj[current.id] {
			if c.MinBandwidth != nil && edge.Bandwidth < *c.MinBandwidth {
				continue
			}
			newLatency := current.latency + edge.Latency
			if c.MaxLatency != nil && newLatency > *c.MaxLatency {
				continue
			}

			newCost := current.cost + edge.Cost
			if knownBest, ok := best[edge.To]; ok && newCost >= knownBest {
				continue
			}
			best[edge.To] = newCost

			path := make([]topology.NodeId, len(current.path)+1)
			copy(path, current.path)
			path[len(current.path)] = edge.To

			heap.Push(pq, &node{
				id:        edge.To,
				cost:      newCost,
				latency:   newLatency,
				path:      path,
				insertion: insertionCounter,
			})
			insertionCounter++
		}
	}

	return nil, false
}

// Unconstrained runs Run with no bandwidth/latency predicate, i.e. plain
// Dijkstra over cost (spec.md §8: "for every SPF result P with no
// constraints, cost(P) equals min-cost over all S->D paths").
func Unconstrained(graph *topology.Graph, src, dst topology.NodeId) ([]topology.NodeId, bool) {
	return Run(graph, src, dst, Constraints{})
}
