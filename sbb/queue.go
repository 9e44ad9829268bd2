// SPDX-License-Identifier: MIT

// Package sbb — worst-first open set.
//
// Rationale (succinct):
//  1. Selection pops the largest bound first (ties: smaller node id).
//  2. The global lower bound needs the smallest open bound; a second heap
//     with lazy deletion answers it without scanning.
//
// Complexity: Push O(log n), PopWorst O(log n), MinBound amortized O(log n).
package sbb

import (
	"container/heap"
	"math"
)

// worstHeap orders nodes by DESCENDING bound (worst-first), then ascending id.
type worstHeap []*Node

func (h worstHeap) Len() int { return len(h) }
func (h worstHeap) Less(i, j int) bool {
	if h[i].Bound != h[j].Bound {
		return h[i].Bound > h[j].Bound
	}
	return h[i].ID < h[j].ID
}
func (h worstHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *worstHeap) Push(x any) {
	n := x.(*Node)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *worstHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	old[len(old)-1] = nil
	n.index = -1
	*h = old[:len(old)-1]
	return n
}

// bestHeap orders nodes by ascending bound. Popped nodes are removed lazily.
type bestHeap []*Node

func (h bestHeap) Len() int { return len(h) }
func (h bestHeap) Less(i, j int) bool { return h[i].Bound < h[j].Bound }
func (h bestHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *bestHeap) Push(x any) { *h = append(*h, x.(*Node)) }
func (h *bestHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*h = old[:len(old)-1]
	return n
}

// openSet is the collection of unexplored nodes. Selection is worst-first;
// a second heap answers "smallest open bound" for the global lower bound in
// amortized O(log n).
type openSet struct {
	worst worstHeap
	best  bestHeap
}

// Len returns the number of open nodes.
func (s *openSet) Len() int { return s.worst.Len() }

// Push adds a node.
func (s *openSet) Push(n *Node) {
	n.done = false
	heap.Push(&s.worst, n)
	heap.Push(&s.best, n)
}

// PopWorst removes and returns the node with the largest bound.
func (s *openSet) PopWorst() *Node {
	n := heap.Pop(&s.worst).(*Node)
	n.done = true

	return n
}

// MinBound returns the smallest open bound, +Inf when empty.
func (s *openSet) MinBound() float64 {
	for s.best.Len() > 0 && s.best[0].done {
		heap.Pop(&s.best)
	}
	if s.best.Len() == 0 {
		return math.Inf(1)
	}

	return s.best[0].Bound
}
