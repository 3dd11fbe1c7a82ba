package motionplan

import (
	"gonum.org/v1/gonum/graph"
)

// WeightedGraph searches a gonum weighted graph, identifying nodes by their gonum IDs. Edge
// weights are used as distances.
type WeightedGraph struct {
	g         graph.Weighted
	heuristic func(a, b int64) float64
}

// NewWeightedGraph wraps g. A nil heuristic estimates every distance as zero, which turns A* into
// Dijkstra's algorithm.
func NewWeightedGraph(g graph.Weighted, heuristic func(a, b int64) float64) *WeightedGraph {
	return &WeightedGraph{g: g, heuristic: heuristic}
}

// Heuristic implements Graph.
func (w *WeightedGraph) Heuristic(a, b int64) float64 {
	if w.heuristic == nil {
		return 0
	}
	return w.heuristic(a, b)
}

// FindNeighbors implements Graph.
func (w *WeightedGraph) FindNeighbors(id int64, out []Neighbor[int64]) []Neighbor[int64] {
	to := w.g.From(id)
	for to.Next() {
		next := to.Node().ID()
		if next == id {
			continue
		}
		weight, ok := w.g.Weight(id, next)
		if !ok {
			continue
		}
		out = append(out, Neighbor[int64]{Node: next, Distance: weight})
	}
	return out
}
