package motionplan

import (
	"math"
	"slices"
)

// FindPath searches for the shortest path from origin to destination. The path, both ends
// included, is written over path[:0] and returned along with true. When no path exists the
// returned slice is empty and the result is false.
//
// A node is only admitted to the search while its distance from origin stays within maxDistance;
// use math.Inf(1) for an unbounded search. If the pathfinder has a MaxLength, a path with more
// edges than that is rejected.
func (pf *Pathfinder[N]) FindPath(origin, destination N, maxDistance float64, path []N) ([]N, bool) {
	path = path[:0]
	if !pf.search(origin, destination, maxDistance) {
		return path, false
	}
	path = pf.reconstruct(destination, path)
	if pf.maxLength > 0 && len(path)-1 > pf.maxLength {
		pf.logger.Debugw("path exceeds max length", "edges", len(path)-1, "max_length", pf.maxLength)
		return path[:0], false
	}
	return path, true
}

// Reachable reports whether FindPath would succeed, without building the path.
func (pf *Pathfinder[N]) Reachable(origin, destination N, maxDistance float64) bool {
	if !pf.search(origin, destination, maxDistance) {
		return false
	}
	return pf.maxLength == 0 || pf.hops(destination) <= pf.maxLength
}

// search runs A* until destination is taken from the open set or the open set is exhausted.
// Open nodes are ordered by f-score, and among equal scores by when they were first opened.
func (pf *Pathfinder[N]) search(origin, destination N, maxDistance float64) bool {
	pf.reset()
	if math.IsNaN(maxDistance) {
		return false
	}

	pf.gScore[origin] = 0
	pf.open.push(origin, pf.graph.Heuristic(origin, destination))
	for pf.open.Len() > 0 {
		current := pf.open.pop()
		if current == destination {
			return true
		}
		pf.closed[current] = struct{}{}

		currentScore := pf.gScore[current]
		for _, neighbor := range pf.expand(current) {
			if _, evaluated := pf.closed[neighbor.Node]; evaluated {
				continue
			}

			score := currentScore + neighbor.Distance
			if pf.open.contains(neighbor.Node) {
				if score >= pf.gScore[neighbor.Node] {
					continue
				}
				pf.open.update(neighbor.Node, score+pf.graph.Heuristic(neighbor.Node, destination))
			} else {
				if score > maxDistance {
					continue
				}
				pf.open.push(neighbor.Node, score+pf.graph.Heuristic(neighbor.Node, destination))
			}
			pf.cameFrom[neighbor.Node] = current
			pf.gScore[neighbor.Node] = score
		}
	}
	return false
}

func (pf *Pathfinder[N]) reconstruct(current N, path []N) []N {
	path = append(path, current)
	for {
		prev, ok := pf.cameFrom[current]
		if !ok {
			break
		}
		path = append(path, prev)
		current = prev
	}
	slices.Reverse(path)
	return path
}

func (pf *Pathfinder[N]) hops(current N) int {
	hops := 0
	for {
		prev, ok := pf.cameFrom[current]
		if !ok {
			return hops
		}
		hops++
		current = prev
	}
}
