package motionplan

import "math"

// FindOpenNodes returns every node whose distance from origin is at most maxDistance, origin
// excluded. Nodes are written over out[:0] in the order they were first discovered. Distances are
// settled Dijkstra style, so a node reachable within budget by any path is found even if the first
// path to reach it was too long.
func (pf *Pathfinder[N]) FindOpenNodes(origin N, maxDistance float64, out []N) []N {
	out = out[:0]
	pf.reset()
	if math.IsNaN(maxDistance) {
		return out
	}

	pf.gScore[origin] = 0
	pf.open.push(origin, 0)
	for pf.open.Len() > 0 {
		current := pf.open.pop()
		pf.closed[current] = struct{}{}

		currentScore := pf.gScore[current]
		for _, neighbor := range pf.expand(current) {
			if _, settled := pf.closed[neighbor.Node]; settled {
				continue
			}
			score := currentScore + neighbor.Distance
			if score > maxDistance {
				continue
			}
			if pf.open.contains(neighbor.Node) {
				if score >= pf.gScore[neighbor.Node] {
					continue
				}
				pf.open.update(neighbor.Node, score)
			} else {
				pf.open.push(neighbor.Node, score)
				out = append(out, neighbor.Node)
			}
			pf.gScore[neighbor.Node] = score
		}
	}
	return out
}
