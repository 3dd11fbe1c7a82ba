package octree

import (
	"go.viam.com/spatialkit/spatialmath"
)

// Shrink frees every subtree that holds no entries and was last modified at or before cutoff, and
// returns the number of nodes freed. A subtree's modification time is the latest stamp of any node
// within it, so a region emptied after cutoff survives until a later call. The root is never freed.
func (t *Tree[T, S]) Shrink(cutoff S) int {
	freed := 0
	t.shrink(t.root, cutoff, &freed)
	if freed > 0 {
		t.logger.Debugw("shrank octree", "freed", freed, "remaining", t.NodeCount())
	}
	return freed
}

// shrink prunes stale empty children of id and reports whether id's subtree is empty along with its
// latest modification stamp.
func (t *Tree[T, S]) shrink(id nodeID, cutoff S, freed *int) (bool, S) {
	if t.nodes[id].leaf {
		return len(t.nodes[id].entries) == 0, t.nodes[id].modified
	}

	empty := true
	latest := t.nodes[id].modified
	for i := range t.nodes[id].children {
		child := t.nodes[id].children[i]
		if child == noNode {
			continue
		}
		childEmpty, childLatest := t.shrink(child, cutoff, freed)
		if childEmpty && childLatest <= cutoff {
			*freed += t.release(child)
			t.nodes[id].children[i] = noNode
			continue
		}
		empty = empty && childEmpty
		latest = max(latest, childLatest)
	}
	return empty, latest
}

// Visit walks the tree depth first, calling visitor with each node's region, the entries stored
// directly in it and its last modification stamp. Internal nodes have no entries.
func (t *Tree[T, S]) Visit(visitor func(region spatialmath.Box, entries []Entry[T], modified S)) {
	stack := []nodeID{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[id]
		visitor(n.region, n.entries, n.modified)
		for i := len(n.children) - 1; i >= 0; i-- {
			if child := n.children[i]; child != noNode {
				stack = append(stack, child)
			}
		}
	}
}
