package octree

import (
	"cmp"

	"go.viam.com/spatialkit/spatialmath"
)

// nodeID indexes a node in a tree's arena.
type nodeID int32

const noNode nodeID = -1

// node is either an internal node, which links to up to eight octant children, or a leaf, which
// holds entries. A node never does both.
type node[T comparable, S cmp.Ordered] struct {
	region   spatialmath.Box
	parent   nodeID
	children [8]nodeID
	entries  []Entry[T]
	leaf     bool
	modified S
}

func (t *Tree[T, S]) newNode(region spatialmath.Box, parent nodeID) nodeID {
	n := node[T, S]{
		region:   region,
		parent:   parent,
		children: [8]nodeID{noNode, noNode, noNode, noNode, noNode, noNode, noNode, noNode},
		leaf:     !region.Divisible(t.minSize),
		modified: t.clock(),
	}
	if last := len(t.free) - 1; last >= 0 {
		id := t.free[last]
		t.free = t.free[:last]
		t.nodes[id] = n
		return id
	}
	t.nodes = append(t.nodes, n)
	return nodeID(len(t.nodes) - 1)
}

// release returns the subtree rooted at id to the free list and reports how many nodes it held.
// Entries still stored in the subtree are dropped from the count of stored entries.
func (t *Tree[T, S]) release(id nodeID) int {
	released := 0
	stack := []nodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[cur]
		for _, child := range n.children {
			if child != noNode {
				stack = append(stack, child)
			}
		}
		t.size -= len(n.entries)
		*n = node[T, S]{parent: noNode}
		t.free = append(t.free, cur)
		released++
	}
	return released
}
