// Package octree implements a dynamic octree over 3D points. Regions subdivide lazily down to a
// minimum edge length, the root grows outward to admit points beyond its bounds, and empty regions
// can be pruned once they have gone stale according to a caller supplied clock.
//
// A Tree is not safe for concurrent use; callers sharing a tree across goroutines must serialize
// access themselves.
package octree

import (
	"cmp"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/spatialkit/logging"
	"go.viam.com/spatialkit/spatialmath"
)

// ErrInvalidConfiguration is returned when a tree cannot be built with the requested region and
// minimum size.
var ErrInvalidConfiguration = errors.New("invalid octree configuration")

// Entry is a stored item and the position it was added at.
type Entry[T any] struct {
	Position r3.Vector
	Item     T
}

// Tree indexes items of type T by position. Mutations are stamped with values of S read from the
// tree's clock; Shrink compares those stamps against a cutoff.
type Tree[T comparable, S cmp.Ordered] struct {
	logger  logging.Logger
	minSize float64
	clock   func() S

	nodes []node[T, S]
	free  []nodeID
	root  nodeID
	size  int
}

// New creates an empty tree covering region. Regions stop subdividing once an octant would have an
// edge shorter than minSize.
func New[T comparable, S cmp.Ordered](
	region spatialmath.Box,
	minSize float64,
	clock func() S,
	logger logging.Logger,
) (*Tree[T, S], error) {
	if !(minSize > 0) || math.IsInf(minSize, 1) {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "min size must be positive, got %v", minSize)
	}
	if clock == nil {
		return nil, errors.Wrap(ErrInvalidConfiguration, "clock must be set")
	}
	if !finite(region.Center) || !finite(region.Extents) {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "region %v is not finite", region)
	}
	if region.SmallerThan(minSize) {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "region %v is smaller than min size %v", region, minSize)
	}
	if logger == nil {
		logger = logging.NewBlankLogger("octree")
	}

	t := &Tree[T, S]{
		logger:  logger,
		minSize: minSize,
		clock:   clock,
	}
	t.root = t.newNode(region, noNode)
	return t, nil
}

// MinSize returns the smallest edge length a region may have.
func (t *Tree[T, S]) MinSize() float64 {
	return t.minSize
}

// Region returns the region covered by the root.
func (t *Tree[T, S]) Region() spatialmath.Box {
	return t.nodes[t.root].region
}

// Len returns the number of stored entries.
func (t *Tree[T, S]) Len() int {
	return t.size
}

// NodeCount returns the number of live nodes, the root included.
func (t *Tree[T, S]) NodeCount() int {
	return len(t.nodes) - len(t.free)
}

// Add stores item at position p. If p lies outside the root the tree grows, doubling the root
// towards p until p is covered.
func (t *Tree[T, S]) Add(p r3.Vector, item T) error {
	if !finite(p) {
		return errors.Errorf("cannot add item at non-finite position %v", p)
	}
	for !t.nodes[t.root].region.Contains(p) {
		if err := t.grow(p); err != nil {
			return err
		}
	}

	id := t.root
	for !t.nodes[id].leaf {
		region := t.nodes[id].region
		octant := region.Octant(p)
		child := t.nodes[id].children[octant]
		if child == noNode {
			child = t.newNode(region.OctantBox(octant), id)
			t.nodes[id].children[octant] = child
		}
		id = child
	}

	leaf := &t.nodes[id]
	leaf.entries = append(leaf.entries, Entry[T]{Position: p, Item: item})
	leaf.modified = t.clock()
	t.size++
	return nil
}

// grow replaces the root with a parent twice its size. Per axis the parent extends towards the
// positive side when p is at or beyond the old minimum corner, otherwise towards the negative side,
// so the old root becomes one of the parent's octants.
func (t *Tree[T, S]) grow(p r3.Vector) error {
	old := t.root
	oldRegion := t.nodes[old].region
	lo := oldRegion.Min()
	ext := oldRegion.Extents

	parentRegion := spatialmath.Box{
		Center: r3.Vector{
			X: oldRegion.Center.X + growthSign(p.X, lo.X)*ext.X,
			Y: oldRegion.Center.Y + growthSign(p.Y, lo.Y)*ext.Y,
			Z: oldRegion.Center.Z + growthSign(p.Z, lo.Z)*ext.Z,
		},
		Extents: ext.Mul(2),
	}
	if !finite(parentRegion.Center) || !finite(parentRegion.Extents) {
		return errors.Errorf("cannot grow octree past %v to reach %v", oldRegion, p)
	}

	root := t.newNode(parentRegion, noNode)
	if t.nodes[root].leaf {
		// a root at exactly twice the min size cannot subdivide, so it absorbs the old root's entries
		t.nodes[root].entries = t.nodes[old].entries
		t.nodes[root].modified = t.nodes[old].modified
		t.nodes[old].entries = nil
		t.release(old)
	} else {
		// the old root keeps its own region so stored positions stay inside it; it matches the
		// parent's octant box up to rounding
		t.nodes[old].parent = root
		t.nodes[root].children[parentRegion.Octant(oldRegion.Center)] = old
	}
	t.root = root

	t.logger.Debugw("grew octree root", "region", parentRegion.String(), "target", p)
	return nil
}

func growthSign(v, lo float64) float64 {
	if v >= lo {
		return 1
	}
	return -1
}

// Remove deletes the first entry holding item. It reports whether an entry was removed.
func (t *Tree[T, S]) Remove(item T) bool {
	return t.RemoveFunc(func(other T) bool {
		return other == item
	})
}

// RemoveFunc deletes the first entry whose item satisfies match. Nodes are searched depth first in
// octant order and entries within a leaf in insertion order.
func (t *Tree[T, S]) RemoveFunc(match func(T) bool) bool {
	stack := []nodeID{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[id]
		if !n.leaf {
			for i := len(n.children) - 1; i >= 0; i-- {
				if child := n.children[i]; child != noNode {
					stack = append(stack, child)
				}
			}
			continue
		}
		for i, e := range n.entries {
			if match(e.Item) {
				n.entries = append(n.entries[:i], n.entries[i+1:]...)
				n.modified = t.clock()
				t.size--
				return true
			}
		}
	}
	return false
}

// Clear drops every node and entry. The tree keeps its current root region.
func (t *Tree[T, S]) Clear() {
	region := t.nodes[t.root].region
	clear(t.nodes)
	t.nodes = t.nodes[:0]
	t.free = t.free[:0]
	t.size = 0
	t.root = t.newNode(region, noNode)
}

func finite(v r3.Vector) bool {
	for _, f := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
