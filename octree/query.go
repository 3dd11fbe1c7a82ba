package octree

import (
	"container/heap"
	"iter"

	"github.com/golang/geo/r3"
)

// Find returns the items stored within rng of origin, by euclidean distance.
//
// The search starts at the deepest existing node containing origin and climbs while the query ball
// reaches outside the current node or into one of its siblings. Only the subtree at the node where
// the climb stops is scanned.
func (t *Tree[T, S]) Find(origin r3.Vector, rng float64) []T {
	var out []T
	t.find(origin, rng, func(e Entry[T]) {
		out = append(out, e.Item)
	})
	return out
}

// FindEntries is like Find but returns positions alongside the items.
func (t *Tree[T, S]) FindEntries(origin r3.Vector, rng float64) []Entry[T] {
	var out []Entry[T]
	t.find(origin, rng, func(e Entry[T]) {
		out = append(out, e)
	})
	return out
}

func (t *Tree[T, S]) find(origin r3.Vector, rng float64, emit func(Entry[T])) {
	if !(rng >= 0) || !finite(origin) {
		return
	}
	rangeSq := rng * rng

	stack := []nodeID{t.searchRoot(origin, rng)}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[id]
		if n.region.SqDistance(origin) > rangeSq {
			continue
		}
		if n.leaf {
			for _, e := range n.entries {
				if e.Position.Sub(origin).Norm2() <= rangeSq {
					emit(e)
				}
			}
			continue
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			if child := n.children[i]; child != noNode {
				stack = append(stack, child)
			}
		}
	}
}

// searchRoot returns the lowest node whose subtree holds every entry within rng of origin.
func (t *Tree[T, S]) searchRoot(origin r3.Vector, rng float64) nodeID {
	id := t.deepest(origin)
	rangeSq := rng * rng
	for id != t.root {
		n := &t.nodes[id]
		if n.region.ContainsBall(origin, rng) && !t.siblingInRange(id, origin, rangeSq) {
			break
		}
		id = n.parent
	}
	return id
}

// deepest descends from the root towards p without creating nodes.
func (t *Tree[T, S]) deepest(p r3.Vector) nodeID {
	id := t.root
	if !t.nodes[id].region.Contains(p) {
		return id
	}
	for !t.nodes[id].leaf {
		n := &t.nodes[id]
		child := n.children[n.region.Octant(p)]
		if child == noNode {
			break
		}
		id = child
	}
	return id
}

func (t *Tree[T, S]) siblingInRange(id nodeID, origin r3.Vector, rangeSq float64) bool {
	parent := t.nodes[id].parent
	if parent == noNode {
		return false
	}
	for _, sibling := range t.nodes[parent].children {
		if sibling == noNode || sibling == id {
			continue
		}
		if t.nodes[sibling].region.SqDistance(origin) <= rangeSq {
			return true
		}
	}
	return false
}

// FindNearest returns a sequence of the stored entries ordered by increasing distance from origin.
// Entries are produced lazily by a best-first walk, so stopping early skips the rest of the tree.
// The tree must not be modified while the sequence is being consumed.
func (t *Tree[T, S]) FindNearest(origin r3.Vector) iter.Seq2[r3.Vector, T] {
	return func(yield func(r3.Vector, T) bool) {
		if !finite(origin) {
			return
		}
		q := &nearestQueue[T]{}
		q.pushNode(t.root, t.nodes[t.root].region.SqDistance(origin))
		for q.Len() > 0 {
			next := heap.Pop(q).(nearestItem[T])
			if next.node == noNode {
				if !yield(next.entry.Position, next.entry.Item) {
					return
				}
				continue
			}

			n := &t.nodes[next.node]
			if n.leaf {
				for _, e := range n.entries {
					q.pushEntry(e, e.Position.Sub(origin).Norm2())
				}
				continue
			}
			for _, child := range n.children {
				if child != noNode {
					q.pushNode(child, t.nodes[child].region.SqDistance(origin))
				}
			}
		}
	}
}

// Nearest returns up to k entries closest to origin, nearest first.
func (t *Tree[T, S]) Nearest(origin r3.Vector, k int) []Entry[T] {
	if k <= 0 {
		return nil
	}
	out := make([]Entry[T], 0, min(k, t.size))
	for p, item := range t.FindNearest(origin) {
		out = append(out, Entry[T]{Position: p, Item: item})
		if len(out) == k {
			break
		}
	}
	return out
}

// nearestItem is either a node awaiting expansion or an entry awaiting output, in which case node
// is noNode.
type nearestItem[T any] struct {
	sqDist float64
	seq    uint64
	node   nodeID
	entry  Entry[T]
}

// nearestQueue is a min-heap on squared distance, ties going to the earlier push.
type nearestQueue[T any] struct {
	items []nearestItem[T]
	seq   uint64
}

func (q *nearestQueue[T]) pushNode(id nodeID, sqDist float64) {
	heap.Push(q, nearestItem[T]{sqDist: sqDist, node: id})
}

func (q *nearestQueue[T]) pushEntry(e Entry[T], sqDist float64) {
	heap.Push(q, nearestItem[T]{sqDist: sqDist, node: noNode, entry: e})
}

func (q *nearestQueue[T]) Len() int { return len(q.items) }

func (q *nearestQueue[T]) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.sqDist != b.sqDist {
		return a.sqDist < b.sqDist
	}
	return a.seq < b.seq
}

func (q *nearestQueue[T]) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *nearestQueue[T]) Push(x any) {
	item := x.(nearestItem[T])
	item.seq = q.seq
	q.seq++
	q.items = append(q.items, item)
}

func (q *nearestQueue[T]) Pop() any {
	last := len(q.items) - 1
	item := q.items[last]
	q.items[last] = nearestItem[T]{}
	q.items = q.items[:last]
	return item
}
