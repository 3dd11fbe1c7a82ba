package motionplan

import "container/heap"

type openNode[N comparable] struct {
	node  N
	score float64
	seq   uint64
	index int
}

// openSet is a min-heap of nodes keyed by score. Ties go to the node opened first; a node keeps its
// original place in that order when its score is lowered.
type openSet[N comparable] struct {
	items  []*openNode[N]
	byNode map[N]*openNode[N]
	seq    uint64
}

func newOpenSet[N comparable]() openSet[N] {
	return openSet[N]{byNode: map[N]*openNode[N]{}}
}

func (s *openSet[N]) reset() {
	clear(s.items)
	s.items = s.items[:0]
	clear(s.byNode)
	s.seq = 0
}

func (s *openSet[N]) contains(node N) bool {
	_, ok := s.byNode[node]
	return ok
}

func (s *openSet[N]) push(node N, score float64) {
	item := &openNode[N]{node: node, score: score, seq: s.seq}
	s.seq++
	s.byNode[node] = item
	heap.Push(s, item)
}

func (s *openSet[N]) update(node N, score float64) {
	item := s.byNode[node]
	item.score = score
	heap.Fix(s, item.index)
}

func (s *openSet[N]) pop() N {
	item := heap.Pop(s).(*openNode[N])
	delete(s.byNode, item.node)
	return item.node
}

func (s *openSet[N]) Len() int { return len(s.items) }

func (s *openSet[N]) Less(i, j int) bool {
	a, b := s.items[i], s.items[j]
	if a.score != b.score {
		return a.score < b.score
	}
	return a.seq < b.seq
}

func (s *openSet[N]) Swap(i, j int) {
	s.items[i], s.items[j] = s.items[j], s.items[i]
	s.items[i].index = i
	s.items[j].index = j
}

func (s *openSet[N]) Push(x any) {
	item := x.(*openNode[N])
	item.index = len(s.items)
	s.items = append(s.items, item)
}

func (s *openSet[N]) Pop() any {
	last := len(s.items) - 1
	item := s.items[last]
	s.items[last] = nil
	item.index = -1
	s.items = s.items[:last]
	return item
}
