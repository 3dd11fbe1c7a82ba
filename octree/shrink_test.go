package octree

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/spatialkit/logging"
	"go.viam.com/spatialkit/spatialmath"
)

func TestShrink(t *testing.T) {
	t.Run("keeps fresh regions and frees stale ones", func(t *testing.T) {
		tree, frames := newTestTree(t, 16, 1)
		frames.Advance(1)
		test.That(t, tree.Add(r3.Vector{X: 5, Y: 5, Z: 5}, 0), test.ShouldBeNil)
		test.That(t, tree.NodeCount(), test.ShouldEqual, 4)

		frames.Advance(1)
		test.That(t, tree.Remove(0), test.ShouldBeTrue)

		// emptied at frame 2, which is after the cutoff
		test.That(t, tree.Shrink(1), test.ShouldEqual, 0)
		test.That(t, tree.NodeCount(), test.ShouldEqual, 4)

		frames.Advance(3)
		test.That(t, tree.Shrink(3), test.ShouldEqual, 3)
		test.That(t, tree.NodeCount(), test.ShouldEqual, 1)
		checkStructure(t, tree)

		// freed slots are reused
		test.That(t, tree.Add(r3.Vector{X: -5, Y: 5, Z: -5}, 1), test.ShouldBeNil)
		test.That(t, tree.NodeCount(), test.ShouldEqual, 4)
		test.That(t, len(tree.nodes), test.ShouldEqual, 4)
		test.That(t, tree.Find(r3.Vector{X: -5, Y: 5, Z: -5}, 1e-9), test.ShouldResemble, []int{1})
		checkStructure(t, tree)
	})

	t.Run("occupied regions survive", func(t *testing.T) {
		tree, frames := newTestTree(t, 16, 1)
		test.That(t, tree.Add(r3.Vector{X: 5, Y: 5, Z: 5}, 0), test.ShouldBeNil)
		test.That(t, tree.Add(r3.Vector{X: -5, Y: -5, Z: -5}, 1), test.ShouldBeNil)
		test.That(t, tree.Add(r3.Vector{X: 5.5, Y: 5.5, Z: 5.5}, 2), test.ShouldBeNil)
		nodes := tree.NodeCount()

		test.That(t, tree.Remove(0), test.ShouldBeTrue)
		frames.Advance(10)
		// the leaf holding 0 still holds 2
		test.That(t, tree.Shrink(10), test.ShouldEqual, 0)

		test.That(t, tree.Remove(1), test.ShouldBeTrue)
		test.That(t, tree.Shrink(10), test.ShouldEqual, 3)
		test.That(t, tree.NodeCount(), test.ShouldEqual, nodes-3)
		test.That(t, tree.Find(r3.Vector{X: 5.5, Y: 5.5, Z: 5.5}, 1e-9), test.ShouldResemble, []int{2})
		test.That(t, tree.Len(), test.ShouldEqual, 1)
		checkStructure(t, tree)
	})

	t.Run("root is never freed", func(t *testing.T) {
		tree, frames := newTestTree(t, 2, 1)
		test.That(t, tree.Add(r3.Vector{}, 0), test.ShouldBeNil)
		test.That(t, tree.Remove(0), test.ShouldBeTrue)
		frames.Advance(100)
		test.That(t, tree.Shrink(100), test.ShouldEqual, 0)
		test.That(t, tree.NodeCount(), test.ShouldEqual, 1)
		test.That(t, tree.Add(r3.Vector{}, 1), test.ShouldBeNil)
		test.That(t, tree.Find(r3.Vector{}, 0), test.ShouldResemble, []int{1})
	})

	t.Run("logs freed nodes", func(t *testing.T) {
		logger, logs := logging.NewObservedTestLogger(t)
		frames := &FrameClock{}
		tree, err := New[int](spatialmath.NewBox(r3.Vector{}, r3.Vector{X: 8, Y: 8, Z: 8}), 1, frames.Now, logger)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, tree.Add(r3.Vector{X: 1}, 0), test.ShouldBeNil)
		test.That(t, tree.Remove(0), test.ShouldBeTrue)
		test.That(t, tree.Shrink(0), test.ShouldEqual, 2)

		entries := logs.FilterMessage("shrank octree").All()
		test.That(t, entries, test.ShouldHaveLength, 1)
		test.That(t, entries[0].ContextMap()["freed"], test.ShouldEqual, int64(2))
	})
}

func TestShrinkWallClock(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Unix(1000, 0))
	tree, err := New[string](
		spatialmath.NewBox(r3.Vector{}, r3.Vector{X: 8, Y: 8, Z: 8}),
		1,
		WallClock(mock),
		logging.NewTestLogger(t),
	)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, tree.Add(r3.Vector{X: 1, Y: 1, Z: 1}, "drone"), test.ShouldBeNil)
	mock.Add(time.Second)
	test.That(t, tree.Remove("drone"), test.ShouldBeTrue)
	emptied := mock.Now()

	mock.Add(time.Minute)
	test.That(t, tree.Shrink(emptied.Add(-time.Millisecond).UnixNano()), test.ShouldEqual, 0)
	test.That(t, tree.Shrink(mock.Now().Add(-30*time.Second).UnixNano()), test.ShouldEqual, 2)
	test.That(t, tree.NodeCount(), test.ShouldEqual, 1)
}

func TestVisit(t *testing.T) {
	tree, frames := newTestTree(t, 16, 1)
	test.That(t, tree.Add(r3.Vector{X: 1, Y: 1, Z: 1}, 1), test.ShouldBeNil)
	frames.Advance(4)
	test.That(t, tree.Add(r3.Vector{X: -1, Y: -1, Z: -1}, 2), test.ShouldBeNil)

	var regions []spatialmath.Box
	items := map[int]uint64{}
	tree.Visit(func(region spatialmath.Box, entries []Entry[int], modified uint64) {
		regions = append(regions, region)
		for _, e := range entries {
			items[e.Item] = modified
		}
	})
	test.That(t, len(regions), test.ShouldEqual, tree.NodeCount())
	test.That(t, regions[0], test.ShouldResemble, tree.Region())
	test.That(t, items, test.ShouldResemble, map[int]uint64{1: 0, 2: 4})
}

func TestFrameClock(t *testing.T) {
	var frames FrameClock
	test.That(t, frames.Now(), test.ShouldEqual, uint64(0))
	test.That(t, frames.Advance(3), test.ShouldEqual, uint64(3))
	test.That(t, frames.Advance(1), test.ShouldEqual, uint64(4))
	test.That(t, frames.Now(), test.ShouldEqual, uint64(4))
}
