package spatialmath

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestBoxBounds(t *testing.T) {
	b := NewBox(r3.Vector{X: 1, Y: 2, Z: 3}, r3.Vector{X: 2, Y: 4, Z: 6})
	test.That(t, b.Min(), test.ShouldResemble, r3.Vector{X: 0, Y: 0, Z: 0})
	test.That(t, b.Max(), test.ShouldResemble, r3.Vector{X: 2, Y: 4, Z: 6})
	test.That(t, b.Size(), test.ShouldResemble, r3.Vector{X: 2, Y: 4, Z: 6})
}

func TestBoxContains(t *testing.T) {
	b := NewBox(r3.Vector{}, r3.Vector{X: 2, Y: 2, Z: 2})

	t.Run("points", func(t *testing.T) {
		test.That(t, b.Contains(r3.Vector{}), test.ShouldBeTrue)
		test.That(t, b.Contains(r3.Vector{X: 1, Y: -1, Z: 1}), test.ShouldBeTrue)
		test.That(t, b.Contains(r3.Vector{X: 1.01}), test.ShouldBeFalse)
		test.That(t, b.Contains(r3.Vector{Z: -1.01}), test.ShouldBeFalse)
	})

	t.Run("balls", func(t *testing.T) {
		test.That(t, b.ContainsBall(r3.Vector{}, 0.5), test.ShouldBeTrue)
		test.That(t, b.ContainsBall(r3.Vector{}, 1), test.ShouldBeFalse)
		test.That(t, b.ContainsBall(r3.Vector{X: 0.6}, 0.5), test.ShouldBeFalse)
	})
}

func TestBoxSqDistance(t *testing.T) {
	b := NewBox(r3.Vector{}, r3.Vector{X: 2, Y: 2, Z: 2})
	test.That(t, b.SqDistance(r3.Vector{X: 0.5}), test.ShouldEqual, 0)
	test.That(t, b.SqDistance(r3.Vector{X: 3}), test.ShouldAlmostEqual, 4)
	test.That(t, b.SqDistance(r3.Vector{X: 2, Y: 2, Z: 2}), test.ShouldAlmostEqual, 3)
	test.That(t, b.SqDistance(r3.Vector{X: -2, Y: 0, Z: 3}), test.ShouldAlmostEqual, 5)
}

func TestBoxOctants(t *testing.T) {
	b := NewBox(r3.Vector{}, r3.Vector{X: 4, Y: 4, Z: 4})

	cases := []struct {
		point  r3.Vector
		octant int
	}{
		{r3.Vector{X: 1, Y: 1, Z: 1}, EastTopNorth},
		{r3.Vector{X: -1, Y: 1, Z: 1}, WestTopNorth},
		{r3.Vector{X: 1, Y: 1, Z: -1}, EastTopSouth},
		{r3.Vector{X: -1, Y: 1, Z: -1}, WestTopSouth},
		{r3.Vector{X: 1, Y: -1, Z: 1}, EastBottomNorth},
		{r3.Vector{X: -1, Y: -1, Z: 1}, WestBottomNorth},
		{r3.Vector{X: 1, Y: -1, Z: -1}, EastBottomSouth},
		{r3.Vector{X: -1, Y: -1, Z: -1}, WestBottomSouth},
		// the center belongs to the east, top, north octant
		{r3.Vector{}, EastTopNorth},
	}
	for _, c := range cases {
		octant := b.Octant(c.point)
		test.That(t, octant, test.ShouldEqual, c.octant)

		child := b.OctantBox(octant)
		test.That(t, child.Contains(c.point), test.ShouldBeTrue)
		test.That(t, child.Size(), test.ShouldResemble, r3.Vector{X: 2, Y: 2, Z: 2})
	}

	// the eight octants tile the parent
	var volume float64
	for i := 0; i < 8; i++ {
		s := b.OctantBox(i).Size()
		volume += s.X * s.Y * s.Z
		test.That(t, b.Contains(b.OctantBox(i).Center), test.ShouldBeTrue)
	}
	test.That(t, volume, test.ShouldAlmostEqual, 64)
}

func TestBoxDivisible(t *testing.T) {
	test.That(t, NewBox(r3.Vector{}, r3.Vector{X: 4, Y: 4, Z: 4}).Divisible(1), test.ShouldBeTrue)
	test.That(t, NewBox(r3.Vector{}, r3.Vector{X: 2, Y: 2, Z: 2}).Divisible(1), test.ShouldBeFalse)
	test.That(t, NewBox(r3.Vector{}, r3.Vector{X: 4, Y: 2, Z: 4}).Divisible(1), test.ShouldBeFalse)
	test.That(t, NewBox(r3.Vector{}, r3.Vector{X: 4, Y: 0.5, Z: 4}).SmallerThan(1), test.ShouldBeTrue)
	test.That(t, NewBox(r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1}).SmallerThan(1), test.ShouldBeFalse)
}
