// Package spatialmath defines the axis-aligned regions used to partition space.
package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"

	"go.viam.com/spatialkit/utils"
)

// Octant indices. Bit 0 selects east (+X), bit 1 selects south (-Z) and bit 2 selects bottom (-Y).
const (
	WestTopNorth = iota
	EastTopNorth
	WestTopSouth
	EastTopSouth
	WestBottomNorth
	EastBottomNorth
	WestBottomSouth
	EastBottomSouth
)

const (
	octantEast   = 1
	octantSouth  = 2
	octantBottom = 4
)

// Box is an axis-aligned region of space described by its center and half extents.
type Box struct {
	Center  r3.Vector `json:"center"`
	Extents r3.Vector `json:"extents"`
}

// NewBox returns the box centered at center with the given edge lengths.
func NewBox(center, size r3.Vector) Box {
	return Box{Center: center, Extents: size.Mul(0.5)}
}

func (b Box) String() string {
	return fmt.Sprintf("Box{center: %v, size: %v}", b.Center, b.Size())
}

// Size returns the edge lengths of the box.
func (b Box) Size() r3.Vector {
	return b.Extents.Mul(2)
}

// Min returns the corner with the smallest coordinates.
func (b Box) Min() r3.Vector {
	return b.Center.Sub(b.Extents)
}

// Max returns the corner with the largest coordinates.
func (b Box) Max() r3.Vector {
	return b.Center.Add(b.Extents)
}

// Contains reports whether p lies inside the box or on its surface.
func (b Box) Contains(p r3.Vector) bool {
	lo, hi := b.Min(), b.Max()
	return p.X >= lo.X && p.X <= hi.X &&
		p.Y >= lo.Y && p.Y <= hi.Y &&
		p.Z >= lo.Z && p.Z <= hi.Z
}

// ContainsBall reports whether the ball of the given radius around p lies strictly inside the box,
// touching no face.
func (b Box) ContainsBall(p r3.Vector, radius float64) bool {
	lo, hi := b.Min(), b.Max()
	return p.X-radius > lo.X && p.X+radius < hi.X &&
		p.Y-radius > lo.Y && p.Y+radius < hi.Y &&
		p.Z-radius > lo.Z && p.Z+radius < hi.Z
}

// SqDistance returns the squared distance from p to the closest point of the box. Points inside the
// box are at distance zero.
func (b Box) SqDistance(p r3.Vector) float64 {
	lo, hi := b.Min(), b.Max()
	return utils.Square(axisGap(p.X, lo.X, hi.X)) +
		utils.Square(axisGap(p.Y, lo.Y, hi.Y)) +
		utils.Square(axisGap(p.Z, lo.Z, hi.Z))
}

func axisGap(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo - v
	case v > hi:
		return v - hi
	default:
		return 0
	}
}

// Octant returns the index of the octant of b that p falls into. Coordinates equal to the center
// go to the east, top and north halves.
func (b Box) Octant(p r3.Vector) int {
	idx := 0
	if p.X >= b.Center.X {
		idx |= octantEast
	}
	if p.Z < b.Center.Z {
		idx |= octantSouth
	}
	if p.Y < b.Center.Y {
		idx |= octantBottom
	}
	return idx
}

// OctantBox returns the region of the given octant of b.
func (b Box) OctantBox(octant int) Box {
	half := b.Extents.Mul(0.5)
	offset := half
	if octant&octantEast == 0 {
		offset.X = -offset.X
	}
	if octant&octantSouth != 0 {
		offset.Z = -offset.Z
	}
	if octant&octantBottom != 0 {
		offset.Y = -offset.Y
	}
	return Box{Center: b.Center.Add(offset), Extents: half}
}

// SmallerThan reports whether any edge of the box is shorter than minSize.
func (b Box) SmallerThan(minSize float64) bool {
	size := b.Size()
	return size.X < minSize || size.Y < minSize || size.Z < minSize
}

// Divisible reports whether every edge of the box is strictly longer than twice minSize, so that
// each of its octants is still at least minSize.
func (b Box) Divisible(minSize float64) bool {
	size := b.Size()
	limit := 2 * minSize
	return size.X > limit && size.Y > limit && size.Z > limit
}
