package motionplan

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Cell is a position on a Grid.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

var (
	orthogonalSteps = []Cell{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	diagonalSteps   = []Cell{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}
)

// Grid is a rectangular graph of unit cells. Orthogonal steps cost 1; when diagonal movement is
// enabled a diagonal step costs sqrt(2) and may not cut the corner of a blocked cell.
type Grid struct {
	width, height int
	diagonal      bool
	blocked       map[Cell]struct{}
}

// NewGrid returns an open grid of the given dimensions.
func NewGrid(width, height int, diagonal bool) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("grid dimensions must be positive, got %dx%d", width, height)
	}
	return &Grid{width: width, height: height, diagonal: diagonal, blocked: map[Cell]struct{}{}}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Block marks cells as impassable.
func (g *Grid) Block(cells ...Cell) {
	for _, c := range cells {
		g.blocked[c] = struct{}{}
	}
}

// Unblock marks cells as passable.
func (g *Grid) Unblock(cells ...Cell) {
	for _, c := range cells {
		delete(g.blocked, c)
	}
}

// Contains reports whether c lies on the grid.
func (g *Grid) Contains(c Cell) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

// Open reports whether c lies on the grid and is not blocked.
func (g *Grid) Open(c Cell) bool {
	if !g.Contains(c) {
		return false
	}
	_, blocked := g.blocked[c]
	return !blocked
}

// Heuristic returns the manhattan distance between a and b, or the octile distance when diagonal
// movement is enabled. Neither overestimates.
func (g *Grid) Heuristic(a, b Cell) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dy := math.Abs(float64(a.Y - b.Y))
	if !g.diagonal {
		return dx + dy
	}
	return math.Max(dx, dy) + (math.Sqrt2-1)*math.Min(dx, dy)
}

// FindNeighbors appends the open cells one step from c.
func (g *Grid) FindNeighbors(c Cell, out []Neighbor[Cell]) []Neighbor[Cell] {
	for _, step := range orthogonalSteps {
		next := Cell{c.X + step.X, c.Y + step.Y}
		if g.Open(next) {
			out = append(out, Neighbor[Cell]{Node: next, Distance: 1})
		}
	}
	if !g.diagonal {
		return out
	}
	for _, step := range diagonalSteps {
		next := Cell{c.X + step.X, c.Y + step.Y}
		if g.Open(next) && g.Open(Cell{c.X + step.X, c.Y}) && g.Open(Cell{c.X, c.Y + step.Y}) {
			out = append(out, Neighbor[Cell]{Node: next, Distance: math.Sqrt2})
		}
	}
	return out
}
