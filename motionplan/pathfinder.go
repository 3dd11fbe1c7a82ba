// Package motionplan finds shortest paths over graphs that are discovered on demand. A graph only
// needs to enumerate the neighbors of a node and estimate the distance between two nodes; the
// pathfinder never builds the graph itself.
//
// A Pathfinder reuses its bookkeeping between searches and so runs one search at a time. Separate
// Pathfinder values are independent and may search concurrently.
package motionplan

import (
	"github.com/pkg/errors"

	"go.viam.com/spatialkit/logging"
	"go.viam.com/spatialkit/utils"
)

// Neighbor is a node reachable in one step and the length of that step.
type Neighbor[N comparable] struct {
	Node     N
	Distance float64
}

// Graph supplies the edges and distance estimates a Pathfinder searches over.
type Graph[N comparable] interface {
	// Heuristic estimates the distance from a to b. It must be non-negative, and paths are only
	// guaranteed to be shortest when it never overestimates.
	Heuristic(a, b N) float64

	// FindNeighbors appends every node directly reachable from node, other than node itself, to out
	// and returns the extended slice. Distances must be non-negative.
	FindNeighbors(node N, out []Neighbor[N]) []Neighbor[N]
}

// Config holds the limits applied to every search of a Pathfinder.
type Config struct {
	// MaxLength caps the number of edges in a returned path. Zero means no cap.
	MaxLength int `json:"max_length,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.MaxLength < 0 {
		return utils.NewConfigValidationError(path,
			errors.Errorf("max_length must be non-negative, got %d", cfg.MaxLength))
	}
	return nil
}

// Pathfinder runs A* and bounded Dijkstra searches over a Graph.
type Pathfinder[N comparable] struct {
	graph     Graph[N]
	logger    logging.Logger
	maxLength int
	filter    func(N) bool

	open      openSet[N]
	closed    map[N]struct{}
	cameFrom  map[N]N
	gScore    map[N]float64
	neighbors []Neighbor[N]
}

// NewPathfinder returns a Pathfinder searching g.
func NewPathfinder[N comparable](g Graph[N], cfg Config, logger logging.Logger) (*Pathfinder[N], error) {
	if g == nil {
		return nil, errors.New("pathfinder requires a graph")
	}
	if err := cfg.Validate("pathfinder"); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewBlankLogger("pathfinder")
	}
	return &Pathfinder[N]{
		graph:     g,
		logger:    logger,
		maxLength: cfg.MaxLength,
		open:      newOpenSet[N](),
		closed:    map[N]struct{}{},
		cameFrom:  map[N]N{},
		gScore:    map[N]float64{},
	}, nil
}

// SetFilter restricts searches to nodes for which traversable returns true. The origin of a search
// is never filtered. A nil filter admits every node.
func (pf *Pathfinder[N]) SetFilter(traversable func(N) bool) {
	pf.filter = traversable
}

func (pf *Pathfinder[N]) reset() {
	pf.open.reset()
	clear(pf.closed)
	clear(pf.cameFrom)
	clear(pf.gScore)
}

// expand returns the traversable neighbors of node. The slice is reused by the next call.
func (pf *Pathfinder[N]) expand(node N) []Neighbor[N] {
	pf.neighbors = pf.graph.FindNeighbors(node, pf.neighbors[:0])
	if pf.filter == nil {
		return pf.neighbors
	}
	kept := pf.neighbors[:0]
	for _, n := range pf.neighbors {
		if pf.filter(n.Node) {
			kept = append(kept, n)
		}
	}
	pf.neighbors = kept
	return kept
}
