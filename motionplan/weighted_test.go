package motionplan

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"go.viam.com/spatialkit/logging"
)

func randomWeightedGraph(seed int64, nodes, edges int) *simple.WeightedUndirectedGraph {
	rng := rand.New(rand.NewSource(seed))
	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := 0; i < nodes; i++ {
		g.AddNode(simple.Node(i))
	}
	for i := 0; i < edges; i++ {
		a, b := rng.Intn(nodes), rng.Intn(nodes)
		if a == b || g.HasEdgeBetween(int64(a), int64(b)) {
			continue
		}
		// integer weights keep sums exact for the budget comparisons below
		g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(a), T: simple.Node(b), W: float64(1 + rng.Intn(9))})
	}
	return g
}

func pathWeight(t *testing.T, g graph.Weighted, p []int64) float64 {
	t.Helper()
	var total float64
	for i := 1; i < len(p); i++ {
		w, ok := g.Weight(p[i-1], p[i])
		test.That(t, ok, test.ShouldBeTrue)
		total += w
	}
	return total
}

func TestWeightedGraphMatchesDijkstra(t *testing.T) {
	g := randomWeightedGraph(7, 60, 110)
	pf, err := NewPathfinder[int64](NewWeightedGraph(g, nil), Config{}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	var route []int64
	for origin := int64(0); origin < 60; origin += 7 {
		shortest := path.DijkstraFrom(g.Node(origin), g)
		for destination := int64(0); destination < 60; destination++ {
			want := shortest.WeightTo(destination)

			var ok bool
			route, ok = pf.FindPath(origin, destination, math.Inf(1), route)
			test.That(t, ok, test.ShouldEqual, !math.IsInf(want, 1))
			if !ok {
				test.That(t, route, test.ShouldBeEmpty)
				continue
			}
			test.That(t, route[0], test.ShouldEqual, origin)
			test.That(t, route[len(route)-1], test.ShouldEqual, destination)
			test.That(t, pathWeight(t, g, route), test.ShouldEqual, want)

			// a budget of exactly the shortest distance still succeeds, anything less fails
			test.That(t, pf.Reachable(origin, destination, want), test.ShouldBeTrue)
			if want > 0 {
				test.That(t, pf.Reachable(origin, destination, want-0.5), test.ShouldBeFalse)
			}
		}

		for _, budget := range []float64{0, 3, 8, 15} {
			var want []int64
			for id := int64(0); id < 60; id++ {
				if id != origin && shortest.WeightTo(id) <= budget {
					want = append(want, id)
				}
			}
			got := pf.FindOpenNodes(origin, budget, nil)
			sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
			if want == nil {
				test.That(t, got, test.ShouldBeEmpty)
				continue
			}
			test.That(t, got, test.ShouldResemble, want)
		}
	}
}

func TestWeightedGraphHeuristic(t *testing.T) {
	// nodes on a number line; edge weights equal the gap between ids so |a-b| is admissible
	g := simple.NewWeightedDirectedGraph(0, math.Inf(1))
	edges := [][2]int64{{0, 1}, {1, 2}, {2, 5}, {0, 3}, {3, 5}, {5, 4}}
	for _, e := range edges {
		g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(e[0]), T: simple.Node(e[1]), W: math.Abs(float64(e[1] - e[0]))})
	}
	wg := NewWeightedGraph(g, func(a, b int64) float64 { return math.Abs(float64(a - b)) })
	test.That(t, wg.Heuristic(1, 4), test.ShouldEqual, 3.)
	test.That(t, NewWeightedGraph(g, nil).Heuristic(1, 4), test.ShouldEqual, 0.)

	pf, err := NewPathfinder[int64](wg, Config{}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	route, ok := pf.FindPath(0, 4, math.Inf(1), nil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pathWeight(t, g, route), test.ShouldEqual, 6.)
	test.That(t, route[len(route)-1], test.ShouldEqual, int64(4))

	// edges are directed, so nothing leads back to 0
	_, ok = pf.FindPath(4, 0, math.Inf(1), nil)
	test.That(t, ok, test.ShouldBeFalse)

	test.That(t, len(wg.FindNeighbors(0, nil)), test.ShouldEqual, 2)
}

func TestFindOpenNodesLaterCheaperRoute(t *testing.T) {
	g := simple.NewWeightedDirectedGraph(0, math.Inf(1))
	g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(0), T: simple.Node(1), W: 1})
	g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(0), T: simple.Node(2), W: 10})
	g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(1), T: simple.Node(2), W: 1})

	pf, err := NewPathfinder[int64](NewWeightedGraph(g, nil), Config{}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pf.FindOpenNodes(0, 3, nil), test.ShouldResemble, []int64{1, 2})
}
