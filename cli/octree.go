package cli

import (
	"context"
	"fmt"
	"math/rand"
	"slices"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/stat"

	"go.viam.com/spatialkit/octree"
	"go.viam.com/spatialkit/utils"
)

func (r *runner) octreeAction(c *cli.Context) error {
	cfg, err := r.loadConfig(c)
	if err != nil {
		return err
	}
	points := c.Int(octreeFlagPoints)
	if points <= 0 {
		return errors.Errorf("--%s must be positive, got %d", octreeFlagPoints, points)
	}
	radius := c.Float64(octreeFlagRange)
	if !(radius >= 0) {
		return errors.Errorf("--%s must be non-negative, got %v", octreeFlagRange, radius)
	}

	var frames octree.FrameClock
	region := cfg.Octree.Region()
	tree, err := octree.New[int, uint64](region, cfg.Octree.MinSize, frames.Now, r.logger)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(c.Int64(octreeFlagSeed)))
	scale := region.Extents.Mul(c.Float64(octreeFlagSpread))
	randomPoint := func() r3.Vector {
		return region.Center.Add(r3.Vector{
			X: (2*rng.Float64() - 1) * scale.X,
			Y: (2*rng.Float64() - 1) * scale.Y,
			Z: (2*rng.Float64() - 1) * scale.Z,
		})
	}

	entries := make([]octree.Entry[int], points)
	for i := range entries {
		entries[i] = octree.Entry[int]{Position: randomPoint(), Item: i}
		if err := tree.Add(entries[i].Position, i); err != nil {
			return err
		}
		frames.Advance(1)
	}
	grown := tree.Region()
	nodes := tree.NodeCount()

	q := &queryCheck{
		runner:  r,
		tree:    tree,
		radius:  radius,
		k:       c.Int(octreeFlagK),
		queries: c.Int(octreeFlagQueries),
		next:    randomPoint,
	}
	q.verify(c.Context, entries)

	// empty one half of the region so whole subtrees become prunable
	removed := lo.Filter(entries, func(e octree.Entry[int], _ int) bool { return e.Position.X < region.Center.X })
	kept := lo.Reject(entries, func(e octree.Entry[int], _ int) bool { return e.Position.X < region.Center.X })
	for _, e := range removed {
		if !tree.Remove(e.Item) {
			q.mismatches++
			r.logger.Warnw("failed to remove item", "item", e.Item, "position", e.Position)
		}
	}
	if tree.Len() != len(kept) {
		q.mismatches++
		r.logger.Warnw("tree size disagrees after removal", "len", tree.Len(), "expected", len(kept))
	}

	frames.Advance(cfg.Octree.PruneAfter + 1)
	freed := tree.Shrink(frames.Now() - cfg.Octree.PruneAfter - 1)
	q.verify(c.Context, kept)

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"points", points},
		{"configured region", region.String()},
		{"grown region", grown.String()},
		{"nodes", nodes},
		{"removed", len(removed)},
		{"nodes freed", freed},
		{"nodes after shrink", tree.NodeCount()},
		{"range query latency (us)", latencySummary(q.rangeLatency)},
		{"nearest query latency (us)", latencySummary(q.nearestLatency)},
		{"mismatches", q.mismatches},
	})
	fmt.Fprintln(c.App.Writer, t.Render())

	if q.mismatches > 0 {
		return errors.Errorf("%d checks disagreed with the brute force scan", q.mismatches)
	}
	return nil
}

// queryCheck compares tree queries at random origins to a scan over every stored entry.
type queryCheck struct {
	*runner
	tree    *octree.Tree[int, uint64]
	radius  float64
	k       int
	queries int
	next    func() r3.Vector

	mismatches     int
	rangeLatency   []float64
	nearestLatency []float64
}

// verify runs the queries in parallel batches. Origins are drawn up front so results only depend on
// the seed.
func (q *queryCheck) verify(ctx context.Context, entries []octree.Entry[int]) {
	origins := make([]r3.Vector, q.queries)
	for i := range origins {
		origins[i] = q.next()
	}
	batchSize := max(1, (len(origins)+utils.ParallelFactor-1)/utils.ParallelFactor)
	batches := lo.Chunk(origins, batchSize)
	rangeLatency := make([][]float64, len(batches))
	nearestLatency := make([][]float64, len(batches))

	err := utils.RunInParallel(ctx, lo.Map(batches, func(batch []r3.Vector, i int) utils.SimpleFunc {
		return func(ctx context.Context) error {
			var errs error
			for _, origin := range batch {
				if ctx.Err() != nil {
					return multierr.Append(errs, ctx.Err())
				}
				start := q.clock.Now()
				got := q.tree.Find(origin, q.radius)
				rangeLatency[i] = append(rangeLatency[i], float64(q.clock.Since(start).Microseconds()))

				want := lo.FilterMap(entries, func(e octree.Entry[int], _ int) (int, bool) {
					return e.Item, e.Position.Sub(origin).Norm2() <= q.radius*q.radius
				})
				slices.Sort(got)
				slices.Sort(want)
				if !slices.Equal(got, want) {
					errs = multierr.Append(errs, errors.Errorf(
						"range query at %v found %d items, expected %d", origin, len(got), len(want)))
				}

				start = q.clock.Now()
				nearest := q.tree.Nearest(origin, q.k)
				nearestLatency[i] = append(nearestLatency[i], float64(q.clock.Since(start).Microseconds()))

				if gotDist, wantDist := sqDistances(origin, nearest), closestSqDistances(origin, entries, q.k); !slices.Equal(gotDist, wantDist) {
					errs = multierr.Append(errs, errors.Errorf(
						"nearest query at %v found squared distances %v, expected %v", origin, gotDist, wantDist))
				}
			}
			return errs
		}
	}))
	q.rangeLatency = append(q.rangeLatency, lo.Flatten(rangeLatency)...)
	q.nearestLatency = append(q.nearestLatency, lo.Flatten(nearestLatency)...)
	if err != nil {
		q.mismatches += len(multierr.Errors(err))
		q.logger.Warnw("queries disagree with brute force scan", "error", err)
	}
}

func sqDistances(origin r3.Vector, entries []octree.Entry[int]) []float64 {
	return lo.Map(entries, func(e octree.Entry[int], _ int) float64 {
		return e.Position.Sub(origin).Norm2()
	})
}

func closestSqDistances(origin r3.Vector, entries []octree.Entry[int], k int) []float64 {
	all := sqDistances(origin, entries)
	slices.Sort(all)
	return all[:min(max(k, 0), len(all))]
}

func latencySummary(samples []float64) string {
	if len(samples) == 0 {
		return "-"
	}
	mean, std := stat.MeanStdDev(samples, nil)
	if len(samples) == 1 {
		std = 0
	}
	return fmt.Sprintf("%.2f ± %.2f (n=%d)", mean, std, len(samples))
}
