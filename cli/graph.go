package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"github.com/urfave/cli/v2"

	"go.viam.com/spatialkit/config"
	"go.viam.com/spatialkit/logging"
	"go.viam.com/spatialkit/motionplan"
)

func (r *runner) pathAction(c *cli.Context) error {
	cfg, err := r.loadConfig(c)
	if err != nil {
		return err
	}
	maxDistance := math.Inf(1)
	if c.IsSet(graphFlagMaxDistance) {
		maxDistance = c.Float64(graphFlagMaxDistance)
	}

	switch cfg.Graph.Type {
	case config.GraphTypeGrid:
		grid, err := cfg.Graph.Grid()
		if err != nil {
			return err
		}
		return findPath[motionplan.Cell](c, r.logger, grid, cfg.Pathfinder, config.ParseCell, maxDistance)
	case config.GraphTypeWeighted:
		wg, err := cfg.Graph.Weighted()
		if err != nil {
			return err
		}
		return findPath[int64](c, r.logger, wg, cfg.Pathfinder, parseNodeID, maxDistance)
	default:
		return errors.Errorf("unknown graph type %q", cfg.Graph.Type)
	}
}

func (r *runner) reachAction(c *cli.Context) error {
	cfg, err := r.loadConfig(c)
	if err != nil {
		return err
	}
	maxDistance := c.Float64(graphFlagMaxDistance)

	switch cfg.Graph.Type {
	case config.GraphTypeGrid:
		grid, err := cfg.Graph.Grid()
		if err != nil {
			return err
		}
		return findOpenNodes[motionplan.Cell](c, r.logger, grid, cfg.Pathfinder, config.ParseCell, maxDistance)
	case config.GraphTypeWeighted:
		wg, err := cfg.Graph.Weighted()
		if err != nil {
			return err
		}
		return findOpenNodes[int64](c, r.logger, wg, cfg.Pathfinder, parseNodeID, maxDistance)
	default:
		return errors.Errorf("unknown graph type %q", cfg.Graph.Type)
	}
}

func parseNodeID(s string) (int64, error) {
	id, err := cast.ToInt64E(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Wrapf(err, "node %q", s)
	}
	return id, nil
}

func findPath[N comparable](
	c *cli.Context,
	logger logging.Logger,
	g motionplan.Graph[N],
	cfg motionplan.Config,
	parse func(string) (N, error),
	maxDistance float64,
) error {
	from, err := parse(c.String(graphFlagFrom))
	if err != nil {
		return errors.Wrap(err, "error parsing from flag")
	}
	to, err := parse(c.String(graphFlagTo))
	if err != nil {
		return errors.Wrap(err, "error parsing to flag")
	}
	pf, err := motionplan.NewPathfinder(g, cfg, logger)
	if err != nil {
		return err
	}

	path, ok := pf.FindPath(from, to, maxDistance, nil)
	if !ok {
		return motionplan.NewNoPathError(from, to)
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Node", "Step", "Distance"})
	var total float64
	for i, node := range path {
		var step float64
		if i > 0 {
			step = stepDistance(g, path[i-1], node)
		}
		total += step
		t.AppendRow(table.Row{i, fmt.Sprint(node), fmt.Sprintf("%.3f", step), fmt.Sprintf("%.3f", total)})
	}
	t.AppendFooter(table.Row{"", "", "total", fmt.Sprintf("%.3f", total)})
	fmt.Fprintln(c.App.Writer, t.Render())
	return nil
}

func findOpenNodes[N comparable](
	c *cli.Context,
	logger logging.Logger,
	g motionplan.Graph[N],
	cfg motionplan.Config,
	parse func(string) (N, error),
	maxDistance float64,
) error {
	from, err := parse(c.String(graphFlagFrom))
	if err != nil {
		return errors.Wrap(err, "error parsing from flag")
	}
	pf, err := motionplan.NewPathfinder(g, cfg, logger)
	if err != nil {
		return err
	}

	nodes := pf.FindOpenNodes(from, maxDistance, nil)
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Node"})
	for i, name := range lo.Map(nodes, func(n N, _ int) string { return fmt.Sprint(n) }) {
		t.AppendRow(table.Row{i + 1, name})
	}
	t.AppendFooter(table.Row{"reachable", len(nodes)})
	fmt.Fprintln(c.App.Writer, t.Render())
	return nil
}

// stepDistance is the length of the edge from a to b.
func stepDistance[N comparable](g motionplan.Graph[N], a, b N) float64 {
	edge, ok := lo.Find(g.FindNeighbors(a, nil), func(n motionplan.Neighbor[N]) bool { return n.Node == b })
	if !ok {
		return math.NaN()
	}
	return edge.Distance
}
