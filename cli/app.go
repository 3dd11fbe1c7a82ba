// Package cli contains the spatialkit command line tool.
package cli

import (
	"io"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/spatialkit/config"
	"go.viam.com/spatialkit/logging"
)

const (
	// Flags.
	generalFlagConfig  = "config"
	generalFlagDebug   = "debug"
	generalFlagLogFile = "log-file"

	octreeFlagPoints  = "points"
	octreeFlagQueries = "queries"
	octreeFlagSeed    = "seed"
	octreeFlagRange   = "range"
	octreeFlagK       = "k"
	octreeFlagSpread  = "spread"

	graphFlagFrom        = "from"
	graphFlagTo          = "to"
	graphFlagMaxDistance = "max-distance"
)

// runner holds the state shared by every command of one app invocation.
type runner struct {
	logger  logging.Logger
	clock   clock.Clock
	closers []func() error
}

// NewApp returns the spatialkit app writing results to out. Latencies are measured with clk.
func NewApp(out io.Writer, clk clock.Clock) *cli.App {
	r := &runner{logger: logging.NewBlankLogger("spatialkit"), clock: clk}
	return &cli.App{
		Name:      "spatialkit",
		Usage:     "exercise the spatial index and the graph pathfinder against a scenario config",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     generalFlagConfig,
				Aliases:  []string{"c"},
				Usage:    "load scenario from `FILE`",
				Required: true,
			},
			&cli.BoolFlag{
				Name:    generalFlagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  generalFlagLogFile,
				Usage: "also write JSON logs to `FILE`, rotated by size",
			},
		},
		Before: r.before,
		After:  r.after,
		Commands: []*cli.Command{
			{
				Name:  "octree",
				Usage: "fill the configured octree with random points and verify queries against a brute force scan",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: octreeFlagPoints, Value: 2000, Usage: "number of points to insert"},
					&cli.IntFlag{Name: octreeFlagQueries, Value: 200, Usage: "number of range and nearest queries"},
					&cli.Int64Flag{Name: octreeFlagSeed, Value: 1, Usage: "random seed"},
					&cli.Float64Flag{Name: octreeFlagRange, Value: 4, Usage: "range query radius"},
					&cli.IntFlag{Name: octreeFlagK, Value: 5, Usage: "neighbors per nearest query"},
					&cli.Float64Flag{
						Name:  octreeFlagSpread,
						Value: 1.5,
						Usage: "scale of the point cloud relative to the configured region; above 1 forces re-rooting",
					},
				},
				Action: r.octreeAction,
			},
			{
				Name:      "path",
				Usage:     "find a path through the configured graph",
				UsageText: "spatialkit --config FILE path --from NODE --to NODE [--max-distance D]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: graphFlagFrom, Required: true, Usage: "origin node, X,Y for grids or an id"},
					&cli.StringFlag{Name: graphFlagTo, Required: true, Usage: "destination node"},
					&cli.Float64Flag{Name: graphFlagMaxDistance, Usage: "distance budget, unlimited when unset"},
				},
				Action: r.pathAction,
			},
			{
				Name:      "reach",
				Usage:     "list the nodes reachable within a distance budget",
				UsageText: "spatialkit --config FILE reach --from NODE --max-distance D",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: graphFlagFrom, Required: true, Usage: "origin node, X,Y for grids or an id"},
					&cli.Float64Flag{Name: graphFlagMaxDistance, Required: true, Usage: "distance budget"},
				},
				Action: r.reachAction,
			},
		},
	}
}

func (r *runner) before(c *cli.Context) error {
	debug := c.Bool(generalFlagDebug)
	switch path := c.String(generalFlagLogFile); {
	case path != "":
		logger, closeFile, err := logging.NewFileLogger("spatialkit", debug, logging.FileConfig{Path: path})
		if err != nil {
			return err
		}
		r.setLogger(logger, closeFile)
	case debug:
		r.setLogger(logging.NewDebugLogger("spatialkit"), nil)
	default:
		r.setLogger(logging.NewLogger("spatialkit"), nil)
	}
	return nil
}

// after closes any log files opened for this invocation.
func (r *runner) after(_ *cli.Context) error {
	var allErrs error
	for _, closeFn := range r.closers {
		allErrs = multierr.Append(allErrs, closeFn())
	}
	r.closers = nil
	return allErrs
}

func (r *runner) setLogger(logger logging.Logger, closeFn func() error) {
	r.logger = logger
	if closeFn != nil {
		r.closers = append(r.closers, closeFn)
	}
	logging.ReplaceGlobal(logger)
}

// loadConfig reads the scenario config. A log section in the config applies unless --log-file was given.
func (r *runner) loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Read(c.Context, c.String(generalFlagConfig), r.logger)
	if err != nil {
		return nil, errors.Wrap(err, "error reading config")
	}
	if cfg.Log != nil && c.String(generalFlagLogFile) == "" {
		logger, closeFile, err := logging.NewFileLogger("spatialkit", c.Bool(generalFlagDebug), *cfg.Log)
		if err != nil {
			return nil, err
		}
		r.setLogger(logger, closeFile)
	}
	return cfg, nil
}
