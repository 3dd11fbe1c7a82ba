package config

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"go.viam.com/spatialkit/motionplan"
	"go.viam.com/spatialkit/utils"
)

// Graph types understood by GraphConfig.
const (
	GraphTypeGrid     = "grid"
	GraphTypeWeighted = "weighted"
)

// GraphConfig names a graph type and carries its type specific attributes.
type GraphConfig struct {
	Type       string             `json:"type"`
	Attributes utils.AttributeMap `json:"attributes,omitempty"`
}

// GridAttributes are the attributes of a grid graph.
type GridAttributes struct {
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Diagonal bool     `json:"diagonal,omitempty"`
	Blocked  []string `json:"blocked,omitempty"`
}

// EdgeConfig is one edge of a weighted graph.
type EdgeConfig struct {
	From   int64   `json:"from"`
	To     int64   `json:"to"`
	Weight float64 `json:"weight"`
}

// WeightedAttributes are the attributes of a weighted graph.
type WeightedAttributes struct {
	Directed bool         `json:"directed,omitempty"`
	Edges    []EdgeConfig `json:"edges"`
}

// Validate ensures all parts of the config are valid.
func (c *GraphConfig) Validate(path string) error {
	switch c.Type {
	case "":
		return utils.NewConfigValidationFieldRequiredError(path, "type")
	case GraphTypeGrid:
		_, err := c.Grid()
		return wrapValidation(path, err)
	case GraphTypeWeighted:
		_, err := c.Weighted()
		return wrapValidation(path, err)
	default:
		return utils.NewConfigValidationError(path, errors.Errorf("unknown graph type %q", c.Type))
	}
}

func wrapValidation(path string, err error) error {
	if err == nil {
		return nil
	}
	return utils.NewConfigValidationError(path, err)
}

// Grid builds the configured grid graph.
func (c *GraphConfig) Grid() (*motionplan.Grid, error) {
	if c.Type != GraphTypeGrid {
		return nil, errors.Errorf("graph type is %q, not %q", c.Type, GraphTypeGrid)
	}
	if err := c.requireAttributes("width", "height"); err != nil {
		return nil, err
	}
	attrs, err := utils.DecodeAttributes[GridAttributes](c.Attributes)
	if err != nil {
		return nil, err
	}
	grid, err := motionplan.NewGrid(attrs.Width, attrs.Height, attrs.Diagonal)
	if err != nil {
		return nil, err
	}
	var allErrs error
	for _, s := range attrs.Blocked {
		cell, err := ParseCell(s)
		if err != nil {
			allErrs = multierr.Append(allErrs, err)
			continue
		}
		if !grid.Contains(cell) {
			allErrs = multierr.Append(allErrs, errors.Errorf("blocked cell %v is outside the grid", cell))
			continue
		}
		grid.Block(cell)
	}
	if allErrs != nil {
		return nil, allErrs
	}
	return grid, nil
}

// Weighted builds the configured weighted graph.
func (c *GraphConfig) Weighted() (*motionplan.WeightedGraph, error) {
	if c.Type != GraphTypeWeighted {
		return nil, errors.Errorf("graph type is %q, not %q", c.Type, GraphTypeWeighted)
	}
	if err := c.requireAttributes("edges"); err != nil {
		return nil, err
	}
	attrs, err := utils.DecodeAttributes[WeightedAttributes](c.Attributes)
	if err != nil {
		return nil, err
	}
	if len(attrs.Edges) == 0 {
		return nil, errors.New("weighted graph has no edges")
	}

	var (
		g       graph.Weighted
		setEdge func(graph.WeightedEdge)
	)
	if attrs.Directed {
		dg := simple.NewWeightedDirectedGraph(0, math.Inf(1))
		g, setEdge = dg, dg.SetWeightedEdge
	} else {
		ug := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
		g, setEdge = ug, ug.SetWeightedEdge
	}
	var allErrs error
	for i, e := range attrs.Edges {
		switch {
		case e.From == e.To:
			allErrs = multierr.Append(allErrs, errors.Errorf("edge %d is a self loop on %d", i, e.From))
		case e.From < 0 || e.To < 0:
			allErrs = multierr.Append(allErrs, errors.Errorf("edge %d has a negative node id", i))
		case !(e.Weight >= 0) || math.IsInf(e.Weight, 1):
			allErrs = multierr.Append(allErrs, errors.Errorf("edge %d weight must be a non-negative finite number, got %v", i, e.Weight))
		default:
			setEdge(simple.WeightedEdge{F: simple.Node(e.From), T: simple.Node(e.To), W: e.Weight})
		}
	}
	if allErrs != nil {
		return nil, allErrs
	}
	return motionplan.NewWeightedGraph(g, nil), nil
}

func (c *GraphConfig) requireAttributes(names ...string) error {
	var allErrs error
	for _, name := range names {
		if !c.Attributes.Has(name) {
			allErrs = multierr.Append(allErrs, errors.Errorf("%q attribute is required for %s graphs", name, c.Type))
		}
	}
	return allErrs
}

// ParseCell parses a grid cell written as "X,Y".
func ParseCell(s string) (motionplan.Cell, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return motionplan.Cell{}, errors.Errorf("cell %q must be written as X,Y", s)
	}
	x, err := cast.ToIntE(strings.TrimSpace(parts[0]))
	if err != nil {
		return motionplan.Cell{}, errors.Wrapf(err, "cell %q", s)
	}
	y, err := cast.ToIntE(strings.TrimSpace(parts[1]))
	if err != nil {
		return motionplan.Cell{}, errors.Wrapf(err, "cell %q", s)
	}
	return motionplan.Cell{X: x, Y: y}, nil
}
