// Package config defines the structures to configure a spatialkit scenario.
package config

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/spatialkit/logging"
	"go.viam.com/spatialkit/motionplan"
	"go.viam.com/spatialkit/spatialmath"
	"go.viam.com/spatialkit/utils"
)

// A Config describes a scenario: the region indexed by the octree, the graph searched by the
// pathfinder, and the search limits.
type Config struct {
	ConfigFilePath string              `json:"-"`
	Octree         OctreeConfig        `json:"octree"`
	Graph          GraphConfig         `json:"graph"`
	Pathfinder     motionplan.Config   `json:"pathfinder"`
	Log            *logging.FileConfig `json:"log,omitempty"`
}

// Validate returns an error if any part of the config is invalid.
func (c *Config) Validate() error {
	var allErrs error
	allErrs = multierr.Append(allErrs, c.Octree.Validate("octree"))
	allErrs = multierr.Append(allErrs, c.Graph.Validate("graph"))
	allErrs = multierr.Append(allErrs, c.Pathfinder.Validate("pathfinder"))
	if c.Log != nil && c.Log.Path == "" {
		allErrs = multierr.Append(allErrs, utils.NewConfigValidationFieldRequiredError("log", "path"))
	}
	return allErrs
}

// OctreeConfig describes the initial region of an octree.
type OctreeConfig struct {
	Center  r3.Vector `json:"center"`
	Size    r3.Vector `json:"size"`
	MinSize float64   `json:"min_size"`
	// PruneAfter is how many frames an empty node may go untouched before Shrink frees it.
	PruneAfter uint64 `json:"prune_after,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (c *OctreeConfig) Validate(path string) error {
	var allErrs error
	if c.MinSize <= 0 || math.IsInf(c.MinSize, 0) || math.IsNaN(c.MinSize) {
		allErrs = multierr.Append(allErrs, utils.NewConfigValidationError(path,
			errors.Errorf("min_size must be a positive finite number, got %v", c.MinSize)))
	}
	for _, v := range []float64{c.Size.X, c.Size.Y, c.Size.Z} {
		if v < c.MinSize || math.IsInf(v, 0) || math.IsNaN(v) {
			allErrs = multierr.Append(allErrs, utils.NewConfigValidationError(path,
				errors.Errorf("size %v must be finite and at least min_size in every axis", c.Size)))
			break
		}
	}
	for _, v := range []float64{c.Center.X, c.Center.Y, c.Center.Z} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			allErrs = multierr.Append(allErrs, utils.NewConfigValidationError(path,
				errors.Errorf("center %v must be finite", c.Center)))
			break
		}
	}
	return allErrs
}

// Region returns the configured octree region.
func (c *OctreeConfig) Region() spatialmath.Box {
	return spatialmath.NewBox(c.Center, c.Size)
}
