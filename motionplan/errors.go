package motionplan

import "github.com/pkg/errors"

// NewNoPathError is used by callers that treat a failed search as an error.
func NewNoPathError(origin, destination any) error {
	return errors.Errorf("no path from %v to %v", origin, destination)
}
