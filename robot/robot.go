// Package robot defines the capability interface that planners move around and several entities implementing it.
package robot

import (
	"github.com/pkg/errors"

	"go.viam.com/robotoolbox/referenceframe"
)

// Robot is anything a planner can search over. Implementations hold a current configuration that
// SetConfiguration overwrites, so a Robot must not be shared between concurrent planners.
type Robot interface {
	// SampleConfiguration draws a configuration from the robot's configuration space. It neither reads
	// nor changes the current configuration.
	SampleConfiguration() referenceframe.Configuration
	// SetConfiguration replaces the current configuration.
	SetConfiguration(q referenceframe.Configuration) error
	// Configuration returns the current configuration.
	Configuration() referenceframe.Configuration
	// InCollision reports whether the current configuration collides with the robot itself or an obstacle.
	InCollision() bool
}

// InCollisionAt moves r to q and checks it for collisions.
func InCollisionAt(r Robot, q referenceframe.Configuration) (bool, error) {
	if err := r.SetConfiguration(q); err != nil {
		return true, err
	}
	return r.InCollision(), nil
}

func newWrongConfigurationError(r Robot, want string, got referenceframe.Configuration) error {
	return errors.Wrapf(referenceframe.ErrTypeMismatch, "%T expects a %s configuration, got %T", r, want, got)
}
