package motionplan

import (
	"github.com/pkg/errors"

	"go.viam.com/robotoolbox/referenceframe"
)

var (
	// ErrInvalidStart is returned when the start configuration of a query is in collision.
	ErrInvalidStart = errors.New("start configuration is in collision")
	// ErrInvalidGoal is returned when the goal configuration of a query is in collision.
	ErrInvalidGoal = errors.New("goal configuration is in collision")
	// ErrNoStartConnection is returned when no roadmap node can be reached from the start.
	ErrNoStartConnection = errors.New("start configuration cannot be connected to the roadmap")
	// ErrNoGoalConnection is returned when no roadmap node can reach the goal.
	ErrNoGoalConnection = errors.New("goal configuration cannot be connected to the roadmap")
	// ErrNoRoadmapPath is returned when the roadmap holds no path between the nodes the start and
	// goal attach to, including when the roadmap is empty.
	ErrNoRoadmapPath = errors.New("no roadmap path between start and goal")
	// ErrInvalidOptions is returned when planner options fail validation.
	ErrInvalidOptions = errors.New("invalid planner options")
)

func newInvalidStartError(q referenceframe.Configuration) error {
	return errors.Wrapf(ErrInvalidStart, "start %v", q)
}

func newInvalidGoalError(q referenceframe.Configuration) error {
	return errors.Wrapf(ErrInvalidGoal, "goal %v", q)
}

func newEmptyRoadmapError() error {
	return errors.Wrap(ErrNoRoadmapPath, "roadmap is empty, call Explore first")
}

func newInvalidOptionsError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidOptions, format, args...)
}
