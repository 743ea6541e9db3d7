package motionplan

import (
	"go.viam.com/robotoolbox/referenceframe"
	"go.viam.com/robotoolbox/robot"
)

// segmentChecker validates configurations and straight motions between them against a robot.
// It moves the robot, so it must not be shared between goroutines.
type segmentChecker struct {
	robot      robot.Robot
	resolution float64
}

func (sc *segmentChecker) validConfiguration(q referenceframe.Configuration) (bool, error) {
	inCollision, err := robot.InCollisionAt(sc.robot, q)
	if err != nil {
		return false, err
	}
	return !inCollision, nil
}

// validSegment checks the motion from a to b at every resolution step, not including a itself.
func (sc *segmentChecker) validSegment(a, b referenceframe.Configuration) (bool, error) {
	steps, err := referenceframe.InterpolatePath(a, b, sc.resolution)
	if err != nil {
		return false, err
	}
	for _, q := range steps {
		ok, err := sc.validConfiguration(q)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// restore returns a function that puts the robot back in the configuration it had when restore was called.
func (sc *segmentChecker) restore() func() {
	q := sc.robot.Configuration()
	return func() {
		//nolint:errcheck
		sc.robot.SetConfiguration(q)
	}
}
