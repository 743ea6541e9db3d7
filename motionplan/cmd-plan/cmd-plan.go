// package main plans a single motion described by a JSON request
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/robotoolbox/logging"
	"go.viam.com/robotoolbox/motionplan"
	"go.viam.com/robotoolbox/referenceframe"
	"go.viam.com/robotoolbox/robot"
)

const defaultRoadmapSize = 100

// Planner names accepted in a PlanRequest.
const (
	rrtPlanner = "rrt"
	prmPlanner = "prm"
)

// PlanRequest is everything needed to plan one motion.
type PlanRequest struct {
	Robot robot.Config `json:"robot"`

	// start and goal as flat values, see referenceframe.ConfigurationFromFloats
	Start []float64 `json:"start"`
	Goal  []float64 `json:"goal"`

	Planner string                 `json:"planner"`
	Options map[string]interface{} `json:"options,omitempty"`
	Seed    int64                  `json:"seed"`

	// number of nodes a PRM explores before planning
	RoadmapSize int `json:"roadmap_size,omitempty"`
	// shortcut an RRT path after planning
	Shortcut bool `json:"shortcut,omitempty"`
}

func main() {
	app := &cli.App{
		Name:      "cmd-plan",
		Usage:     "plan a motion for a robot among obstacles",
		ArgsUsage: "<request.json>",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "seed",
				Value: -1,
				Usage: "random seed, overrides the request when not negative",
			},
			&cli.StringFlag{
				Name:  "planner",
				Usage: "planner to use (rrt or prm), overrides the request",
			},
			&cli.BoolFlag{
				Name:  "shortcut",
				Usage: "shortcut the RRT path",
			},
			&cli.StringFlag{
				Name:  "plot",
				Usage: "write a plot of a planar plan to `FILE`",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log planner debug messages for this run only",
			},
		},
		Action: realMain,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func realMain(c *cli.Context) error {
	ctx := c.Context
	logger := logging.NewLogger("cmd-plan")
	if c.Bool("verbose") {
		logger.SetLevel(logging.DEBUG)
	}
	logging.ReplaceGlobal(logger)
	if c.Bool("debug") {
		ctx = logging.EnableDebugMode(ctx, "")
		logger.Infof("debug mode on, key %s", logging.GetName(ctx))
	}
	if c.NArg() == 0 {
		return errors.New("need a json file")
	}

	logger.Infof("reading plan from %s", c.Args().First())
	req, err := readRequest(c.Args().First())
	if err != nil {
		return err
	}
	if seed := c.Int64("seed"); seed >= 0 {
		req.Seed = seed
	}
	if planner := c.String("planner"); planner != "" {
		req.Planner = planner
	}
	if c.Bool("shortcut") {
		req.Shortcut = true
	}

	start := time.Now()
	r, path, err := runPlan(ctx, req, logger)
	if err != nil {
		return err
	}

	mylog := log.New(os.Stdout, "", 0)
	mylog.Printf("planning took %v", time.Since(start))
	for idx, q := range path {
		values, err := referenceframe.ConfigurationToFloats(q)
		if err != nil {
			return err
		}
		mylog.Printf("step %d\t%v", idx, values)
	}
	length, err := referenceframe.PathLength(path)
	if err != nil {
		return err
	}
	mylog.Printf("%d waypoints, total length %.4f", len(path), length)

	if fn := c.String("plot"); fn != "" {
		if err := plotPlan(r, path, fmt.Sprintf("%s plan for a %s robot", req.Planner, req.Robot.Type), fn); err != nil {
			return err
		}
		logger.Infof("wrote plot to %s", fn)
	}
	return nil
}

func readRequest(fn string) (*PlanRequest, error) {
	//nolint:gosec
	content, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	req := &PlanRequest{}
	if err := json.Unmarshal(content, req); err != nil {
		return nil, errors.Wrapf(err, "cannot parse plan request %q", fn)
	}
	return req, nil
}

// runPlan builds the requested robot and planner and plans from start to goal. A nil logger means
// the global one.
func runPlan(
	ctx context.Context,
	req *PlanRequest,
	logger logging.Logger,
) (robot.Robot, []referenceframe.Configuration, error) {
	if logger == nil {
		logger = logging.Global()
	}
	//nolint:gosec
	rSeed := rand.New(rand.NewSource(req.Seed))
	r, err := robot.NewFromConfig(&req.Robot, rSeed)
	if err != nil {
		return nil, nil, err
	}
	kind, err := req.Robot.ConfigurationKind()
	if err != nil {
		return nil, nil, err
	}
	start, err := referenceframe.ConfigurationFromFloats(kind, req.Start)
	if err != nil {
		return nil, nil, errors.Wrap(err, "start")
	}
	goal, err := referenceframe.ConfigurationFromFloats(kind, req.Goal)
	if err != nil {
		return nil, nil, errors.Wrap(err, "goal")
	}

	var path []referenceframe.Configuration
	switch req.Planner {
	case rrtPlanner, "":
		req.Planner = rrtPlanner
		opts, err := motionplan.NewRRTOptionsFromMap(req.Options)
		if err != nil {
			return nil, nil, err
		}
		mp, err := motionplan.NewRRT(r, opts, rSeed, logger.Sublogger(rrtPlanner))
		if err != nil {
			return nil, nil, err
		}
		if path, err = mp.Plan(ctx, start, goal); err != nil {
			return nil, nil, err
		}
		if path == nil {
			return nil, nil, errors.Errorf("no path found within %d iterations", opts.MaxIterations)
		}
		if req.Shortcut {
			if path, err = mp.Smooth(ctx, path); err != nil {
				return nil, nil, err
			}
		}
	case prmPlanner:
		opts, err := motionplan.NewPRMOptionsFromMap(req.Options)
		if err != nil {
			return nil, nil, err
		}
		mp, err := motionplan.NewPRM(r, opts, logger.Sublogger(prmPlanner))
		if err != nil {
			return nil, nil, err
		}
		size := req.RoadmapSize
		if size <= 0 {
			size = defaultRoadmapSize
		}
		if _, err := mp.Explore(ctx, size); err != nil {
			return nil, nil, err
		}
		if path, err = mp.Plan(ctx, start, goal); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, errors.Errorf("unknown planner %q", req.Planner)
	}
	return r, path, nil
}
