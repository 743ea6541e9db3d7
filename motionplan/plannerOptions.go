package motionplan

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// default values for planner options.
const (
	// Maximum distance between two consecutive configurations of a tree or roadmap edge.
	defaultDeltaQ = 0.2

	// Probability of extending an RRT towards the goal instead of a random sample.
	defaultPSampleGoal = 0.5

	// Number of RRT iterations before giving up.
	defaultMaxIterations = 10000

	// Number of random shortcut attempts.
	defaultShortcutIterations = 100

	// A local connection longer than this many steps of DeltaQ is not attempted.
	defaultMaxConnectIter = 1000

	// Explore draws at most this many samples per requested roadmap node.
	defaultExploreSamplesPerNode = 100

	// Collision checks along a motion happen every DeltaQ / defaultResolutionDivisor when no
	// resolution is configured.
	defaultResolutionDivisor = 4
)

// GraphSearch selects how a PRM finds paths through its roadmap.
type GraphSearch string

const (
	// FloydWarshall computes all shortest paths once and reuses them until the roadmap changes.
	FloydWarshall = GraphSearch("floyd_warshall")
	// Dijkstra searches from the start node on every query.
	Dijkstra = GraphSearch("dijkstra")
)

// RRTOptions configures an RRT planner.
type RRTOptions struct {
	// Maximum length of a single tree extension.
	DeltaQ float64 `json:"delta_q"`

	// Probability of using the goal as the extension target.
	PSampleGoal float64 `json:"p_sample_goal"`

	// Number of extension attempts before Plan gives up.
	MaxIterations int `json:"max_iterations"`

	// Number of attempts RandomShortcut makes when called through Smooth.
	ShortcutIterations int `json:"shortcut_iterations"`

	// Motions are checked for collisions every this much distance. Zero uses DeltaQ / 4.
	Resolution float64 `json:"resolution"`
}

// NewRRTOptions returns the default RRT options.
func NewRRTOptions() *RRTOptions {
	return &RRTOptions{
		DeltaQ:             defaultDeltaQ,
		PSampleGoal:        defaultPSampleGoal,
		MaxIterations:      defaultMaxIterations,
		ShortcutIterations: defaultShortcutIterations,
	}
}

// Validate checks the options for values the planner cannot work with.
func (opts *RRTOptions) Validate() error {
	if opts.DeltaQ <= 0 {
		return newInvalidOptionsError("delta_q must be positive, got %f", opts.DeltaQ)
	}
	if opts.PSampleGoal < 0 || opts.PSampleGoal > 1 {
		return newInvalidOptionsError("p_sample_goal must be in [0, 1], got %f", opts.PSampleGoal)
	}
	if opts.MaxIterations <= 0 {
		return newInvalidOptionsError("max_iterations must be positive, got %d", opts.MaxIterations)
	}
	if opts.ShortcutIterations < 0 {
		return newInvalidOptionsError("shortcut_iterations must not be negative, got %d", opts.ShortcutIterations)
	}
	return validateResolution(opts.Resolution, opts.DeltaQ)
}

func (opts *RRTOptions) resolution() float64 {
	return resolutionOrDefault(opts.Resolution, opts.DeltaQ)
}

// PRMOptions configures a PRM planner.
type PRMOptions struct {
	// Maximum distance between two consecutive configurations of a roadmap edge.
	DeltaQ float64 `json:"delta_q"`

	// A connection needing more than this many DeltaQ steps is not attempted.
	MaxConnectIter int `json:"max_connect_iter"`

	// Only nodes closer than this are connected while exploring. Zero connects every pair.
	ConnectionRadius float64 `json:"connection_radius"`

	// Number of samples Explore may draw before giving up. Zero allows 100 per requested node.
	MaxExploreIter int `json:"max_explore_iter"`

	// Graph search used by Plan.
	GraphSearch GraphSearch `json:"graph_search"`

	// Motions are checked for collisions every this much distance. Zero uses DeltaQ / 4.
	Resolution float64 `json:"resolution"`
}

// NewPRMOptions returns the default PRM options.
func NewPRMOptions() *PRMOptions {
	return &PRMOptions{
		DeltaQ:         defaultDeltaQ,
		MaxConnectIter: defaultMaxConnectIter,
		GraphSearch:    FloydWarshall,
	}
}

// Validate checks the options for values the planner cannot work with.
func (opts *PRMOptions) Validate() error {
	if opts.DeltaQ <= 0 {
		return newInvalidOptionsError("delta_q must be positive, got %f", opts.DeltaQ)
	}
	if opts.MaxConnectIter <= 0 {
		return newInvalidOptionsError("max_connect_iter must be positive, got %d", opts.MaxConnectIter)
	}
	if opts.ConnectionRadius < 0 {
		return newInvalidOptionsError("connection_radius must not be negative, got %f", opts.ConnectionRadius)
	}
	if opts.MaxExploreIter < 0 {
		return newInvalidOptionsError("max_explore_iter must not be negative, got %d", opts.MaxExploreIter)
	}
	switch opts.GraphSearch {
	case FloydWarshall, Dijkstra:
	default:
		return newInvalidOptionsError("unknown graph_search %q", opts.GraphSearch)
	}
	return validateResolution(opts.Resolution, opts.DeltaQ)
}

func (opts *PRMOptions) resolution() float64 {
	return resolutionOrDefault(opts.Resolution, opts.DeltaQ)
}

func (opts *PRMOptions) exploreBudget(maxNodes int) int {
	if opts.MaxExploreIter > 0 {
		return opts.MaxExploreIter
	}
	return defaultExploreSamplesPerNode * maxNodes
}

func validateResolution(resolution, deltaQ float64) error {
	if resolution < 0 || resolution > deltaQ {
		return newInvalidOptionsError("resolution must be in [0, delta_q], got %f", resolution)
	}
	return nil
}

func resolutionOrDefault(resolution, deltaQ float64) float64 {
	if resolution > 0 {
		return resolution
	}
	return deltaQ / defaultResolutionDivisor
}

// NewRRTOptionsFromMap returns the default RRT options overridden by the entries of attrs, keyed by
// their json names.
func NewRRTOptionsFromMap(attrs map[string]interface{}) (*RRTOptions, error) {
	opts := NewRRTOptions()
	if err := decodeAttributes(attrs, opts); err != nil {
		return nil, err
	}
	return opts, opts.Validate()
}

// NewPRMOptionsFromMap returns the default PRM options overridden by the entries of attrs, keyed by
// their json names.
func NewPRMOptionsFromMap(attrs map[string]interface{}) (*PRMOptions, error) {
	opts := NewPRMOptions()
	if err := decodeAttributes(attrs, opts); err != nil {
		return nil, err
	}
	return opts, opts.Validate()
}

func decodeAttributes(attrs map[string]interface{}, to interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           to,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(attrs); err != nil {
		return errors.Wrap(ErrInvalidOptions, err.Error())
	}
	return nil
}
