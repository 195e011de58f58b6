package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LineOptions are the sanitizer's line parameterization knobs
type LineOptions struct {
	SMaxPU     float64 // uniform per-unit loading limit applied to every line
	SNomAdd    float64 // additive expansion headroom
	SNomFactor float64 // multiplicative expansion headroom
}

// LinkOptions are the sanitizer's link parameterization knobs
type LinkOptions struct {
	PNomMax float64 // uniform capacity ceiling applied to every link
}

// SolverOptions tune the HiGHS invocation
type SolverOptions struct {
	TimeLimit float64 `yaml:"time_limit"` // seconds, 0 means unlimited
	Threads   int     `yaml:"threads"`
	Output    bool    `yaml:"output"` // solver console output
}

// Solving groups the solve-stage configuration
type Solving struct {
	// Options is a hyphen-delimited token string; time-resolution tokens
	// (e.g. "3h") are filtered out before interpretation.
	Options string
	Solver  SolverOptions
}

// Config is the full tool configuration
type Config struct {
	Lines         LineOptions
	Links         LinkOptions
	Solving       Solving
	LoggingLevel  string
	LogFile       string
	SolverLogFile string
}

// raw mirrors the YAML document with pointers for the required keys, so a
// missing key is distinguishable from an explicit zero.
type raw struct {
	Lines *struct {
		SMaxPU     *float64 `yaml:"s_max_pu"`
		SNomAdd    *float64 `yaml:"s_nom_add"`
		SNomFactor *float64 `yaml:"s_nom_factor"`
	} `yaml:"lines"`
	Links *struct {
		PNomMax *flexFloat `yaml:"p_nom_max"`
	} `yaml:"links"`
	Solving *struct {
		Options *string       `yaml:"options"`
		Solver  SolverOptions `yaml:"solver"`
	} `yaml:"solving"`
	LoggingLevel  *string `yaml:"logging_level"`
	LogFile       string  `yaml:"log_file"`
	SolverLogFile string  `yaml:"solver_log_file"`
}

// flexFloat accepts YAML floats, ints, and numeric strings. Upstream tooling
// sometimes quotes p_nom_max, so the value must be coerced, not rejected.
type flexFloat float64

func (f *flexFloat) UnmarshalYAML(node *yaml.Node) error {
	var v float64
	if err := node.Decode(&v); err == nil {
		*f = flexFloat(v)
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("p_nom_max: expected a number or numeric string")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("p_nom_max: cannot parse %q as a number", s)
	}
	*f = flexFloat(v)
	return nil
}

// Load reads and validates the YAML config at path. Missing required keys are
// a fatal configuration error; all of them are reported at once.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse validates and builds a Config from YAML bytes
func Parse(data []byte) (*Config, error) {
	var r raw
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	v := newValidator("config")
	v.requiredSection("lines", r.Lines == nil)
	if r.Lines != nil {
		v.requiredFloat("lines.s_max_pu", r.Lines.SMaxPU)
		v.requiredFloat("lines.s_nom_add", r.Lines.SNomAdd)
		v.requiredFloat("lines.s_nom_factor", r.Lines.SNomFactor)
	}
	v.requiredSection("links", r.Links == nil)
	if r.Links != nil && r.Links.PNomMax == nil {
		v.missing("links.p_nom_max")
	}
	v.requiredSection("solving", r.Solving == nil)
	if r.Solving != nil && r.Solving.Options == nil {
		v.missing("solving.options")
	}
	if r.LoggingLevel == nil {
		v.missing("logging_level")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	return &Config{
		Lines: LineOptions{
			SMaxPU:     *r.Lines.SMaxPU,
			SNomAdd:    *r.Lines.SNomAdd,
			SNomFactor: *r.Lines.SNomFactor,
		},
		Links: LinkOptions{
			PNomMax: float64(*r.Links.PNomMax),
		},
		Solving: Solving{
			Options: *r.Solving.Options,
			Solver:  r.Solving.Solver,
		},
		LoggingLevel:  *r.LoggingLevel,
		LogFile:       r.LogFile,
		SolverLogFile: r.SolverLogFile,
	}, nil
}
