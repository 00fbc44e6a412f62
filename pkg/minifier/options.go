package minifier

import (
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"
)

// Target is the oldest ECMAScript edition the output must run on.
type Target string

const (
	ES5    Target = "es5"
	ES2015 Target = "es2015"
	ES2019 Target = "es2019"
	ESNext Target = "esnext"
)

var targetOrder = map[Target]int{ES5: 0, ES2015: 1, ES2019: 2, ESNext: 3}

// ParseTarget validates a target name.
func ParseTarget(s string) (Target, error) {
	t := Target(s)
	if _, ok := targetOrder[t]; !ok {
		return "", fmt.Errorf("unknown target %q (want es5, es2015, es2019 or esnext)", s)
	}
	return t, nil
}

// Supports reports whether code for t may use syntax introduced in edition.
func (t Target) Supports(edition Target) bool {
	return targetOrder[t] >= targetOrder[edition]
}

// UnmarshalYAML rejects unknown targets while loading configuration.
func (t *Target) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseTarget(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// CompressOptions controls which rewrites the compressor may apply.
type CompressOptions struct {
	Target Target `yaml:"target"`

	// Booleans rewrites true/false to !0/!1 in the final traversal.
	Booleans bool `yaml:"booleans"`
	// Typeofs rewrites typeof x=="undefined" to typeof x>"u" in the final traversal.
	Typeofs bool `yaml:"typeofs"`

	// Unused removes unreferenced let, const and function declarations
	// from function bodies before the peephole loop.
	Unused bool `yaml:"unused"`

	DropConsole  bool `yaml:"drop_console"`
	DropDebugger bool `yaml:"drop_debugger"`

	// DeadCodeOnly runs constant folding and dead code removal once instead
	// of the full peephole loop.
	DeadCodeOnly bool `yaml:"dead_code_only"`

	// StrictConvergence turns a peephole loop that hits its traversal cap
	// into an error instead of a logged warning.
	StrictConvergence bool `yaml:"strict_convergence"`
}

// DefaultCompressOptions returns the options used when nothing is configured.
func DefaultCompressOptions() CompressOptions {
	return CompressOptions{
		Target:       ESNext,
		Booleans:     true,
		Typeofs:      true,
		Unused:       true,
		DropDebugger: true,
	}
}

type settings struct {
	logger *slog.Logger
}

func newSettings(opts []Option) settings {
	s := settings{logger: slog.Default()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures a pass manager or compressor.
type Option func(*settings)

// WithLogger sets the logger for debug records and convergence warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}
