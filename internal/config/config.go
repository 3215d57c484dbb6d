// Package config loads the optional ownership.toml that presets CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"fortio.org/safecast"

	"ownership/internal/diag"
	"ownership/internal/source"
	"ownership/internal/trace"
)

// FileName is the name Find looks for.
const FileName = "ownership.toml"

// Config mirrors ownership.toml. Every field is optional; flags given on the
// command line win over values read from the file.
type Config struct {
	Path string `toml:"-"`

	Run     RunConfig     `toml:"run"`
	Output  OutputConfig  `toml:"output"`
	Trace   TraceConfig   `toml:"trace"`
	Explain ExplainConfig `toml:"explain"`
}

type RunConfig struct {
	Lessons []int `toml:"lessons"`
}

type OutputConfig struct {
	Color   string `toml:"color"`
	Timings bool   `toml:"timings"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
	Events string `toml:"events"`
}

type ExplainConfig struct {
	Format string `toml:"format"`
	Max    int    `toml:"max"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Output:  OutputConfig{Color: "auto"},
		Trace:   TraceConfig{Level: "off", Format: "text", Output: "-"},
		Explain: ExplainConfig{Format: "pretty"},
	}
}

// Find walks up from startDir to locate ownership.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// ErrInvalid is wrapped by Load when the file parsed but held bad values.
var ErrInvalid = errors.New("invalid configuration")

// Load reads path over Default. Parse failures and invalid values are
// reported as errors to r and returned; unknown keys only produce warnings.
// r may be nil.
func Load(path string, r diag.Reporter) (Config, error) {
	if r == nil {
		r = diag.ReporterFunc(func(diag.Diagnostic) {})
	}
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		site := source.Site{Block: path}
		var perr toml.ParseError
		if errors.As(err, &perr) {
			if line, convErr := safecast.Conv[uint32](perr.Position.Line); convErr == nil {
				site.Step = line
			}
		}
		diag.ReportError(r, diag.CfgParse, site, err.Error()).Emit()
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path

	for _, key := range meta.Undecoded() {
		diag.ReportWarning(r, diag.CfgUnknownKey, source.Site{Block: path, Label: key.String()},
			fmt.Sprintf("unknown key %q is ignored", key.String())).Emit()
	}

	if problems := cfg.Validate(); len(problems) > 0 {
		for _, p := range problems {
			diag.ReportError(r, diag.CfgBadValue, source.Site{Block: path, Label: p.Key}, p.Msg).Emit()
		}
		return Config{}, fmt.Errorf("%s: %w: %s", path, ErrInvalid, problems[0].Msg)
	}
	return cfg, nil
}

// Problem is one invalid value found by Validate.
type Problem struct {
	Key string
	Msg string
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() []Problem {
	var out []Problem
	add := func(key, format string, args ...any) {
		out = append(out, Problem{Key: key, Msg: fmt.Sprintf(format, args...)})
	}

	for _, n := range c.Run.Lessons {
		if n < 1 || n > 4 {
			add("run.lessons", "lesson %d out of range 1-4", n)
		}
	}
	switch strings.ToLower(c.Output.Color) {
	case "", "auto", "on", "off":
	default:
		add("output.color", "color must be auto, on or off, got %q", c.Output.Color)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		add("trace.level", "%v", err)
	}
	if _, err := trace.ParseFormat(c.Trace.Format); err != nil {
		add("trace.format", "%v", err)
	}
	switch strings.ToLower(c.Explain.Format) {
	case "", "pretty", "json", "short":
	default:
		add("explain.format", "format must be pretty, json or short, got %q", c.Explain.Format)
	}
	if c.Explain.Max < 0 {
		add("explain.max", "max must not be negative, got %d", c.Explain.Max)
	}
	return out
}
