// Package config parses, validates, and rewrites .wflcfg files
// (spec.md §6.3): a closed set of key=value settings controlling
// execution limits, logging, and the style linter. Debug-report
// serialization uses goccy/go-yaml, kept from the teacher's dependency
// set for exactly the same purpose go-dws uses it: dumping structured
// diagnostic state in a human-editable format.
package config

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// LogLevel is one of the four levels spec.md §6.3's log_level key accepts.
type LogLevel string

const (
	LogError LogLevel = "error"
	LogWarn  LogLevel = "warn"
	LogInfo  LogLevel = "info"
	LogDebug LogLevel = "debug"
)

var logLevelRank = map[LogLevel]int{LogError: 0, LogWarn: 1, LogInfo: 2, LogDebug: 3}

// Enabled reports whether a message at level reaches a logger configured
// at l (lower rank is more severe and always passes a higher threshold).
func (l LogLevel) Enabled(level LogLevel) bool {
	return logLevelRank[level] <= logLevelRank[l]
}

// Config is the parsed contents of a .wflcfg file — spec.md §6.3's
// closed key set, nothing more.
type Config struct {
	TimeoutSeconds      int
	LoggingEnabled      bool
	DebugReportEnabled  bool
	LogLevel            LogLevel
	MaxLineLength       int
	MaxNestingDepth     int
	IndentSize          int
	SnakeCaseVariables  bool
	TrailingWhitespace  bool
	ConsistentKeywordCase bool

	raw map[string]string
}

// Default returns the built-in defaults used when no .wflcfg is present,
// per the defaults spec.md §6.3 lists alongside each key.
func Default() *Config {
	return &Config{
		TimeoutSeconds:        60,
		LoggingEnabled:        false,
		DebugReportEnabled:    false,
		LogLevel:              LogWarn,
		MaxLineLength:         100,
		MaxNestingDepth:       5,
		IndentSize:            4,
		SnakeCaseVariables:    true,
		TrailingWhitespace:    true,
		ConsistentKeywordCase: true,
		raw:                   map[string]string{},
	}
}

// Parse reads key=value pairs, one per line, `#`-prefixed comments and
// blank lines ignored. Unknown keys are reported as errors here;
// `wfl config check` prints each one to stderr and exits non-zero.
func Parse(data []byte) (*Config, []error) {
	cfg := Default()
	cfg.raw = map[string]string{}
	var errs []error

	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			errs = append(errs, fmt.Errorf("line %d: expected key=value, got %q", lineNo, line))
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		cfg.raw[key] = val
		if err := cfg.apply(key, val); err != nil {
			errs = append(errs, fmt.Errorf("line %d: %v", lineNo, err))
		}
	}
	return cfg, errs
}

func (c *Config) apply(key, val string) error {
	atoi := func(name string) (int, error) {
		n, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer: %v", name, err)
		}
		return n, nil
	}
	switch key {
	case "timeout_seconds":
		n, err := atoi(key)
		if err != nil {
			return err
		}
		c.TimeoutSeconds = n
	case "logging_enabled":
		c.LoggingEnabled = val == "true"
	case "debug_report_enabled":
		c.DebugReportEnabled = val == "true"
	case "log_level":
		switch LogLevel(val) {
		case LogError, LogWarn, LogInfo, LogDebug:
			c.LogLevel = LogLevel(val)
		default:
			return fmt.Errorf("log_level must be one of error/warn/info/debug, got %q", val)
		}
	case "max_line_length":
		n, err := atoi(key)
		if err != nil {
			return err
		}
		c.MaxLineLength = n
	case "max_nesting_depth":
		n, err := atoi(key)
		if err != nil {
			return err
		}
		c.MaxNestingDepth = n
	case "indent_size":
		n, err := atoi(key)
		if err != nil {
			return err
		}
		c.IndentSize = n
	case "snake_case_variables":
		c.SnakeCaseVariables = val == "true"
	case "trailing_whitespace":
		c.TrailingWhitespace = val == "true"
	case "consistent_keyword_case":
		c.ConsistentKeywordCase = val == "true"
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// Write serializes cfg back to .wflcfg key=value form, in the same
// order spec.md §6.3's table lists the keys, inserting defaults for
// anything the source file omitted (spec.md: "--configFix ... inserts
// defaults").
func (c *Config) Write() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "timeout_seconds=%d\n", c.TimeoutSeconds)
	fmt.Fprintf(&sb, "logging_enabled=%t\n", c.LoggingEnabled)
	fmt.Fprintf(&sb, "debug_report_enabled=%t\n", c.DebugReportEnabled)
	fmt.Fprintf(&sb, "log_level=%s\n", c.LogLevel)
	fmt.Fprintf(&sb, "max_line_length=%d\n", c.MaxLineLength)
	fmt.Fprintf(&sb, "max_nesting_depth=%d\n", c.MaxNestingDepth)
	fmt.Fprintf(&sb, "indent_size=%d\n", c.IndentSize)
	fmt.Fprintf(&sb, "snake_case_variables=%t\n", c.SnakeCaseVariables)
	fmt.Fprintf(&sb, "trailing_whitespace=%t\n", c.TrailingWhitespace)
	fmt.Fprintf(&sb, "consistent_keyword_case=%t\n", c.ConsistentKeywordCase)
	return sb.String()
}

// Load reads a .wflcfg from path, falling back to defaults if absent.
func Load(path string) (*Config, []error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Default(), []error{err}
	}
	return Parse(data)
}

// DebugReport is the structure dumped by `wfl run --debug` (or when
// debug_report_enabled is set in .wflcfg), capturing enough state to
// reproduce a run for a bug report.
type DebugReport struct {
	File        string            `yaml:"file"`
	ConfigKeys  map[string]string `yaml:"config"`
	ElapsedMS   int64             `yaml:"elapsed_ms"`
	ExitCode    int               `yaml:"exit_code"`
	Diagnostics []string          `yaml:"diagnostics,omitempty"`
}

// MarshalYAML renders a DebugReport deterministically (sorted config
// keys) so two runs of the same program produce byte-identical reports.
// Returning raw bytes satisfies goccy/go-yaml's BytesMarshaler
// interface, embedding this value's own rendering verbatim rather than
// letting the parent Marshal call re-encode it.
func (r DebugReport) MarshalYAML() ([]byte, error) {
	keys := make([]string, 0, len(r.ConfigKeys))
	for k := range r.ConfigKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	config := make(yaml.MapSlice, 0, len(keys))
	for _, k := range keys {
		config = append(config, yaml.MapItem{Key: k, Value: r.ConfigKeys[k]})
	}
	type ordered struct {
		File        string        `yaml:"file"`
		Config      yaml.MapSlice `yaml:"config"`
		ElapsedMS   int64         `yaml:"elapsed_ms"`
		ExitCode    int           `yaml:"exit_code"`
		Diagnostics []string      `yaml:"diagnostics,omitempty"`
	}
	return yaml.Marshal(ordered{File: r.File, Config: config, ElapsedMS: r.ElapsedMS, ExitCode: r.ExitCode, Diagnostics: r.Diagnostics})
}
