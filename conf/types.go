package conf

import (
	"fmt"
	"strconv"
	"strings"
)

// RunPhase selects which steps of a cycle to execute.
type RunPhase int

const (
	// StagePhase - only build and stage the cycle working directory
	StagePhase RunPhase = iota
	// ForecastPhase - stage and run the forecast executable
	ForecastPhase
	// PostPhase - only post-process and publish an already-run cycle
	PostPhase
	// AllPhases - stage, forecast, post and publish
	AllPhases
)

// FromString parses a phase name as given on the command line.
func (p *RunPhase) FromString(s string) error {
	switch strings.ToUpper(s) {
	case "STAGE":
		*p = StagePhase
	case "FCST":
		*p = ForecastPhase
	case "POST":
		*p = PostPhase
	case "ALL":
		*p = AllPhases
	default:
		return fmt.Errorf("unknown phase `%s`: must be one of STAGE, FCST, POST, ALL", s)
	}
	return nil
}

// Flag is a boolean configuration token. The operational configuration
// convention spells booleans as TRUE/true/YES/yes or FALSE/false/NO/no;
// any other token is a configuration error.
type Flag bool

// UnmarshalText implements encoding.TextUnmarshaler, so the same parse
// applies to both the TOML configuration and the YAML fixed-file table.
func (f *Flag) UnmarshalText(text []byte) error {
	switch string(text) {
	case "TRUE", "true", "YES", "yes":
		*f = true
	case "FALSE", "false", "NO", "no":
		*f = false
	default:
		return fmt.Errorf("invalid boolean token `%s`: want TRUE/true/YES/yes or FALSE/false/NO/no", text)
	}
	return nil
}

// Bool ...
func (f Flag) Bool() bool {
	return bool(f)
}

// ParseHour parses a zero-padded hour-of-day token like "00" or "18".
// Parsing is forced to base 10: "08" and "09" are valid hours, not
// malformed octal.
func ParseHour(s string) (int, error) {
	h, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("cannot parse hour token `%s`: %w", s, err)
	}
	if h < 0 || h > 23 {
		return 0, fmt.Errorf("hour token `%s` out of range 0..23", s)
	}
	return int(h), nil
}
