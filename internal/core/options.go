package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Verbosity controls how much the pipeline reports while running.
type Verbosity int

const (
	VerbosityFull     Verbosity = 0 // progress plus the final report
	VerbosityProgress Verbosity = 1 // progress messages only
	VerbositySilent   Verbosity = 2 // nothing
)

// OutputFormat selects the report style.
type OutputFormat string

const (
	FormatCLI      OutputFormat = "cli"
	FormatMarkdown OutputFormat = "markdown"
)

// EchoMode controls what a chat session echoes while sending.
type EchoMode string

const (
	EchoNone   EchoMode = "none"
	EchoOutput EchoMode = "output"
	EchoAll    EchoMode = "all"
)

// Option bounds.
const (
	MinWordLimit     = 20
	MaxWordLimit     = 500
	MinHeadingLevel  = 1
	MaxHeadingLevel  = 6
	DefaultWordLimit = 150
	DefaultCutoff    = 0.3
	DefaultEmergency = 2
)

// Options configures one interpretation request.
type Options struct {
	Kind            AnalysisKind `json:"kind" mapstructure:"kind"`
	WordLimit       int          `json:"word_limit" mapstructure:"word_limit"`
	Cutoff          float64      `json:"cutoff" mapstructure:"cutoff"`
	NEmergency      int          `json:"n_emergency" mapstructure:"n_emergency"`
	SortLoadings    bool         `json:"sort_loadings" mapstructure:"sort_loadings"`
	HideLowLoadings bool         `json:"hide_low_loadings" mapstructure:"hide_low_loadings"`
	AdditionalInfo  string       `json:"additional_info,omitempty" mapstructure:"additional_info"`
	OutputFormat    OutputFormat `json:"output_format" mapstructure:"output_format"`
	HeadingLevel    int          `json:"heading_level" mapstructure:"heading_level"`
	Verbosity       Verbosity    `json:"verbosity" mapstructure:"verbosity"`
	Echo            EchoMode     `json:"echo" mapstructure:"echo"`
}

// DefaultOptions returns the defaults used when a field is not supplied.
func DefaultOptions() Options {
	return Options{
		Kind:         KindFactorAnalysis,
		WordLimit:    DefaultWordLimit,
		Cutoff:       DefaultCutoff,
		NEmergency:   DefaultEmergency,
		SortLoadings: true,
		OutputFormat: FormatCLI,
		HeadingLevel: 1,
		Verbosity:    VerbosityFull,
		Echo:         EchoNone,
	}
}

// Validate checks every option against its documented bounds. It returns a
// configuration error naming the first offending field.
func (o Options) Validate() error {
	if !o.Kind.IsKnown() {
		return ErrInvalidOption("kind", "one of "+joinKinds(KnownKinds()), o.Kind)
	}
	if o.WordLimit < MinWordLimit || o.WordLimit > MaxWordLimit {
		return ErrInvalidOption("word_limit", fmt.Sprintf("between %d and %d", MinWordLimit, MaxWordLimit), o.WordLimit)
	}
	if math.IsNaN(o.Cutoff) || o.Cutoff < 0 || o.Cutoff > 1 {
		return ErrInvalidOption("cutoff", "between 0 and 1", o.Cutoff)
	}
	if o.NEmergency < 0 {
		return ErrInvalidOption("n_emergency", "a non-negative integer", o.NEmergency)
	}
	switch o.OutputFormat {
	case FormatCLI, FormatMarkdown:
	default:
		return ErrInvalidOption("output_format", `"cli" or "markdown"`, o.OutputFormat)
	}
	if o.HeadingLevel < MinHeadingLevel || o.HeadingLevel > MaxHeadingLevel {
		return ErrInvalidOption("heading_level", fmt.Sprintf("between %d and %d", MinHeadingLevel, MaxHeadingLevel), o.HeadingLevel)
	}
	if o.Verbosity < VerbosityFull || o.Verbosity > VerbositySilent {
		return ErrInvalidOption("verbosity", "0 (full), 1 (progress) or 2 (silent)", int(o.Verbosity))
	}
	switch o.Echo {
	case EchoNone, EchoOutput, EchoAll:
	default:
		return ErrInvalidOption("echo", `"none", "output" or "all"`, o.Echo)
	}
	return nil
}

// NormalizeVerbosity translates a loosely typed verbosity value into the
// canonical enum. Legacy booleans map false to full output and true to
// silent; integers (or integer strings) must be 0, 1 or 2.
func NormalizeVerbosity(v interface{}) (Verbosity, error) {
	switch val := v.(type) {
	case nil:
		return VerbosityFull, nil
	case Verbosity:
		return checkVerbosity(int(val), v)
	case bool:
		if val {
			return VerbositySilent, nil
		}
		return VerbosityFull, nil
	case float32, float64:
		f := cast.ToFloat64(val)
		if f != math.Trunc(f) {
			return 0, ErrInvalidOption("verbosity", "0, 1, 2 or a boolean", v)
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true":
			return VerbositySilent, nil
		case "false":
			return VerbosityFull, nil
		}
	}

	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, ErrInvalidOption("verbosity", "0, 1, 2 or a boolean", v)
	}
	return checkVerbosity(n, v)
}

func checkVerbosity(n int, raw interface{}) (Verbosity, error) {
	if n < int(VerbosityFull) || n > int(VerbositySilent) {
		return 0, ErrInvalidOption("verbosity", "0, 1, 2 or a boolean", raw)
	}
	return Verbosity(n), nil
}

func joinKinds(kinds []AnalysisKind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
