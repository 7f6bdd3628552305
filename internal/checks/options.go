package checks

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
)

const (
	optionsDecoderErrorTemplateConstant = "unable to prepare options decoder: %w"
	optionsDecodeErrorTemplateConstant  = "invalid options: %w"
	optionRequiredTemplateConstant      = "option %q is required"
	patternCompileErrorTemplateConstant = "option %q is not a valid regular expression: %w"
	boundsErrorTemplateConstant         = "option max (%d) must not be lower than min (%d)"
	negativeTimeoutTemplateConstant     = "option timeout (%s) must not be negative"
	caseInsensitiveFlagPrefixConstant   = "(?i)"
)

var defaultExcludedDirectoryNames = []string{".git", "node_modules", "vendor"}

type pathOptions struct {
	Path string `mapstructure:"path"`
}

type fileSelectionOptions struct {
	Root               string   `mapstructure:"root"`
	Paths              []string `mapstructure:"paths"`
	Include            []string `mapstructure:"include"`
	ExcludeDirectories []string `mapstructure:"exclude_directories"`
}

type countBoundsOptions struct {
	Min *int `mapstructure:"min"`
	Max int  `mapstructure:"max"`
}

type fileCountOptions struct {
	Root               string   `mapstructure:"root"`
	Include            []string `mapstructure:"include"`
	ExcludeDirectories []string `mapstructure:"exclude_directories"`
	Min                *int     `mapstructure:"min"`
	Max                int      `mapstructure:"max"`
}

func (options fileCountOptions) selection() fileSelectionOptions {
	return fileSelectionOptions{Root: options.Root, Include: options.Include, ExcludeDirectories: options.ExcludeDirectories}
}

func (options fileCountOptions) countBounds() countBoundsOptions {
	return countBoundsOptions{Min: options.Min, Max: options.Max}
}

type regexCountOptions struct {
	Root               string   `mapstructure:"root"`
	Paths              []string `mapstructure:"paths"`
	Include            []string `mapstructure:"include"`
	ExcludeDirectories []string `mapstructure:"exclude_directories"`
	Min                *int     `mapstructure:"min"`
	Max                int      `mapstructure:"max"`
	Pattern            string   `mapstructure:"pattern"`
	IgnoreCase         bool     `mapstructure:"ignore_case"`
}

func (options regexCountOptions) selection() fileSelectionOptions {
	return fileSelectionOptions{Root: options.Root, Paths: options.Paths, Include: options.Include, ExcludeDirectories: options.ExcludeDirectories}
}

func (options regexCountOptions) countBounds() countBoundsOptions {
	return countBoundsOptions{Min: options.Min, Max: options.Max}
}

type fileContainsOptions struct {
	Path       string `mapstructure:"path"`
	Pattern    string `mapstructure:"pattern"`
	IgnoreCase bool   `mapstructure:"ignore_case"`
	Absent     bool   `mapstructure:"absent"`
}

type commandOptions struct {
	Command          string            `mapstructure:"command"`
	Arguments        []string          `mapstructure:"args"`
	WorkingDirectory string            `mapstructure:"working_directory"`
	Environment      map[string]string `mapstructure:"environment"`
	ExpectExitCode   int               `mapstructure:"expect_exit_code"`
	OutputPattern    string            `mapstructure:"output_pattern"`
	Timeout          time.Duration     `mapstructure:"timeout"`
	StandardInput    string            `mapstructure:"stdin"`
}

type jsonFieldOptions struct {
	Path   string   `mapstructure:"path"`
	Query  string   `mapstructure:"query"`
	Equals any      `mapstructure:"equals"`
	Exists *bool    `mapstructure:"exists"`
	Min    *float64 `mapstructure:"min"`
}

type taskProgressOptions struct {
	Path          string  `mapstructure:"path"`
	MinPercentage float64 `mapstructure:"min_percentage"`
}

// decodeOptions maps a raw `with:` mapping onto a typed options structure, rejecting unknown keys.
func decodeOptions(rawOptions map[string]any, target any) error {
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		Result:           target,
	})
	if decoderError != nil {
		return fmt.Errorf(optionsDecoderErrorTemplateConstant, decoderError)
	}
	if decodeError := decoder.Decode(rawOptions); decodeError != nil {
		return fmt.Errorf(optionsDecodeErrorTemplateConstant, decodeError)
	}
	return nil
}

func requireOption(name string, value string) error {
	if len(strings.TrimSpace(value)) == 0 {
		return fmt.Errorf(optionRequiredTemplateConstant, name)
	}
	return nil
}

func compilePattern(name string, pattern string, ignoreCase bool) (*regexp.Regexp, error) {
	if requiredError := requireOption(name, pattern); requiredError != nil {
		return nil, requiredError
	}
	expression := pattern
	if ignoreCase {
		expression = caseInsensitiveFlagPrefixConstant + pattern
	}
	compiled, compileError := regexp.Compile(expression)
	if compileError != nil {
		return nil, fmt.Errorf(patternCompileErrorTemplateConstant, name, compileError)
	}
	return compiled, nil
}

// countBounds is the validated inclusive range a count must fall within; max zero means unbounded.
type countBounds struct {
	min int
	max int
}

func (options countBoundsOptions) bounds() (countBounds, error) {
	minimum := 1
	if options.Min != nil {
		minimum = *options.Min
	}
	if options.Max > 0 && options.Max < minimum {
		return countBounds{}, fmt.Errorf(boundsErrorTemplateConstant, options.Max, minimum)
	}
	return countBounds{min: minimum, max: options.Max}, nil
}

func (bounds countBounds) contains(count int) bool {
	if count < bounds.min {
		return false
	}
	return bounds.max == 0 || count <= bounds.max
}

func (bounds countBounds) String() string {
	if bounds.max == 0 {
		return fmt.Sprintf(">= %d", bounds.min)
	}
	if bounds.min == bounds.max {
		return fmt.Sprintf("== %d", bounds.min)
	}
	return fmt.Sprintf("%d..%d", bounds.min, bounds.max)
}

func (options fileSelectionOptions) selector() fileSelector {
	excluded := options.ExcludeDirectories
	if excluded == nil {
		excluded = defaultExcludedDirectoryNames
	}
	return fileSelector{
		root:               strings.TrimSpace(options.Root),
		paths:              trimNonEmpty(options.Paths),
		include:            trimNonEmpty(options.Include),
		excludeDirectories: trimNonEmpty(excluded),
	}
}

func trimNonEmpty(values []string) []string {
	trimmed := make([]string, 0, len(values))
	for _, value := range values {
		candidate := strings.TrimSpace(value)
		if len(candidate) == 0 {
			continue
		}
		trimmed = append(trimmed, candidate)
	}
	return trimmed
}
