package suite

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/temirov/readiness/internal/checks"
	"github.com/temirov/readiness/internal/filesystem"
	pathutils "github.com/temirov/readiness/internal/utils/path"
)

const (
	suiteLoadErrorTemplateConstant              = "failed to load suite: %w"
	suiteParseErrorTemplateConstant             = "failed to parse suite: %w"
	suitePathRequiredMessageConstant            = "suite path must be provided"
	suiteEmptyChecksMessageConstant             = "suite must define at least one check"
	suiteCheckIdentifierMissingTemplateConstant = "suite check #%d is missing an id"
	suiteDuplicateIdentifierTemplateConstant    = "suite defines duplicate check id %q"
	suiteUnknownKindTemplateConstant            = "check %s has unsupported kind %q"
	suiteKindMissingTemplateConstant            = "check %s is missing a kind"
	suiteInvalidSeverityTemplateConstant        = "check %s has invalid severity %q (expected error or warning)"
	suiteInvalidDefaultSeverityTemplateConstant = "suite default severity %q is invalid (expected error or warning)"
	suiteThresholdRangeTemplateConstant         = "suite threshold %g must be between 0 and 100"
	suiteNegativeTimeoutTemplateConstant        = "check %s has a negative timeout"
	suiteNameFallbackConstant                   = "readiness"
	// DefaultThreshold is the readiness percentage required when a suite does not set one.
	DefaultThreshold = 80.0
)

// Suite is a validated, defaults-applied readiness suite.
type Suite struct {
	Name          string
	Project       string
	RootDirectory string
	Threshold     float64
	Defaults      Defaults
	Checks        []CheckConfiguration
	SourcePath    string
}

// Defaults holds values applied to checks that omit them.
type Defaults struct {
	Severity checks.Severity `yaml:"severity" json:"severity"`
	Timeout  time.Duration   `yaml:"timeout" json:"timeout"`
}

// CheckConfiguration is one declared check entry.
type CheckConfiguration struct {
	ID             string          `yaml:"id" json:"id"`
	Kind           checks.Kind     `yaml:"kind" json:"kind"`
	Component      string          `yaml:"component" json:"component"`
	Severity       checks.Severity `yaml:"severity" json:"severity"`
	Description    string          `yaml:"description" json:"description"`
	Recommendation string          `yaml:"recommendation" json:"recommendation"`
	Timeout        time.Duration   `yaml:"timeout" json:"timeout"`
	Options        map[string]any  `yaml:"with" json:"with"`
}

// Definition converts the entry into the metadata carried by its check.
func (configuration CheckConfiguration) Definition() checks.Definition {
	return checks.Definition{
		ID:             configuration.ID,
		Kind:           configuration.Kind,
		Component:      configuration.Component,
		Severity:       configuration.Severity,
		Description:    configuration.Description,
		Recommendation: configuration.Recommendation,
		Timeout:        configuration.Timeout,
	}
}

type fileConfiguration struct {
	Name      string               `yaml:"name" json:"name"`
	Project   string               `yaml:"project" json:"project"`
	Root      string               `yaml:"root" json:"root"`
	Threshold *float64             `yaml:"threshold" json:"threshold"`
	Defaults  Defaults             `yaml:"defaults" json:"defaults"`
	Checks    []CheckConfiguration `yaml:"checks" json:"checks"`
}

// LoadSuite reads a suite from disk; relative roots resolve against the suite file's directory.
func LoadSuite(filePath string) (Suite, error) {
	return LoadSuiteFromFileSystem(nil, filePath)
}

// LoadSuiteFromFileSystem reads a suite through the provided file system.
func LoadSuiteFromFileSystem(fileSystem filesystem.FileSystem, filePath string) (Suite, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return Suite{}, errors.New(suitePathRequiredMessageConstant)
	}

	resolvedPath := pathutils.NewPathSanitizer().Resolve(trimmedPath)
	absolutePath, absoluteError := filepath.Abs(resolvedPath)
	if absoluteError == nil {
		resolvedPath = absolutePath
	}

	contentBytes, readError := filesystem.Resolve(fileSystem).ReadFile(resolvedPath)
	if readError != nil {
		return Suite{}, fmt.Errorf(suiteLoadErrorTemplateConstant, readError)
	}

	parsedSuite, parseError := Parse(contentBytes, filepath.Dir(resolvedPath))
	if parseError != nil {
		return Suite{}, parseError
	}
	parsedSuite.SourcePath = resolvedPath
	return parsedSuite, nil
}

// Parse decodes suite content, accepting either a top-level `suite:` mapping or a bare mapping.
func Parse(contentBytes []byte, baseDirectory string) (Suite, error) {
	var configuration fileConfiguration
	if unmarshalError := yaml.Unmarshal(contentBytes, &configuration); unmarshalError != nil {
		var wrapper struct {
			Suite fileConfiguration `yaml:"suite" json:"suite"`
		}
		if nestedError := yaml.Unmarshal(contentBytes, &wrapper); nestedError != nil || len(wrapper.Suite.Checks) == 0 {
			return Suite{}, fmt.Errorf(suiteParseErrorTemplateConstant, unmarshalError)
		}
		configuration = wrapper.Suite
	} else if len(configuration.Checks) == 0 {
		var wrapper struct {
			Suite fileConfiguration `yaml:"suite" json:"suite"`
		}
		if nestedError := yaml.Unmarshal(contentBytes, &wrapper); nestedError == nil && len(wrapper.Suite.Checks) > 0 {
			configuration = wrapper.Suite
		}
	}

	return normalize(configuration, baseDirectory)
}

func normalize(configuration fileConfiguration, baseDirectory string) (Suite, error) {
	if len(configuration.Checks) == 0 {
		return Suite{}, errors.New(suiteEmptyChecksMessageConstant)
	}

	threshold := DefaultThreshold
	if configuration.Threshold != nil {
		threshold = *configuration.Threshold
	}
	if threshold < 0 || threshold > 100 {
		return Suite{}, fmt.Errorf(suiteThresholdRangeTemplateConstant, threshold)
	}

	defaults := configuration.Defaults
	defaults.Severity = checks.Severity(strings.ToLower(strings.TrimSpace(string(defaults.Severity))))
	if len(defaults.Severity) == 0 {
		defaults.Severity = checks.SeverityError
	}
	if !isValidSeverity(defaults.Severity) {
		return Suite{}, fmt.Errorf(suiteInvalidDefaultSeverityTemplateConstant, defaults.Severity)
	}

	sanitizer := pathutils.NewPathSanitizerWithConfiguration(nil, pathutils.PathSanitizerConfiguration{BaseDirectory: baseDirectory})
	rootDirectory := sanitizer.Resolve(configuration.Root)
	if len(rootDirectory) == 0 {
		rootDirectory = baseDirectory
	}

	name := strings.TrimSpace(configuration.Name)
	if len(name) == 0 {
		name = suiteNameFallbackConstant
	}

	normalizedChecks := make([]CheckConfiguration, 0, len(configuration.Checks))
	seenIdentifiers := make(map[string]struct{}, len(configuration.Checks))
	for checkIndex := range configuration.Checks {
		entry := configuration.Checks[checkIndex]
		entry.ID = strings.TrimSpace(entry.ID)
		if len(entry.ID) == 0 {
			return Suite{}, fmt.Errorf(suiteCheckIdentifierMissingTemplateConstant, checkIndex+1)
		}
		identifierKey := strings.ToLower(entry.ID)
		if _, duplicate := seenIdentifiers[identifierKey]; duplicate {
			return Suite{}, fmt.Errorf(suiteDuplicateIdentifierTemplateConstant, entry.ID)
		}
		seenIdentifiers[identifierKey] = struct{}{}

		entry.Kind = checks.Kind(strings.ToLower(strings.TrimSpace(string(entry.Kind))))
		if len(entry.Kind) == 0 {
			return Suite{}, fmt.Errorf(suiteKindMissingTemplateConstant, entry.ID)
		}
		if !checks.IsKnownKind(entry.Kind) {
			return Suite{}, fmt.Errorf(suiteUnknownKindTemplateConstant, entry.ID, entry.Kind)
		}

		entry.Severity = checks.Severity(strings.ToLower(strings.TrimSpace(string(entry.Severity))))
		if len(entry.Severity) == 0 {
			entry.Severity = defaults.Severity
		}
		if !isValidSeverity(entry.Severity) {
			return Suite{}, fmt.Errorf(suiteInvalidSeverityTemplateConstant, entry.ID, entry.Severity)
		}

		if entry.Timeout < 0 {
			return Suite{}, fmt.Errorf(suiteNegativeTimeoutTemplateConstant, entry.ID)
		}
		if entry.Timeout == 0 {
			entry.Timeout = defaults.Timeout
		}

		entry.Component = strings.TrimSpace(entry.Component)
		if len(entry.Component) == 0 {
			entry.Component = checks.DefaultComponent
		}
		entry.Description = strings.TrimSpace(entry.Description)
		entry.Recommendation = strings.TrimSpace(entry.Recommendation)
		if entry.Options == nil {
			entry.Options = map[string]any{}
		}

		normalizedChecks = append(normalizedChecks, entry)
	}

	return Suite{
		Name:          name,
		Project:       strings.TrimSpace(configuration.Project),
		RootDirectory: rootDirectory,
		Threshold:     threshold,
		Defaults:      defaults,
		Checks:        normalizedChecks,
	}, nil
}

func isValidSeverity(severity checks.Severity) bool {
	return severity == checks.SeverityError || severity == checks.SeverityWarning
}
