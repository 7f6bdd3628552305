package checks

import (
	"context"
	"math"
	"time"

	"github.com/temirov/readiness/internal/execshell"
	"github.com/temirov/readiness/internal/filesystem"
	pathutils "github.com/temirov/readiness/internal/utils/path"
)

// Kind identifies a supported check type.
type Kind string

// Supported check kinds.
const (
	KindFileExists      Kind = Kind("file-exists")
	KindDirectoryExists Kind = Kind("directory-exists")
	KindPathAbsent      Kind = Kind("path-absent")
	KindFileCount       Kind = Kind("file-count")
	KindRegexCount      Kind = Kind("regex-count")
	KindFileContains    Kind = Kind("file-contains")
	KindCommandSucceeds Kind = Kind("command-succeeds")
	KindJSONField       Kind = Kind("json-field")
	KindTaskProgress    Kind = Kind("task-progress")
)

// Severity controls how a failing check affects the run outcome.
type Severity string

// Supported severities.
const (
	SeverityError   Severity = Severity("error")
	SeverityWarning Severity = Severity("warning")
)

// Status is the evaluated state of a check.
type Status string

// Supported statuses.
const (
	StatusPass  Status = Status("pass")
	StatusFail  Status = Status("fail")
	StatusError Status = Status("error")
)

// DefaultComponent groups checks declared without a component.
const DefaultComponent = "general"

// Definition carries the declarative metadata shared by every check kind.
type Definition struct {
	ID             string        `json:"id" yaml:"id"`
	Kind           Kind          `json:"kind" yaml:"kind"`
	Component      string        `json:"component" yaml:"component"`
	Severity       Severity      `json:"severity" yaml:"severity"`
	Description    string        `json:"description,omitempty" yaml:"description,omitempty"`
	Recommendation string        `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
	Timeout        time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// Progress counts completed units out of a total, such as Markdown task items.
type Progress struct {
	Total     int `json:"total" yaml:"total"`
	Completed int `json:"completed" yaml:"completed"`
}

// Percentage returns the completion ratio rounded to one decimal; an empty total yields zero.
func (progress Progress) Percentage() float64 {
	return RoundPercentage(progress.Completed, progress.Total)
}

// RoundPercentage computes part/total*100 rounded to one decimal place.
func RoundPercentage(part int, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

// Result is the outcome of evaluating a single check.
type Result struct {
	Definition Definition    `json:"definition" yaml:"definition"`
	Status     Status        `json:"status" yaml:"status"`
	Message    string        `json:"message" yaml:"message"`
	Observed   string        `json:"observed,omitempty" yaml:"observed,omitempty"`
	Progress   *Progress     `json:"progress,omitempty" yaml:"progress,omitempty"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
}

// Passed reports whether the check passed.
func (result Result) Passed() bool {
	return result.Status == StatusPass
}

// Check evaluates one declarative probe against the environment.
type Check interface {
	Definition() Definition
	Evaluate(executionContext context.Context, environment Environment) Result
}

// CommandExecutor runs external tools on behalf of command checks.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// Environment provides the collaborators checks evaluate against.
type Environment struct {
	RootDirectory   string
	FileSystem      filesystem.FileSystem
	CommandExecutor CommandExecutor
}

// ResolvePath anchors a suite-relative path to the environment root, expanding ~ and $VAR references.
func (environment Environment) ResolvePath(candidatePath string) string {
	sanitizer := pathutils.NewPathSanitizerWithConfiguration(nil, pathutils.PathSanitizerConfiguration{BaseDirectory: environment.RootDirectory})
	return sanitizer.Resolve(candidatePath)
}

func (environment Environment) fileSystem() filesystem.FileSystem {
	return filesystem.Resolve(environment.FileSystem)
}

func newResult(definition Definition, status Status, message string) Result {
	return Result{Definition: definition, Status: status, Message: message}
}

// ErrorResult builds a StatusError result for a check that could not be evaluated.
func ErrorResult(definition Definition, message string) Result {
	return newResult(definition, StatusError, message)
}
