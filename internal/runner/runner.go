package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/readiness/internal/checks"
	"github.com/temirov/readiness/internal/filesystem"
	"github.com/temirov/readiness/internal/report"
	"github.com/temirov/readiness/internal/suite"
)

const (
	// DefaultParallelism bounds concurrent check evaluation when no value is configured.
	DefaultParallelism = 4

	runStartedLogMessageConstant     = "readiness run started"
	runCompletedLogMessageConstant   = "readiness run completed"
	checkCompletedLogMessageConstant = "check completed"
	logFieldRunIdentifierConstant    = "run_id"
	logFieldSuiteConstant            = "suite"
	logFieldCheckCountConstant       = "checks"
	logFieldParallelismConstant      = "parallelism"
	logFieldCheckIdentifierConstant  = "check_id"
	logFieldKindConstant             = "kind"
	logFieldStatusConstant           = "status"
	logFieldDurationConstant         = "duration"
	logFieldMessageConstant          = "message"
	logFieldScoreConstant            = "score"
	logFieldOutcomeConstant          = "outcome"
	cancelledMessageConstant         = "cancelled"
	timedOutTemplateConstant         = "timed out after %s"
	loggerRequiredMessageConstant    = "runner requires a logger"
)

// ErrLoggerNotConfigured indicates the runner was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerRequiredMessageConstant)

// Clock supplies timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Observer receives check lifecycle notifications; calls arrive concurrently from parallel checks.
// Every CheckCompleted is preceded by a CheckStarted for the same definition.
type Observer interface {
	CheckStarted(definition checks.Definition)
	CheckCompleted(result checks.Result)
}

type noopObserver struct{}

func (noopObserver) CheckStarted(checks.Definition) {}

func (noopObserver) CheckCompleted(checks.Result) {}

// Dependencies configures the collaborators used during a run.
type Dependencies struct {
	Logger              *zap.Logger
	FileSystem          filesystem.FileSystem
	CommandExecutor     checks.CommandExecutor
	Clock               Clock
	Observer            Observer
	IdentifierGenerator func() string
}

// Configuration tunes run behavior.
type Configuration struct {
	Parallelism int
}

// Runner evaluates checks and builds reports.
type Runner struct {
	logger              *zap.Logger
	fileSystem          filesystem.FileSystem
	commandExecutor     checks.CommandExecutor
	clock               Clock
	observer            Observer
	identifierGenerator func() string
	parallelism         int
}

// NewRunner validates dependencies and applies defaults.
func NewRunner(dependencies Dependencies, configuration Configuration) (*Runner, error) {
	if dependencies.Logger == nil {
		return nil, ErrLoggerNotConfigured
	}

	clock := dependencies.Clock
	if clock == nil {
		clock = systemClock{}
	}
	observer := dependencies.Observer
	if observer == nil {
		observer = noopObserver{}
	}
	identifierGenerator := dependencies.IdentifierGenerator
	if identifierGenerator == nil {
		identifierGenerator = uuid.NewString
	}
	parallelism := configuration.Parallelism
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}

	return &Runner{
		logger:              dependencies.Logger,
		fileSystem:          filesystem.Resolve(dependencies.FileSystem),
		commandExecutor:     dependencies.CommandExecutor,
		clock:               clock,
		observer:            observer,
		identifierGenerator: identifierGenerator,
		parallelism:         parallelism,
	}, nil
}

// Run evaluates the checks against the suite root and returns the aggregated report.
// Results keep declaration order. When the context is cancelled, checks that never
// started are recorded as errors and the context error is returned with the report.
func (runner *Runner) Run(executionContext context.Context, readinessSuite suite.Suite, suiteChecks []checks.Check) (report.Report, error) {
	runIdentifier := runner.identifierGenerator()
	startedAt := runner.clock.Now()
	runLogger := runner.logger.With(
		zap.String(logFieldRunIdentifierConstant, runIdentifier),
		zap.String(logFieldSuiteConstant, readinessSuite.Name),
	)
	runLogger.Info(runStartedLogMessageConstant,
		zap.Int(logFieldCheckCountConstant, len(suiteChecks)),
		zap.Int(logFieldParallelismConstant, runner.parallelism),
	)

	environment := checks.Environment{
		RootDirectory:   readinessSuite.RootDirectory,
		FileSystem:      runner.fileSystem,
		CommandExecutor: runner.commandExecutor,
	}

	results := make([]checks.Result, len(suiteChecks))
	group := new(errgroup.Group)
	group.SetLimit(runner.parallelism)
	for checkIndex := range suiteChecks {
		check := suiteChecks[checkIndex]
		if executionContext.Err() != nil {
			results[checkIndex] = runner.cancelled(check.Definition(), runLogger)
			continue
		}
		group.Go(func() error {
			results[checkIndex] = runner.evaluate(executionContext, check, environment, runLogger)
			return nil
		})
	}
	_ = group.Wait()

	finishedAt := runner.clock.Now()
	readinessReport := report.Build(report.Metadata{
		Suite:      readinessSuite.Name,
		Project:    readinessSuite.Project,
		RunID:      runIdentifier,
		Threshold:  readinessSuite.Threshold,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}, results)

	runLogger.Info(runCompletedLogMessageConstant,
		zap.Float64(logFieldScoreConstant, readinessReport.Summary.Score),
		zap.String(logFieldOutcomeConstant, string(readinessReport.Summary.Outcome)),
		zap.Duration(logFieldDurationConstant, finishedAt.Sub(startedAt)),
	)

	return readinessReport, executionContext.Err()
}

func (runner *Runner) evaluate(executionContext context.Context, check checks.Check, environment checks.Environment, runLogger *zap.Logger) checks.Result {
	definition := check.Definition()
	if executionContext.Err() != nil {
		return runner.cancelled(definition, runLogger)
	}

	runner.observer.CheckStarted(definition)
	checkContext := executionContext
	cancel := func() {}
	if definition.Timeout > 0 {
		checkContext, cancel = context.WithTimeout(executionContext, definition.Timeout)
	}
	defer cancel()

	startedAt := runner.clock.Now()
	resultChannel := make(chan checks.Result, 1)
	go func() {
		resultChannel <- check.Evaluate(checkContext, environment)
	}()

	var result checks.Result
	select {
	case result = <-resultChannel:
	case <-checkContext.Done():
		result = checks.ErrorResult(definition, runner.interruptionMessage(executionContext, definition))
	}
	result.Definition = definition
	result.Duration = runner.clock.Now().Sub(startedAt)
	return runner.complete(result, runLogger)
}

func (runner *Runner) cancelled(definition checks.Definition, runLogger *zap.Logger) checks.Result {
	runner.observer.CheckStarted(definition)
	return runner.complete(checks.ErrorResult(definition, cancelledMessageConstant), runLogger)
}

func (runner *Runner) interruptionMessage(executionContext context.Context, definition checks.Definition) string {
	if executionContext.Err() != nil {
		return cancelledMessageConstant
	}
	return fmt.Sprintf(timedOutTemplateConstant, definition.Timeout)
}

func (runner *Runner) complete(result checks.Result, runLogger *zap.Logger) checks.Result {
	fields := []zap.Field{
		zap.String(logFieldCheckIdentifierConstant, result.Definition.ID),
		zap.String(logFieldKindConstant, string(result.Definition.Kind)),
		zap.String(logFieldStatusConstant, string(result.Status)),
		zap.Duration(logFieldDurationConstant, result.Duration),
	}
	if result.Passed() {
		runLogger.Debug(checkCompletedLogMessageConstant, fields...)
	} else {
		runLogger.Info(checkCompletedLogMessageConstant, append(fields, zap.String(logFieldMessageConstant, result.Message))...)
	}
	runner.observer.CheckCompleted(result)
	return result
}
