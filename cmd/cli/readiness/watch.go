package readiness

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/readiness/internal/report"
	"github.com/temirov/readiness/internal/utils"
	"github.com/temirov/readiness/internal/watch"
)

const (
	watchCommandUseConstant              = "watch [suite]"
	watchCommandShortDescriptionConstant = "Re-run a readiness suite on an interval and on file changes"
	watchCommandLongDescriptionConstant  = "watch runs the suite immediately, then again on every interval tick and whenever a watched path changes. It stops on interrupt or once --iterations runs complete."
	intervalFlagNameConstant             = "interval"
	intervalFlagUsageConstant            = "Delay between runs; 0 disables interval runs"
	watchPathFlagNameConstant            = "watch-path"
	watchPathFlagUsageConstant           = "Paths whose changes trigger a run (repeatable)"
	iterationsFlagNameConstant           = "iterations"
	iterationsFlagUsageConstant          = "Stop after this many runs; 0 runs until interrupted"
	createWatcherErrorTemplateConstant   = "unable to construct watcher: %w"
	watchSeparatorConstant               = "\n"
)

// WatchCommandBuilder assembles the watch command.
type WatchCommandBuilder struct {
	Dependencies          CommandDependencies
	ConfigurationProvider func() WatchConfiguration
}

type watchFlagValues struct {
	runFlagValues
	interval   string
	watchPaths []string
	iterations int
}

// Build constructs the watch command.
func (builder *WatchCommandBuilder) Build() (*cobra.Command, error) {
	flagValues := &watchFlagValues{}

	command := &cobra.Command{
		Use:   watchCommandUseConstant,
		Short: watchCommandShortDescriptionConstant,
		Long:  watchCommandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(command *cobra.Command, arguments []string) error {
			return bindSuitePath(command, arguments, flagValues.suite, builder.resolveConfiguration().Suite)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, flagValues)
		},
	}

	bindReportFlags(command, &flagValues.runFlagValues)
	defaults := DefaultWatchConfiguration()
	command.Flags().Duration(intervalFlagNameConstant, defaults.Interval, intervalFlagUsageConstant)
	command.Flags().StringSliceVar(&flagValues.watchPaths, watchPathFlagNameConstant, nil, watchPathFlagUsageConstant)
	command.Flags().IntVar(&flagValues.iterations, iterationsFlagNameConstant, 0, iterationsFlagUsageConstant)

	return command, nil
}

func (builder *WatchCommandBuilder) run(command *cobra.Command, flagValues *watchFlagValues) error {
	suitePath, suitePathError := suitePathFromCommand(command)
	if suitePathError != nil {
		return suitePathError
	}

	configuration := builder.resolveConfiguration()
	configuration.RunConfiguration = flagValues.applyFlags(command, configuration.RunConfiguration)
	if command.Flags().Changed(intervalFlagNameConstant) {
		configuration.Interval, _ = command.Flags().GetDuration(intervalFlagNameConstant)
	}
	if command.Flags().Changed(watchPathFlagNameConstant) {
		configuration.WatchPaths = flagValues.watchPaths
	}
	configuration = configuration.Sanitize()

	formats, formatsError := parseFormats(configuration.Formats)
	if formatsError != nil {
		return formatsError
	}

	resolved, dependenciesError := builder.Dependencies.resolve()
	if dependenciesError != nil {
		return dependenciesError
	}

	watcher, watcherError := watch.NewWatcher(resolved.logger, resolved.fileSystem, watch.Configuration{
		Interval:     configuration.Interval,
		Paths:        configuration.WatchPaths,
		IgnoredPaths: []string{configuration.OutputDirectory},
		Debounce:     configuration.Debounce,
		Iterations:   flagValues.iterations,
	})
	if watcherError != nil {
		return fmt.Errorf(createWatcherErrorTemplateConstant, watcherError)
	}

	output := utils.NewFlushingWriter(command.OutOrStdout())
	presentationOptions := presentation{
		output:          output,
		quiet:           configuration.Quiet,
		detailed:        configuration.Detailed,
		writeReports:    !flagValues.noReport,
		outputDirectory: configuration.OutputDirectory,
		formats:         formats,
	}

	completedRuns := 0
	var lastResult error
	runOnce := func(executionContext context.Context) error {
		readinessSuite, suiteChecks, suiteError := loadSuite(resolved.fileSystem, suitePath, flagValues.suite.Components)
		if suiteError != nil {
			return suiteError
		}

		readinessRunner, runnerError := resolved.newRunner(configuration.Parallelism)
		if runnerError != nil {
			return fmt.Errorf(createRunnerErrorTemplateConstant, runnerError)
		}

		readinessReport, runError := readinessRunner.Run(executionContext, readinessSuite, suiteChecks)
		if runError != nil {
			return runError
		}

		if completedRuns > 0 && !configuration.Quiet {
			fmt.Fprint(output, watchSeparatorConstant)
		}
		completedRuns++
		if presentError := presentationOptions.present(resolved.logger, resolved.fileSystem, readinessReport); presentError != nil {
			return presentError
		}
		return readinessReport.Err()
	}

	// Outcome errors are expected dashboard states, so only tool failures reach the watcher log.
	iteration := func(executionContext context.Context) error {
		lastResult = runOnce(executionContext)
		var outcomeError report.OutcomeError
		if errors.As(lastResult, &outcomeError) {
			return nil
		}
		return lastResult
	}

	if watchError := watcher.Run(command.Context(), iteration); watchError != nil {
		return watchError
	}

	if command.Context().Err() != nil {
		return nil
	}
	return lastResult
}

func (builder *WatchCommandBuilder) resolveConfiguration() WatchConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultWatchConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}
