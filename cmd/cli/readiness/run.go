package readiness

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/readiness/internal/report"
	"github.com/temirov/readiness/internal/utils"
	flagutils "github.com/temirov/readiness/internal/utils/flags"
)

const (
	runCommandUseConstant              = "run [suite]"
	runCommandShortDescriptionConstant = "Run a readiness suite once"
	runCommandLongDescriptionConstant  = "run evaluates every check declared in the suite file, writes the requested reports, and prints a summary. The exit code is 0 on success, 1 on failure, and 2 when readiness is partial."
	formatFlagNameConstant             = "format"
	formatFlagDescriptionConstant      = "Report formats to write (repeatable)"
	outputDirectoryFlagNameConstant    = "output-dir"
	outputDirectoryFlagUsageConstant   = "Directory receiving the report files"
	parallelFlagNameConstant           = "parallel"
	parallelFlagUsageConstant          = "Maximum number of checks evaluated concurrently"
	quietFlagNameConstant              = "quiet"
	quietFlagShorthandConstant         = "q"
	quietFlagDescriptionConstant       = "Suppress the console summary"
	detailedFlagNameConstant           = "detailed"
	detailedFlagShorthandConstant      = "d"
	detailedFlagDescriptionConstant    = "List every check in the console summary"
	noReportFlagNameConstant           = "no-report"
	noReportFlagDescriptionConstant    = "Skip writing report files"
	createRunnerErrorTemplateConstant  = "unable to construct runner: %w"
)

// RunCommandBuilder assembles the run command.
type RunCommandBuilder struct {
	Dependencies          CommandDependencies
	ConfigurationProvider func() RunConfiguration
}

type runFlagValues struct {
	suite           *flagutils.SuiteFlagValues
	formats         []string
	outputDirectory string
	parallelism     int
	quiet           bool
	detailed        bool
	noReport        bool
}

// Build constructs the run command.
func (builder *RunCommandBuilder) Build() (*cobra.Command, error) {
	flagValues := &runFlagValues{}

	command := &cobra.Command{
		Use:   runCommandUseConstant,
		Short: runCommandShortDescriptionConstant,
		Long:  runCommandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(command *cobra.Command, arguments []string) error {
			return bindSuitePath(command, arguments, flagValues.suite, builder.resolveConfiguration().Suite)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, flagValues)
		},
	}

	bindReportFlags(command, flagValues)
	return command, nil
}

func bindReportFlags(command *cobra.Command, flagValues *runFlagValues) {
	defaults := DefaultRunConfiguration()
	flagSet := command.Flags()

	flagValues.suite = flagutils.BindSuiteFlags(command, flagutils.SuiteFlagValues{})
	flagutils.AddChoiceListFlag(flagSet, &flagValues.formats, formatFlagNameConstant, defaults.Formats, formatChoices(), formatFlagDescriptionConstant)
	flagSet.StringVar(&flagValues.outputDirectory, outputDirectoryFlagNameConstant, defaults.OutputDirectory, outputDirectoryFlagUsageConstant)
	flagSet.IntVar(&flagValues.parallelism, parallelFlagNameConstant, defaults.Parallelism, parallelFlagUsageConstant)
	flagutils.AddToggleFlag(flagSet, &flagValues.quiet, quietFlagNameConstant, quietFlagShorthandConstant, false, quietFlagDescriptionConstant)
	flagutils.AddToggleFlag(flagSet, &flagValues.detailed, detailedFlagNameConstant, detailedFlagShorthandConstant, false, detailedFlagDescriptionConstant)
	flagutils.AddToggleFlag(flagSet, &flagValues.noReport, noReportFlagNameConstant, "", false, noReportFlagDescriptionConstant)
}

// applyFlags overrides configuration values with explicitly provided flags.
func (flagValues *runFlagValues) applyFlags(command *cobra.Command, configuration RunConfiguration) RunConfiguration {
	applied := configuration
	flagSet := command.Flags()
	if flagSet.Changed(formatFlagNameConstant) {
		applied.Formats = flagValues.formats
	}
	if flagSet.Changed(outputDirectoryFlagNameConstant) {
		applied.OutputDirectory = flagValues.outputDirectory
	}
	if flagSet.Changed(parallelFlagNameConstant) {
		applied.Parallelism = flagValues.parallelism
	}
	if flagSet.Changed(quietFlagNameConstant) {
		applied.Quiet = flagValues.quiet
	}
	if flagSet.Changed(detailedFlagNameConstant) {
		applied.Detailed = flagValues.detailed
	}
	return applied.Sanitize()
}

func (builder *RunCommandBuilder) run(command *cobra.Command, flagValues *runFlagValues) error {
	suitePath, suitePathError := suitePathFromCommand(command)
	if suitePathError != nil {
		return suitePathError
	}
	configuration := flagValues.applyFlags(command, builder.resolveConfiguration())

	formats, formatsError := parseFormats(configuration.Formats)
	if formatsError != nil {
		return formatsError
	}

	resolved, dependenciesError := builder.Dependencies.resolve()
	if dependenciesError != nil {
		return dependenciesError
	}

	readinessSuite, suiteChecks, suiteError := loadSuite(resolved.fileSystem, suitePath, flagValues.suite.Components)
	if suiteError != nil {
		return suiteError
	}

	readinessRunner, runnerError := resolved.newRunner(configuration.Parallelism)
	if runnerError != nil {
		return fmt.Errorf(createRunnerErrorTemplateConstant, runnerError)
	}

	readinessReport, runError := readinessRunner.Run(command.Context(), readinessSuite, suiteChecks)

	presentationOptions := presentation{
		output:          utils.NewFlushingWriter(command.OutOrStdout()),
		quiet:           configuration.Quiet,
		detailed:        configuration.Detailed,
		writeReports:    !flagValues.noReport,
		outputDirectory: configuration.OutputDirectory,
		formats:         formats,
	}
	if presentError := presentationOptions.present(resolved.logger, resolved.fileSystem, readinessReport); presentError != nil {
		return presentError
	}

	if runError != nil {
		return runError
	}
	return readinessReport.Err()
}

func (builder *RunCommandBuilder) resolveConfiguration() RunConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultRunConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func formatChoices() []string {
	supportedFormats := report.SupportedFormats()
	choices := make([]string, 0, len(supportedFormats))
	for _, format := range supportedFormats {
		choices = append(choices, string(format))
	}
	return choices
}
