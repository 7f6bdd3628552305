package readiness

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/readiness/internal/checks"
	"github.com/temirov/readiness/internal/filesystem"
	"github.com/temirov/readiness/internal/report"
	"github.com/temirov/readiness/internal/suite"
	"github.com/temirov/readiness/internal/utils"
	flagutils "github.com/temirov/readiness/internal/utils/flags"
)

const (
	suitePathRequiredMessageConstant   = "suite path required; provide a positional argument or --suite flag"
	loadSuiteErrorTemplateConstant     = "unable to load suite: %w"
	filterSuiteErrorTemplateConstant   = "unable to filter suite: %w"
	buildChecksErrorTemplateConstant   = "unable to build checks: %w"
	parseFormatErrorTemplateConstant   = "unable to parse report format: %w"
	writeReportsErrorTemplateConstant  = "unable to write reports: %w"
	renderSummaryErrorTemplateConstant = "unable to render summary: %w"
	reportsWrittenLogMessageConstant   = "reports written"
	logFieldPathsConstant              = "paths"
	consoleReportsHeaderConstant       = "\nReports:\n"
	consoleReportPathTemplateConstant  = "  - %s\n"
)

var errSuitePathRequired = errors.New(suitePathRequiredMessageConstant)

// bindSuitePath resolves the suite file before execution and records it on the command context.
func bindSuitePath(command *cobra.Command, arguments []string, suiteFlags *flagutils.SuiteFlagValues, configuredPath string) error {
	suitePath := flagutils.ResolveSuitePath(command, arguments, suiteFlags, configuredPath)
	if len(suitePath) == 0 {
		if helpError := displayCommandHelp(command); helpError != nil {
			return helpError
		}
		return errSuitePathRequired
	}
	command.SetContext(utils.NewCommandContextAccessor().WithSuitePath(command.Context(), suitePath))
	return nil
}

func suitePathFromCommand(command *cobra.Command) (string, error) {
	suitePath, available := utils.NewCommandContextAccessor().SuitePath(command.Context())
	if !available {
		return "", errSuitePathRequired
	}
	return suitePath, nil
}

func loadSuite(fileSystem filesystem.FileSystem, suitePath string, components []string) (suite.Suite, []checks.Check, error) {
	readinessSuite, loadError := suite.LoadSuiteFromFileSystem(fileSystem, suitePath)
	if loadError != nil {
		return suite.Suite{}, nil, fmt.Errorf(loadSuiteErrorTemplateConstant, loadError)
	}

	filteredSuite, filterError := readinessSuite.Filter(components)
	if filterError != nil {
		return suite.Suite{}, nil, fmt.Errorf(filterSuiteErrorTemplateConstant, filterError)
	}

	suiteChecks, buildError := suite.BuildChecks(filteredSuite)
	if buildError != nil {
		return suite.Suite{}, nil, fmt.Errorf(buildChecksErrorTemplateConstant, buildError)
	}
	return filteredSuite, suiteChecks, nil
}

func parseFormats(values []string) ([]report.Format, error) {
	formats := make([]report.Format, 0, len(values))
	for _, value := range values {
		format, parseError := report.ParseFormat(value)
		if parseError != nil {
			return nil, fmt.Errorf(parseFormatErrorTemplateConstant, parseError)
		}
		formats = append(formats, format)
	}
	return formats, nil
}

// presentation controls what happens with a finished report.
type presentation struct {
	output          io.Writer
	quiet           bool
	detailed        bool
	writeReports    bool
	outputDirectory string
	formats         []report.Format
}

func (options presentation) present(logger *zap.Logger, fileSystem filesystem.FileSystem, readinessReport report.Report) error {
	writtenPaths := []string(nil)
	if options.writeReports && len(options.formats) > 0 {
		paths, writeError := report.WriteFiles(fileSystem, readinessReport, options.outputDirectory, options.formats)
		if writeError != nil {
			return fmt.Errorf(writeReportsErrorTemplateConstant, writeError)
		}
		writtenPaths = paths
		logger.Info(reportsWrittenLogMessageConstant, zap.Strings(logFieldPathsConstant, writtenPaths))
	}

	if options.quiet || options.output == nil {
		return nil
	}

	consoleRenderer := report.ConsoleRenderer{Detailed: options.detailed}
	if renderError := consoleRenderer.Render(options.output, readinessReport); renderError != nil {
		return fmt.Errorf(renderSummaryErrorTemplateConstant, renderError)
	}
	if len(writtenPaths) > 0 {
		fmt.Fprint(options.output, consoleReportsHeaderConstant)
		for _, writtenPath := range writtenPaths {
			fmt.Fprintf(options.output, consoleReportPathTemplateConstant, filepath.ToSlash(writtenPath))
		}
	}
	return nil
}
