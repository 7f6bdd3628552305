package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

const (
	consoleHeaderTemplateConstant        = "Readiness: %s\n"
	consoleProjectTemplateConstant       = "Project: %s\n"
	consoleRunTemplateConstant           = "Run: %s (%s)\n"
	consoleScoreTemplateConstant         = "Score: %.1f%% (threshold %.1f%%)\n"
	consoleCountsTemplateConstant        = "Checks: %d total, %d passed, %d failed, %d errored\n"
	consoleOutcomeTemplateConstant       = "Outcome: %s\n"
	consoleComponentsHeaderConstant      = "\nComponents:\n"
	consoleComponentRowTemplateConstant  = "  %s\t%d/%d\t%.1f%%\t%s\n"
	consoleIssuesHeaderConstant          = "\nIssues:\n"
	consoleRecommendationsHeaderConstant = "\nRecommendations:\n"
	consoleChecksHeaderConstant          = "\nChecks:\n"
	consoleCheckRowTemplateConstant      = "  %s\t%s\t%s\t%s\t%s\n"
	consoleListItemTemplateConstant      = "  - %s\n"
	consoleTasksTemplateConstant         = "tasks %d/%d"
	consoleTabPaddingConstant            = 2
	consoleTabMinimumWidthConstant       = 0
	consoleTabWidthConstant              = 8
	consoleTabPaddingCharacterConstant   = ' '
)

// ConsoleRenderer prints the plain-text run summary.
type ConsoleRenderer struct {
	Detailed bool
}

// Render writes the summary, component table, issues, and recommendations; Detailed adds every check.
func (renderer ConsoleRenderer) Render(writer io.Writer, report Report) error {
	var builder strings.Builder
	summary := report.Summary

	fmt.Fprintf(&builder, consoleHeaderTemplateConstant, summary.Suite)
	if len(summary.Project) > 0 {
		fmt.Fprintf(&builder, consoleProjectTemplateConstant, summary.Project)
	}
	fmt.Fprintf(&builder, consoleRunTemplateConstant, summary.RunID, report.Duration().Round(time.Millisecond))
	fmt.Fprintf(&builder, consoleScoreTemplateConstant, summary.Score, summary.Threshold)
	fmt.Fprintf(&builder, consoleCountsTemplateConstant, summary.Total, summary.Passed, summary.Failed, summary.Errored)
	fmt.Fprintf(&builder, consoleOutcomeTemplateConstant, summary.Outcome)

	builder.WriteString(consoleComponentsHeaderConstant)
	componentWriter := newConsoleTabWriter(&builder)
	for _, component := range report.SortedComponents() {
		tasks := ""
		if component.Tasks != nil {
			tasks = fmt.Sprintf(consoleTasksTemplateConstant, component.Tasks.Completed, component.Tasks.Total)
		}
		fmt.Fprintf(componentWriter, consoleComponentRowTemplateConstant, component.Name, component.Completed, component.Total, component.Percentage, tasks)
	}
	if flushError := componentWriter.Flush(); flushError != nil {
		return flushError
	}

	writeList(&builder, consoleIssuesHeaderConstant, report.Issues)
	writeList(&builder, consoleRecommendationsHeaderConstant, report.Recommendations)

	if renderer.Detailed {
		builder.WriteString(consoleChecksHeaderConstant)
		checkWriter := newConsoleTabWriter(&builder)
		for _, result := range report.Checks {
			fmt.Fprintf(checkWriter, consoleCheckRowTemplateConstant, strings.ToUpper(string(result.Status)), result.Definition.ID, result.Definition.Kind, result.Definition.Component, result.Message)
		}
		if flushError := checkWriter.Flush(); flushError != nil {
			return flushError
		}
	}

	_, writeError := io.WriteString(writer, builder.String())
	return writeError
}

func newConsoleTabWriter(writer io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(writer, consoleTabMinimumWidthConstant, consoleTabWidthConstant, consoleTabPaddingConstant, consoleTabPaddingCharacterConstant, 0)
}

func writeList(builder *strings.Builder, header string, items []string) {
	if len(items) == 0 {
		return
	}
	builder.WriteString(header)
	for _, item := range items {
		fmt.Fprintf(builder, consoleListItemTemplateConstant, item)
	}
}
