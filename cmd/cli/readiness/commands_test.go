package readiness_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	readinesscmd "github.com/temirov/readiness/cmd/cli/readiness"
	"github.com/temirov/readiness/internal/execshell"
	"github.com/temirov/readiness/internal/report"
	"github.com/temirov/readiness/internal/suite"
)

const (
	testSuiteFileNameConstant       = "readiness.yaml"
	testRunIdentifierConstant       = "run-0001"
	testSubtestNameTemplateConstant = "%d_%s"
	testSuiteTemplateConstant       = `suite:
  name: orchestrator readiness
  project: rpa-orchestrator
  threshold: 80
  checks:
    - id: readme
      kind: file-exists
      component: documentation
      recommendation: add a README
      with:
        path: README.md
    - id: no-env-file
      kind: path-absent
      component: security
      with:
        path: .env
    - id: node-available
      kind: command-succeeds
      component: tooling
      severity: %s
      recommendation: install node
      with:
        command: node
        args: ["--version"]
`
)

type recordingCommandExecutor struct {
	mutex       sync.Mutex
	exitCode    int
	invocations []execshell.ShellCommand
}

func (executor *recordingCommandExecutor) Execute(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	executor.mutex.Lock()
	defer executor.mutex.Unlock()
	executor.invocations = append(executor.invocations, command)
	result := execshell.ExecutionResult{StandardOutput: "v20.11.0", ExitCode: executor.exitCode}
	if executor.exitCode != 0 {
		return result, execshell.CommandFailedError{Command: command, Result: result}
	}
	return result, nil
}

func (executor *recordingCommandExecutor) count() int {
	executor.mutex.Lock()
	defer executor.mutex.Unlock()
	return len(executor.invocations)
}

type projectFixture struct {
	root      string
	suitePath string
	reports   string
}

func newProjectFixture(testInstance *testing.T, commandSeverity string) projectFixture {
	testInstance.Helper()
	root := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(root, "README.md"), []byte("# orchestrator\n"), 0o644))
	suitePath := filepath.Join(root, testSuiteFileNameConstant)
	require.NoError(testInstance, os.WriteFile(suitePath, []byte(fmt.Sprintf(testSuiteTemplateConstant, commandSeverity)), 0o644))
	return projectFixture{root: root, suitePath: suitePath, reports: filepath.Join(root, "reports")}
}

func newDependencies(executor *recordingCommandExecutor) readinesscmd.CommandDependencies {
	return readinesscmd.CommandDependencies{
		CommandExecutor:     executor,
		IdentifierGenerator: func() string { return testRunIdentifierConstant },
	}
}

func executeCommand(testInstance *testing.T, command *cobra.Command, executionContext context.Context, arguments ...string) (string, error) {
	testInstance.Helper()
	var output bytes.Buffer
	command.SetOut(&output)
	command.SetErr(&output)
	command.SetArgs(arguments)
	executionError := command.ExecuteContext(executionContext)
	return output.String(), executionError
}

func TestRunCommandOutcomes(testInstance *testing.T) {
	testCases := []struct {
		name             string
		commandSeverity  string
		commandExitCode  int
		expectedOutcome  report.Outcome
		expectedExitCode int
	}{
		{name: "all_checks_pass", commandSeverity: "error", commandExitCode: 0, expectedOutcome: report.OutcomeSuccess, expectedExitCode: report.ExitCodeSuccess},
		{name: "error_check_fails", commandSeverity: "error", commandExitCode: 1, expectedOutcome: report.OutcomeFailure, expectedExitCode: report.ExitCodeFailure},
		{name: "warning_check_fails", commandSeverity: "warning", commandExitCode: 1, expectedOutcome: report.OutcomePartial, expectedExitCode: report.ExitCodePartial},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			fixture := newProjectFixture(testInstance, testCase.commandSeverity)
			executor := &recordingCommandExecutor{exitCode: testCase.commandExitCode}
			builder := readinesscmd.RunCommandBuilder{Dependencies: newDependencies(executor)}
			command, buildError := builder.Build()
			require.NoError(testInstance, buildError)

			output, executionError := executeCommand(testInstance, command, context.Background(), fixture.suitePath, "--output-dir", fixture.reports)

			require.Contains(testInstance, output, "Readiness: orchestrator readiness")
			require.Contains(testInstance, output, "Outcome: "+string(testCase.expectedOutcome))
			require.Equal(testInstance, 1, executor.count())

			if testCase.expectedExitCode == report.ExitCodeSuccess {
				require.NoError(testInstance, executionError)
			} else {
				var outcomeError report.OutcomeError
				require.ErrorAs(testInstance, executionError, &outcomeError)
				require.Equal(testInstance, testCase.expectedExitCode, outcomeError.ExitCode())
			}

			require.FileExists(testInstance, filepath.Join(fixture.reports, "readiness-report.json"))
			require.FileExists(testInstance, filepath.Join(fixture.reports, "readiness-report.md"))
		})
	}
}

func TestRunCommandFlagsOverrideConfiguration(testInstance *testing.T) {
	fixture := newProjectFixture(testInstance, "error")
	builder := readinesscmd.RunCommandBuilder{
		Dependencies: newDependencies(&recordingCommandExecutor{}),
		ConfigurationProvider: func() readinesscmd.RunConfiguration {
			return readinesscmd.RunConfiguration{Suite: fixture.suitePath, OutputDirectory: fixture.reports, Formats: []string{"json"}, Quiet: true}
		},
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	htmlDirectory := filepath.Join(fixture.root, "html")
	output, executionError := executeCommand(testInstance, command, context.Background(), "--format", "html", "--output-dir", htmlDirectory, "--quiet=no", "--detailed")
	require.NoError(testInstance, executionError)

	require.FileExists(testInstance, filepath.Join(htmlDirectory, "readiness-report.html"))
	require.NoFileExists(testInstance, filepath.Join(htmlDirectory, "readiness-report.json"))
	require.NoDirExists(testInstance, fixture.reports)
	require.Contains(testInstance, output, "\nChecks:\n")
	require.Contains(testInstance, output, "readiness-report.html")
}

func TestRunCommandQuietWithoutReports(testInstance *testing.T) {
	fixture := newProjectFixture(testInstance, "error")
	builder := readinesscmd.RunCommandBuilder{Dependencies: newDependencies(&recordingCommandExecutor{})}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	output, executionError := executeCommand(testInstance, command, context.Background(), "--suite", fixture.suitePath, "--output-dir", fixture.reports, "--quiet", "--no-report")
	require.NoError(testInstance, executionError)
	require.Empty(testInstance, output)
	require.NoDirExists(testInstance, fixture.reports)
}

func TestRunCommandFiltersComponents(testInstance *testing.T) {
	fixture := newProjectFixture(testInstance, "error")
	executor := &recordingCommandExecutor{exitCode: 1}
	builder := readinesscmd.RunCommandBuilder{Dependencies: newDependencies(executor)}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	output, executionError := executeCommand(testInstance, command, context.Background(), fixture.suitePath, "--component", "documentation", "--no-report")
	require.NoError(testInstance, executionError)
	require.Zero(testInstance, executor.count())
	require.Contains(testInstance, output, "Checks: 1 total, 1 passed, 0 failed, 0 errored")
}

func TestRunCommandReportsSuiteErrors(testInstance *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedMessage string
	}{
		{name: "missing_suite_file", arguments: []string{filepath.Join(testInstance.TempDir(), "absent.yaml")}, expectedMessage: "unable to load suite"},
		{name: "unknown_component", arguments: []string{"", "--component", "frontend"}, expectedMessage: "unable to filter suite"},
		{name: "unsupported_format", arguments: []string{"", "--format", "pdf"}, expectedMessage: "invalid value"},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			fixture := newProjectFixture(testInstance, "error")
			arguments := append([]string(nil), testCase.arguments...)
			if len(arguments[0]) == 0 {
				arguments[0] = fixture.suitePath
			}
			arguments = append(arguments, "--no-report")

			builder := readinesscmd.RunCommandBuilder{Dependencies: newDependencies(&recordingCommandExecutor{})}
			command, buildError := builder.Build()
			require.NoError(testInstance, buildError)

			_, executionError := executeCommand(testInstance, command, context.Background(), arguments...)
			require.Error(testInstance, executionError)
			require.Contains(testInstance, executionError.Error(), testCase.expectedMessage)
			var outcomeError report.OutcomeError
			require.False(testInstance, errors.As(executionError, &outcomeError))
		})
	}
}

func TestWatchCommandRunsBoundedIterations(testInstance *testing.T) {
	fixture := newProjectFixture(testInstance, "warning")
	executor := &recordingCommandExecutor{exitCode: 1}
	builder := readinesscmd.WatchCommandBuilder{Dependencies: newDependencies(executor)}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	output, executionError := executeCommand(testInstance, command, context.Background(), fixture.suitePath, "--interval", "20ms", "--iterations", "2", "--output-dir", fixture.reports)

	var outcomeError report.OutcomeError
	require.ErrorAs(testInstance, executionError, &outcomeError)
	require.Equal(testInstance, report.ExitCodePartial, outcomeError.ExitCode())
	require.Equal(testInstance, 2, executor.count())
	require.Equal(testInstance, 2, strings.Count(output, "Readiness: orchestrator readiness"))
	require.FileExists(testInstance, filepath.Join(fixture.reports, "readiness-report.json"))
}

func TestWatchCommandStopsOnCancellation(testInstance *testing.T) {
	fixture := newProjectFixture(testInstance, "error")
	executor := &recordingCommandExecutor{exitCode: 1}
	builder := readinesscmd.WatchCommandBuilder{Dependencies: newDependencies(executor)}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	executionContext, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	_, executionError := executeCommand(testInstance, command, executionContext, fixture.suitePath, "--interval", "1h", "--no-report", "--quiet")
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, 1, executor.count())
}

func TestListCommandPrintsChecks(testInstance *testing.T) {
	fixture := newProjectFixture(testInstance, "warning")
	builder := readinesscmd.ListCommandBuilder{}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	output, executionError := executeCommand(testInstance, command, context.Background(), fixture.suitePath)
	require.NoError(testInstance, executionError)

	require.Contains(testInstance, output, "Suite: orchestrator readiness (3 checks, threshold 80.0%)")
	require.Contains(testInstance, output, "Root: "+fixture.root)
	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(testInstance, lines, 7)
	require.Equal(testInstance, []string{"ID", "KIND", "COMPONENT", "SEVERITY", "DESCRIPTION"}, strings.Fields(lines[3]))
	require.Equal(testInstance, []string{"node-available", "command-succeeds", "tooling", "warning"}, strings.Fields(lines[6]))
}

func TestInitCommandWritesExampleSuite(testInstance *testing.T) {
	targetPath := filepath.Join(testInstance.TempDir(), "ops", testSuiteFileNameConstant)

	newInitCommand := func() *cobra.Command {
		builder := readinesscmd.InitCommandBuilder{}
		command, buildError := builder.Build()
		require.NoError(testInstance, buildError)
		return command
	}

	output, executionError := executeCommand(testInstance, newInitCommand(), context.Background(), targetPath)
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, output, "Wrote example suite to "+targetPath)

	writtenSuite, loadError := suite.LoadSuite(targetPath)
	require.NoError(testInstance, loadError)
	require.NotEmpty(testInstance, writtenSuite.Checks)

	_, overwriteError := executeCommand(testInstance, newInitCommand(), context.Background(), targetPath)
	require.Error(testInstance, overwriteError)
	require.Contains(testInstance, overwriteError.Error(), "--force")

	require.NoError(testInstance, os.WriteFile(targetPath, []byte("stale"), 0o644))
	_, forcedError := executeCommand(testInstance, newInitCommand(), context.Background(), "--force", targetPath)
	require.NoError(testInstance, forcedError)

	content, readError := os.ReadFile(targetPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, suite.ExampleSuite(), content)
}
