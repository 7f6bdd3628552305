package ui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/readiness/internal/checks"
	"github.com/temirov/readiness/internal/execshell"
	"github.com/temirov/readiness/internal/ui"
)

const (
	testCommandWorkingDirectoryConstant     = "/srv/orchestrator"
	testCommandLabelExpectationConstant     = "npm run test (in /srv/orchestrator)"
	testExecutionFailureReasonConstant      = "executable file not found in $PATH"
	testStandardErrorMessageConstant        = "npm ERR! missing script: test\nline two\nline three\nline four"
	testStartMessageExpectationConstant     = "Running " + testCommandLabelExpectationConstant
	testSuccessMessageExpectationConstant   = "Completed " + testCommandLabelExpectationConstant
	testFailureMessageExpectationConstant   = testCommandLabelExpectationConstant + " exited with code 1: npm ERR! missing script: test / line two / line three"
	testExecutionFailureExpectationConstant = testCommandLabelExpectationConstant + " could not run: " + testExecutionFailureReasonConstant
)

func TestConsoleCommandEventLoggerEmitsMessages(testInstance *testing.T) {
	command := execshell.ShellCommand{
		Name: execshell.CommandName("npm"),
		Details: execshell.CommandDetails{
			Arguments:        []string{"run", "test"},
			WorkingDirectory: testCommandWorkingDirectoryConstant,
		},
	}

	testCases := []struct {
		name            string
		invoke          func(logger *ui.ConsoleCommandEventLogger)
		expectedLevel   zapcore.Level
		expectedMessage string
	}{
		{
			name: "command_started",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandStarted(command)
			},
			expectedLevel:   zapcore.DebugLevel,
			expectedMessage: testStartMessageExpectationConstant,
		},
		{
			name: "command_completed_success",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 0})
			},
			expectedLevel:   zapcore.DebugLevel,
			expectedMessage: testSuccessMessageExpectationConstant,
		},
		{
			name: "command_completed_failure",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 1, StandardError: testStandardErrorMessageConstant})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: testFailureMessageExpectationConstant,
		},
		{
			name: "command_execution_failure",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandExecutionFailed(command, errors.New(testExecutionFailureReasonConstant))
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: testExecutionFailureExpectationConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zapcore.DebugLevel)
			eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observerCore))

			testCase.invoke(eventLogger)

			entries := observedLogs.All()
			require.Len(testInstance, entries, 1)
			require.Equal(testInstance, testCase.expectedLevel, entries[0].Level)
			require.Equal(testInstance, testCase.expectedMessage, entries[0].Message)
		})
	}
}

func TestCheckEventLoggerEmitsMessages(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zapcore.DebugLevel)
	eventLogger := ui.NewCheckEventLogger(zap.New(observerCore))
	definition := checks.Definition{ID: "backend-package", Kind: checks.KindFileExists}

	eventLogger.CheckStarted(definition)
	eventLogger.CheckCompleted(checks.Result{Definition: definition, Status: checks.StatusPass, Message: "file backend/package.json exists"})
	eventLogger.CheckCompleted(checks.Result{Definition: definition, Status: checks.StatusFail, Message: "file backend/package.json is missing"})

	entries := observedLogs.All()
	require.Len(testInstance, entries, 3)
	require.Equal(testInstance, "Checking backend-package (file-exists)", entries[0].Message)
	require.Equal(testInstance, zapcore.DebugLevel, entries[0].Level)
	require.Equal(testInstance, "PASS backend-package: file backend/package.json exists", entries[1].Message)
	require.Equal(testInstance, zapcore.InfoLevel, entries[1].Level)
	require.Equal(testInstance, "FAIL backend-package: file backend/package.json is missing", entries[2].Message)
	require.Equal(testInstance, zapcore.WarnLevel, entries[2].Level)
}

func TestNilLoggersAreSafe(testInstance *testing.T) {
	var commandLogger *ui.ConsoleCommandEventLogger
	var checkLogger *ui.CheckEventLogger
	require.NotPanics(testInstance, func() {
		commandLogger.CommandStarted(execshell.ShellCommand{Name: execshell.CommandName("git")})
		checkLogger.CheckCompleted(checks.Result{})
		ui.NewCheckEventLogger(nil).CheckStarted(checks.Definition{})
	})
}
