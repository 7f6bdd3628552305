package readiness

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/readiness/internal/checks"
	"github.com/temirov/readiness/internal/execshell"
	"github.com/temirov/readiness/internal/filesystem"
	"github.com/temirov/readiness/internal/runner"
	"github.com/temirov/readiness/internal/ui"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandDependencies collects the collaborators shared by the readiness commands.
// Nil members fall back to operating system backed defaults.
type CommandDependencies struct {
	LoggerProvider        LoggerProvider
	ConsoleLoggerProvider LoggerProvider
	FileSystem            filesystem.FileSystem
	CommandExecutor       checks.CommandExecutor
	Clock                 runner.Clock
	IdentifierGenerator   func() string
}

type resolvedDependencies struct {
	logger          *zap.Logger
	consoleLogger   *zap.Logger
	fileSystem      filesystem.FileSystem
	commandExecutor checks.CommandExecutor
	clock           runner.Clock
	newIdentifier   func() string
}

func (dependencies CommandDependencies) resolve() (resolvedDependencies, error) {
	logger := resolveLogger(dependencies.LoggerProvider)
	consoleLogger := resolveLogger(dependencies.ConsoleLoggerProvider)

	commandExecutor, executorError := resolveCommandExecutor(dependencies.CommandExecutor, logger, consoleLogger)
	if executorError != nil {
		return resolvedDependencies{}, executorError
	}

	return resolvedDependencies{
		logger:          logger,
		consoleLogger:   consoleLogger,
		fileSystem:      filesystem.Resolve(dependencies.FileSystem),
		commandExecutor: commandExecutor,
		clock:           dependencies.Clock,
		newIdentifier:   dependencies.IdentifierGenerator,
	}, nil
}

func (resolved resolvedDependencies) newRunner(parallelism int) (*runner.Runner, error) {
	return runner.NewRunner(runner.Dependencies{
		Logger:              resolved.logger,
		FileSystem:          resolved.fileSystem,
		CommandExecutor:     resolved.commandExecutor,
		Clock:               resolved.clock,
		Observer:            ui.NewCheckEventLogger(resolved.consoleLogger),
		IdentifierGenerator: resolved.newIdentifier,
	}, runner.Configuration{Parallelism: parallelism})
}

func resolveCommandExecutor(existing checks.CommandExecutor, logger *zap.Logger, consoleLogger *zap.Logger) (checks.CommandExecutor, error) {
	if existing != nil {
		return existing, nil
	}
	return execshell.NewShellExecutorWithObserver(logger, execshell.NewOSCommandRunner(), ui.NewConsoleCommandEventLogger(consoleLogger))
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func displayCommandHelp(command *cobra.Command) error {
	if command == nil {
		return nil
	}
	return command.Help()
}
