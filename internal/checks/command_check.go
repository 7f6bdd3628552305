package checks

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/temirov/readiness/internal/execshell"
)

const (
	commandExecutorMissingMessageConstant   = "no command executor configured"
	commandExecutionFailedTemplateConstant  = "unable to run %s: %v"
	commandExitCodeMatchedTemplateConstant  = "%s exited with code %d"
	commandExitCodeMismatchTemplateConstant = "%s exited with code %d, expected %d"
	commandOutputMismatchTemplateConstant   = "%s output does not match %q"
	commandTimedOutTemplateConstant         = "%s did not finish before the deadline"
)

type commandCheck struct {
	definition       Definition
	command          execshell.ShellCommand
	expectedExitCode int
	outputPattern    *regexp.Regexp
}

func (check commandCheck) Definition() Definition {
	return check.definition
}

func (check commandCheck) Evaluate(executionContext context.Context, environment Environment) Result {
	if environment.CommandExecutor == nil {
		return ErrorResult(check.definition, commandExecutorMissingMessageConstant)
	}

	command := check.command
	if len(command.Details.WorkingDirectory) > 0 {
		command.Details.WorkingDirectory = environment.ResolvePath(command.Details.WorkingDirectory)
	} else {
		command.Details.WorkingDirectory = environment.RootDirectory
	}
	commandLabel := check.command.String()

	executionResult, executionError := environment.CommandExecutor.Execute(executionContext, command)
	if executionError != nil {
		failedResult, ranToCompletion := execshell.ResultFromError(executionError)
		if !ranToCompletion {
			if errors.Is(executionError, context.DeadlineExceeded) {
				return ErrorResult(check.definition, fmt.Sprintf(commandTimedOutTemplateConstant, commandLabel))
			}
			return ErrorResult(check.definition, fmt.Sprintf(commandExecutionFailedTemplateConstant, commandLabel, executionError))
		}
		executionResult = failedResult
	}

	var result Result
	switch {
	case executionResult.ExitCode != check.expectedExitCode:
		result = newResult(check.definition, StatusFail, fmt.Sprintf(commandExitCodeMismatchTemplateConstant, commandLabel, executionResult.ExitCode, check.expectedExitCode))
	case check.outputPattern != nil && !check.outputPattern.MatchString(executionResult.CombinedOutput()):
		result = newResult(check.definition, StatusFail, fmt.Sprintf(commandOutputMismatchTemplateConstant, commandLabel, check.outputPattern.String()))
	default:
		result = newResult(check.definition, StatusPass, fmt.Sprintf(commandExitCodeMatchedTemplateConstant, commandLabel, executionResult.ExitCode))
	}
	result.Observed = strconv.Itoa(executionResult.ExitCode)
	return result
}

func newCommandCheck(definition Definition, options commandOptions) (Check, error) {
	if requiredError := requireOption("command", options.Command); requiredError != nil {
		return nil, requiredError
	}
	if options.Timeout < 0 {
		return nil, fmt.Errorf(negativeTimeoutTemplateConstant, options.Timeout)
	}
	if options.Timeout > 0 {
		definition.Timeout = options.Timeout
	}

	var outputPattern *regexp.Regexp
	if len(strings.TrimSpace(options.OutputPattern)) > 0 {
		compiled, compileError := compilePattern("output_pattern", options.OutputPattern, false)
		if compileError != nil {
			return nil, compileError
		}
		outputPattern = compiled
	}

	return commandCheck{
		definition: definition,
		command: execshell.ShellCommand{
			Name: execshell.CommandName(strings.TrimSpace(options.Command)),
			Details: execshell.CommandDetails{
				Arguments:            append([]string{}, options.Arguments...),
				WorkingDirectory:     strings.TrimSpace(options.WorkingDirectory),
				EnvironmentVariables: options.Environment,
				StandardInput:        standardInput(options.StandardInput),
			},
		},
		expectedExitCode: options.ExpectExitCode,
		outputPattern:    outputPattern,
	}, nil
}

func standardInput(value string) []byte {
	if len(value) == 0 {
		return nil
	}
	return []byte(value)
}
