package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/temirov/readiness/cmd/cli"
	"github.com/temirov/readiness/internal/report"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the readiness command-line application and maps report outcomes to exit codes.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}

	fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)

	var outcomeError report.OutcomeError
	if errors.As(executionError, &outcomeError) {
		os.Exit(outcomeError.ExitCode())
	}
	os.Exit(report.ExitCodeFailure)
}
