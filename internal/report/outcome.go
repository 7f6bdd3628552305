package report

import "fmt"

const outcomeErrorTemplateConstant = "readiness outcome %s: %d of %d checks passed (%.1f%%)"

// Outcome classifies a run.
type Outcome string

// Supported outcomes.
const (
	OutcomeSuccess Outcome = Outcome("success")
	OutcomePartial Outcome = Outcome("partial")
	OutcomeFailure Outcome = Outcome("failure")
)

// Process exit codes for each outcome.
const (
	ExitCodeSuccess = 0
	ExitCodeFailure = 1
	ExitCodePartial = 2
)

// ExitCode maps the outcome to the process exit code.
func (outcome Outcome) ExitCode() int {
	switch outcome {
	case OutcomeSuccess:
		return ExitCodeSuccess
	case OutcomePartial:
		return ExitCodePartial
	default:
		return ExitCodeFailure
	}
}

func decideOutcome(failingError bool, failingWarning bool, belowThreshold bool) Outcome {
	switch {
	case failingError:
		return OutcomeFailure
	case failingWarning || belowThreshold:
		return OutcomePartial
	default:
		return OutcomeSuccess
	}
}

// OutcomeError reports a run that did not succeed; callers exit with its code.
type OutcomeError struct {
	Summary Summary
}

// Error implements error.
func (outcomeError OutcomeError) Error() string {
	return fmt.Sprintf(outcomeErrorTemplateConstant, outcomeError.Summary.Outcome, outcomeError.Summary.Passed, outcomeError.Summary.Total, outcomeError.Summary.Score)
}

// ExitCode returns the process exit code for the outcome.
func (outcomeError OutcomeError) ExitCode() int {
	return outcomeError.Summary.Outcome.ExitCode()
}

// Err returns an OutcomeError unless the run succeeded.
func (report Report) Err() error {
	if report.Summary.Outcome == OutcomeSuccess {
		return nil
	}
	return OutcomeError{Summary: report.Summary}
}
