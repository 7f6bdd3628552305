// Package checks defines the declarative status checks evaluated by readiness suites.
//
// Each check kind (file-exists, regex-count, command-succeeds, and the rest)
// decodes its options from the suite's `with:` mapping, validates them once at
// build time, and evaluates to a Result. A check that cannot be evaluated
// reports StatusError instead of returning an error, so one broken probe never
// aborts the rest of a run.
package checks
