// Package runner evaluates a suite's checks with bounded parallelism and
// aggregates the results into a report.
package runner
