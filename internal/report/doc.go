// Package report aggregates check results into a readiness report, decides the
// run outcome, and renders the report as JSON, YAML, Markdown, HTML, or a plain
// console summary.
package report
