// Package flags provides helpers for binding the readiness command flags to Cobra commands.
package flags
