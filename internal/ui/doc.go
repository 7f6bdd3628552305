// Package ui turns command and check lifecycle events into short console
// messages, leaving structured telemetry to the main logger.
package ui
