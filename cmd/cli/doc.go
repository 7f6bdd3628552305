// Package cli constructs the readiness command-line interface, wiring the
// Cobra command hierarchy, the Viper configuration loader, and the zap
// loggers. Execute builds the default application; NewApplicationWithDependencies
// lets callers substitute the file system, command executor, or clock.
package cli
