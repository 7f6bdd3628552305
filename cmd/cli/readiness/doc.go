// Package readiness builds the run, watch, list, and init commands that load a
// suite file, evaluate its checks, and present the resulting report.
package readiness
