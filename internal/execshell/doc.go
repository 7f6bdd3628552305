// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines the abstractions command-succeeds
// checks use to run npm, python, docker, git, and other CLIs in a testable
// manner.
package execshell
