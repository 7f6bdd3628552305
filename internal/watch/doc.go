// Package watch re-runs an iteration on a fixed interval and whenever watched
// files change, until its context is cancelled or an iteration budget is spent.
package watch
