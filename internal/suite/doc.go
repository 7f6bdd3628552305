// Package suite loads declarative readiness suites from YAML or JSON files and
// turns their check entries into executable checks.
package suite
