package suite_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/readiness/internal/checks"
	"github.com/temirov/readiness/internal/suite"
)

const (
	suiteTestFileName   = "readiness.yaml"
	wrappedSuiteContent = `suite:
  name: orchestrator readiness
  project: rpa-orchestrator
  root: services
  threshold: 90
  defaults:
    severity: warning
    timeout: 15s
  checks:
    - id: backend-package
      kind: file-exists
      component: backend
      recommendation: run npm init in backend/
      with: { path: backend/package.json }
    - id: Docs
      kind: FILE-EXISTS
      severity: error
      timeout: 2s
      with:
        path: README.md
`
	bareSuiteContent = `name: bare
checks:
  - id: readme
    kind: file-exists
    with:
      path: README.md
`
	jsonSuiteContent = `{"suite": {"name": "json", "checks": [{"id": "readme", "kind": "file-exists", "with": {"path": "README.md"}}]}}`
)

func writeSuite(testInstance *testing.T, content string) string {
	testInstance.Helper()
	suitePath := filepath.Join(testInstance.TempDir(), suiteTestFileName)
	require.NoError(testInstance, os.WriteFile(suitePath, []byte(content), 0o644))
	return suitePath
}

func TestLoadSuiteAppliesDefaults(testInstance *testing.T) {
	suitePath := writeSuite(testInstance, wrappedSuiteContent)

	loadedSuite, loadError := suite.LoadSuite(suitePath)
	require.NoError(testInstance, loadError)

	require.Equal(testInstance, "orchestrator readiness", loadedSuite.Name)
	require.Equal(testInstance, "rpa-orchestrator", loadedSuite.Project)
	require.Equal(testInstance, filepath.Join(filepath.Dir(suitePath), "services"), loadedSuite.RootDirectory)
	require.Equal(testInstance, 90.0, loadedSuite.Threshold)
	require.Equal(testInstance, suitePath, loadedSuite.SourcePath)
	require.Len(testInstance, loadedSuite.Checks, 2)

	backendCheck := loadedSuite.Checks[0]
	require.Equal(testInstance, checks.SeverityWarning, backendCheck.Severity)
	require.Equal(testInstance, 15*time.Second, backendCheck.Timeout)
	require.Equal(testInstance, "backend", backendCheck.Component)
	require.Equal(testInstance, "run npm init in backend/", backendCheck.Recommendation)

	docsCheck := loadedSuite.Checks[1]
	require.Equal(testInstance, checks.KindFileExists, docsCheck.Kind)
	require.Equal(testInstance, checks.SeverityError, docsCheck.Severity)
	require.Equal(testInstance, 2*time.Second, docsCheck.Timeout)
	require.Equal(testInstance, checks.DefaultComponent, docsCheck.Component)
}

func TestParseAcceptsSuiteShapes(testInstance *testing.T) {
	testCases := []struct {
		name         string
		content      string
		expectedName string
	}{
		{name: "wrapped mapping", content: wrappedSuiteContent, expectedName: "orchestrator readiness"},
		{name: "bare mapping", content: bareSuiteContent, expectedName: "bare"},
		{name: "json document", content: jsonSuiteContent, expectedName: "json"},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		testInstance.Run(testCase.name, func(testingInstance *testing.T) {
			baseDirectory := testingInstance.TempDir()
			parsedSuite, parseError := suite.Parse([]byte(testCase.content), baseDirectory)
			require.NoError(testingInstance, parseError)
			require.Equal(testingInstance, testCase.expectedName, parsedSuite.Name)
			require.NotEmpty(testingInstance, parsedSuite.Checks)
		})
	}
}

func TestParseDefaultsThresholdAndRoot(testInstance *testing.T) {
	baseDirectory := testInstance.TempDir()
	parsedSuite, parseError := suite.Parse([]byte(bareSuiteContent), baseDirectory)
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, suite.DefaultThreshold, parsedSuite.Threshold)
	require.Equal(testInstance, baseDirectory, parsedSuite.RootDirectory)
	require.Equal(testInstance, checks.SeverityError, parsedSuite.Checks[0].Severity)
}

func TestParseRejectsInvalidSuites(testInstance *testing.T) {
	testCases := []struct {
		name            string
		content         string
		expectedMessage string
	}{
		{name: "no checks", content: "suite:\n  name: empty\n", expectedMessage: "at least one check"},
		{name: "malformed yaml", content: "checks: [", expectedMessage: "failed to parse suite"},
		{name: "missing id", content: "checks:\n  - kind: file-exists\n", expectedMessage: "missing an id"},
		{name: "duplicate ids differ in case", content: "checks:\n  - id: Readme\n    kind: file-exists\n  - id: readme\n    kind: path-absent\n", expectedMessage: "duplicate check id"},
		{name: "missing kind", content: "checks:\n  - id: readme\n", expectedMessage: "missing a kind"},
		{name: "unknown kind", content: "checks:\n  - id: readme\n    kind: ping\n", expectedMessage: "unsupported kind"},
		{name: "invalid severity", content: "checks:\n  - id: readme\n    kind: file-exists\n    severity: fatal\n", expectedMessage: "invalid severity"},
		{name: "invalid default severity", content: "defaults:\n  severity: info\nchecks:\n  - id: readme\n    kind: file-exists\n", expectedMessage: "default severity"},
		{name: "threshold above range", content: "threshold: 120\nchecks:\n  - id: readme\n    kind: file-exists\n", expectedMessage: "between 0 and 100"},
		{name: "negative timeout", content: "checks:\n  - id: readme\n    kind: file-exists\n    timeout: -1s\n", expectedMessage: "negative timeout"},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		testInstance.Run(testCase.name, func(testingInstance *testing.T) {
			_, parseError := suite.Parse([]byte(testCase.content), testingInstance.TempDir())
			require.Error(testingInstance, parseError)
			require.Contains(testingInstance, parseError.Error(), testCase.expectedMessage)
		})
	}
}

func TestLoadSuiteRequiresPath(testInstance *testing.T) {
	_, loadError := suite.LoadSuite("  ")
	require.Error(testInstance, loadError)

	_, missingError := suite.LoadSuite(filepath.Join(testInstance.TempDir(), "absent.yaml"))
	require.ErrorContains(testInstance, missingError, "failed to load suite")
}

func TestBuildChecksPreservesOrder(testInstance *testing.T) {
	parsedSuite, parseError := suite.Parse([]byte(wrappedSuiteContent), testInstance.TempDir())
	require.NoError(testInstance, parseError)

	builtChecks, buildError := suite.BuildChecks(parsedSuite)
	require.NoError(testInstance, buildError)
	require.Len(testInstance, builtChecks, 2)
	require.Equal(testInstance, "backend-package", builtChecks[0].Definition().ID)
	require.Equal(testInstance, "Docs", builtChecks[1].Definition().ID)
}

func TestBuildChecksNamesOffendingCheck(testInstance *testing.T) {
	content := "checks:\n  - id: security-scan\n    kind: regex-count\n    with:\n      pattern: \"(\"\n"
	parsedSuite, parseError := suite.Parse([]byte(content), testInstance.TempDir())
	require.NoError(testInstance, parseError)

	_, buildError := suite.BuildChecks(parsedSuite)
	require.ErrorContains(testInstance, buildError, "security-scan")
}

func TestFilterByComponent(testInstance *testing.T) {
	parsedSuite, parseError := suite.Parse([]byte(wrappedSuiteContent), testInstance.TempDir())
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, []string{"backend", checks.DefaultComponent}, parsedSuite.Components())

	filteredSuite, filterError := parsedSuite.Filter([]string{" BACKEND "})
	require.NoError(testInstance, filterError)
	require.Len(testInstance, filteredSuite.Checks, 1)
	require.Equal(testInstance, "backend-package", filteredSuite.Checks[0].ID)
	require.Len(testInstance, parsedSuite.Checks, 2)

	unchangedSuite, unchangedError := parsedSuite.Filter(nil)
	require.NoError(testInstance, unchangedError)
	require.Len(testInstance, unchangedSuite.Checks, 2)

	_, missingError := parsedSuite.Filter([]string{"frontend"})
	require.ErrorContains(testInstance, missingError, "frontend")
}

func TestExampleSuiteBuilds(testInstance *testing.T) {
	parsedSuite, parseError := suite.Parse(suite.ExampleSuite(), testInstance.TempDir())
	require.NoError(testInstance, parseError)

	builtChecks, buildError := suite.BuildChecks(parsedSuite)
	require.NoError(testInstance, buildError)

	declaredKinds := make(map[checks.Kind]struct{})
	for _, check := range builtChecks {
		declaredKinds[check.Definition().Kind] = struct{}{}
	}
	for _, kind := range checks.KnownKinds() {
		_, declared := declaredKinds[kind]
		require.True(testInstance, declared, string(kind))
	}
}
