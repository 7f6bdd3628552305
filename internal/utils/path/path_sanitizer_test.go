package pathutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/readiness/internal/utils/path"
)

const (
	testCaseAbsolutePathSuffixConstant = "path-sanitizer"
	testCaseTildeRelativePathConstant  = "Projects/example"
	testCaseWhitespacePrefixConstant   = "  "
	testCaseWhitespaceSuffixConstant   = "\t"
)

func TestPathSanitizerNormalizesInputs(testInstance *testing.T) {
	homeDirectory, homeDirectoryError := os.UserHomeDir()
	require.NoError(testInstance, homeDirectoryError)

	temporaryDirectory := testInstance.TempDir()
	absolutePath := filepath.Join(temporaryDirectory, testCaseAbsolutePathSuffixConstant)
	tildeInput := filepath.Join("~", testCaseTildeRelativePathConstant)
	expandedTilde := filepath.Join(homeDirectory, testCaseTildeRelativePathConstant)

	testCases := []struct {
		name            string
		sanitizer       *pathutils.PathSanitizer
		inputs          []string
		expectedOutputs []string
	}{
		{
			name:      "default_configuration",
			sanitizer: pathutils.NewPathSanitizer(),
			inputs: []string{
				"",
				testCaseWhitespacePrefixConstant + absolutePath + testCaseWhitespaceSuffixConstant,
				testCaseWhitespacePrefixConstant + tildeInput + testCaseWhitespaceSuffixConstant,
				"docs",
			},
			expectedOutputs: []string{absolutePath, expandedTilde, "docs"},
		},
		{
			name:            "base_directory_anchors_relative_paths",
			sanitizer:       pathutils.NewPathSanitizerWithConfiguration(nil, pathutils.PathSanitizerConfiguration{BaseDirectory: temporaryDirectory}),
			inputs:          []string{"docs", absolutePath},
			expectedOutputs: []string{filepath.Join(temporaryDirectory, "docs"), absolutePath},
		},
		{
			name:      "nested_paths_pruned",
			sanitizer: pathutils.NewPathSanitizerWithConfiguration(nil, pathutils.PathSanitizerConfiguration{PruneNestedPaths: true}),
			inputs: []string{
				filepath.Join(temporaryDirectory, "project", "src"),
				filepath.Join(temporaryDirectory, "project"),
				filepath.Join(temporaryDirectory, "project-other"),
				filepath.Join(temporaryDirectory, "project"),
			},
			expectedOutputs: []string{
				filepath.Join(temporaryDirectory, "project"),
				filepath.Join(temporaryDirectory, "project-other"),
			},
		},
		{
			name:            "empty_inputs",
			sanitizer:       pathutils.NewPathSanitizer(),
			inputs:          []string{" ", ""},
			expectedOutputs: nil,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedOutputs, testCase.sanitizer.Sanitize(testCase.inputs))
		})
	}
}

func TestHomeExpanderUsesProvider(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) { return "/home/operator", nil })

	require.Equal(testInstance, "/home/operator", expander.Expand("~"))
	require.Equal(testInstance, filepath.Join("/home/operator", "reports"), expander.Expand("~/reports"))
	require.Equal(testInstance, "relative/~", expander.Expand("relative/~"))
}

func TestHomeExpanderExpandsEnvironmentReferences(testInstance *testing.T) {
	testInstance.Setenv("READINESS_TEST_ROOT", "/srv/projects")
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) { return "/home/operator", nil })

	require.Equal(testInstance, "/srv/projects/docs", expander.Expand("$READINESS_TEST_ROOT/docs"))
	require.Equal(testInstance, "/srv/projects/docs", expander.Expand("${READINESS_TEST_ROOT}/docs"))
}
