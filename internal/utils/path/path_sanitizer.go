package pathutils

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// PathSanitizerConfiguration controls path sanitization behavior.
type PathSanitizerConfiguration struct {
	// BaseDirectory anchors relative candidates. Relative paths are left untouched when empty.
	BaseDirectory string
	// PruneNestedPaths removes paths that are nested within other provided paths.
	PruneNestedPaths bool
}

// PathSanitizer normalizes user-provided path lists consistently across commands.
type PathSanitizer struct {
	homeExpander  *HomeExpander
	configuration PathSanitizerConfiguration
}

// NewPathSanitizer constructs a PathSanitizer with default behavior.
func NewPathSanitizer() *PathSanitizer {
	return NewPathSanitizerWithConfiguration(nil, PathSanitizerConfiguration{})
}

// NewPathSanitizerWithConfiguration constructs a PathSanitizer using the provided expander and configuration.
func NewPathSanitizerWithConfiguration(homeExpander *HomeExpander, configuration PathSanitizerConfiguration) *PathSanitizer {
	resolvedExpander := homeExpander
	if resolvedExpander == nil {
		resolvedExpander = NewHomeExpander()
	}

	return &PathSanitizer{
		homeExpander:  resolvedExpander,
		configuration: configuration,
	}
}

// Resolve expands the home directory and anchors a single relative path to the base directory.
func (sanitizer *PathSanitizer) Resolve(candidatePath string) string {
	trimmedCandidate := strings.TrimSpace(candidatePath)
	if len(trimmedCandidate) == 0 {
		return ""
	}
	if sanitizer == nil {
		return NewHomeExpander().Expand(trimmedCandidate)
	}

	expandedPath := sanitizer.homeExpander.Expand(trimmedCandidate)
	if filepath.IsAbs(expandedPath) || len(sanitizer.configuration.BaseDirectory) == 0 {
		return expandedPath
	}
	return filepath.Join(sanitizer.configuration.BaseDirectory, expandedPath)
}

// Sanitize trims whitespace, expands the user's home directory, drops empty values, and optionally prunes nested paths.
func (sanitizer *PathSanitizer) Sanitize(candidatePaths []string) []string {
	sanitizedPaths := make([]string, 0, len(candidatePaths))
	for candidateIndex := range candidatePaths {
		resolvedPath := sanitizer.Resolve(candidatePaths[candidateIndex])
		if len(resolvedPath) == 0 {
			continue
		}
		sanitizedPaths = append(sanitizedPaths, resolvedPath)
	}

	if len(sanitizedPaths) == 0 {
		return nil
	}

	if sanitizer != nil && sanitizer.configuration.PruneNestedPaths {
		return pruneNestedPaths(sanitizedPaths)
	}

	return sanitizedPaths
}

func pruneNestedPaths(candidatePaths []string) []string {
	type pathDetails struct {
		originalIndex int
		value         string
		canonical     string
	}

	paths := make([]pathDetails, 0, len(candidatePaths))
	for index := range candidatePaths {
		paths = append(paths, pathDetails{
			originalIndex: index,
			value:         candidatePaths[index],
			canonical:     comparisonPath(canonicalizePath(candidatePaths[index])),
		})
	}

	sort.SliceStable(paths, func(first int, second int) bool {
		if len(paths[first].canonical) == len(paths[second].canonical) {
			return paths[first].canonical < paths[second].canonical
		}
		return len(paths[first].canonical) < len(paths[second].canonical)
	})

	selected := make([]pathDetails, 0, len(paths))
	for _, candidate := range paths {
		nested := false
		for _, existing := range selected {
			if isNestedPath(existing.canonical, candidate.canonical) {
				nested = true
				break
			}
		}
		if !nested {
			selected = append(selected, candidate)
		}
	}

	sort.SliceStable(selected, func(first int, second int) bool {
		return selected[first].originalIndex < selected[second].originalIndex
	})

	pruned := make([]string, 0, len(selected))
	for _, candidate := range selected {
		pruned = append(pruned, candidate.value)
	}
	return pruned
}

func canonicalizePath(path string) string {
	cleanedPath := filepath.Clean(path)
	absolutePath, absoluteError := filepath.Abs(cleanedPath)
	if absoluteError == nil {
		return filepath.Clean(absolutePath)
	}
	return cleanedPath
}

func comparisonPath(path string) string {
	if runtime.GOOS == "windows" {
		return strings.ToLower(path)
	}
	return path
}

// isNestedPath reports whether candidate equals parent or lives beneath it.
func isNestedPath(parent string, candidate string) bool {
	if candidate == parent {
		return true
	}
	if len(candidate) <= len(parent) || !strings.HasPrefix(candidate, parent) {
		return false
	}
	if parent[len(parent)-1] == os.PathSeparator {
		return true
	}
	return candidate[len(parent)] == os.PathSeparator
}
