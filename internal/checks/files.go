package checks

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

const (
	defaultSelectionRootConstant         = "."
	selectionRootMissingTemplateConstant = "root %s is not accessible: %w"
	selectionPathMissingTemplateConstant = "path %s is not accessible: %w"
	selectionPatternTemplateConstant     = "include pattern %q is malformed: %w"
	slashSeparatorConstant               = "/"
)

// fileSelector enumerates the files a content or counting check inspects.
type fileSelector struct {
	root               string
	paths              []string
	include            []string
	excludeDirectories []string
}

func (selector fileSelector) validate() error {
	for _, pattern := range selector.include {
		if _, matchError := filepath.Match(pattern, ""); matchError != nil {
			return fmt.Errorf(selectionPatternTemplateConstant, pattern, matchError)
		}
	}
	return nil
}

// selectFiles returns the sorted, de-duplicated files addressed by the selector.
func (selector fileSelector) selectFiles(environment Environment) ([]string, error) {
	fileSystem := environment.fileSystem()

	if len(selector.paths) > 0 {
		selected := make([]string, 0, len(selector.paths))
		for _, candidate := range selector.paths {
			resolvedPath := environment.ResolvePath(candidate)
			if _, statError := fileSystem.Stat(resolvedPath); statError != nil {
				return nil, fmt.Errorf(selectionPathMissingTemplateConstant, candidate, statError)
			}
			selected = append(selected, resolvedPath)
		}
		return deduplicateSorted(selected), nil
	}

	root := selector.root
	if len(root) == 0 {
		root = defaultSelectionRootConstant
	}
	resolvedRoot := environment.ResolvePath(root)

	rootInfo, statError := fileSystem.Stat(resolvedRoot)
	if statError != nil {
		return nil, fmt.Errorf(selectionRootMissingTemplateConstant, root, statError)
	}
	if !rootInfo.IsDir() {
		return []string{resolvedRoot}, nil
	}

	excluded := make(map[string]struct{}, len(selector.excludeDirectories))
	for _, directoryName := range selector.excludeDirectories {
		excluded[directoryName] = struct{}{}
	}

	var selected []string
	walkError := fileSystem.WalkDir(resolvedRoot, func(path string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			if path == resolvedRoot {
				return walkError
			}
			return nil
		}

		if directoryEntry.IsDir() {
			if path == resolvedRoot {
				return nil
			}
			if _, skip := excluded[directoryEntry.Name()]; skip {
				return fs.SkipDir
			}
			return nil
		}

		if selector.matches(resolvedRoot, path) {
			selected = append(selected, path)
		}
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}

	return deduplicateSorted(selected), nil
}

// matches applies include globs: patterns containing a slash match the root-relative path, others the base name.
func (selector fileSelector) matches(root string, path string) bool {
	if len(selector.include) == 0 {
		return true
	}

	baseName := filepath.Base(path)
	relativePath, relativeError := filepath.Rel(root, path)
	if relativeError != nil {
		relativePath = path
	}
	relativePath = filepath.ToSlash(relativePath)

	for _, pattern := range selector.include {
		candidate := baseName
		if strings.Contains(pattern, slashSeparatorConstant) {
			candidate = relativePath
		}
		if matched, _ := filepath.Match(pattern, candidate); matched {
			return true
		}
	}
	return false
}

func deduplicateSorted(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	unique := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, exists := seen[path]; exists {
			continue
		}
		seen[path] = struct{}{}
		unique = append(unique, path)
	}
	sort.Strings(unique)
	return unique
}
