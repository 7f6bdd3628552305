package checks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strconv"
)

const (
	regexCountWithinBoundsTemplateConstant  = "%d matching lines in %d files (expected %s)"
	regexCountOutsideBoundsTemplateConstant = "%d matching lines in %d files, expected %s"
	fileReadFailedTemplateConstant          = "unable to read %s: %v"
	fileContainsMatchTemplateConstant       = "%s matches %q"
	fileContainsMissingTemplateConstant     = "%s does not match %q"
	fileContainsForbiddenTemplateConstant   = "%s matches forbidden pattern %q"
	fileContainsAbsentTemplateConstant      = "%s is free of %q"
	taskProgressTemplateConstant            = "%d of %d tasks completed (%.1f%%)"
	taskProgressBelowTemplateConstant       = "%d of %d tasks completed (%.1f%%), expected at least %.1f%%"
	taskProgressEmptyTemplateConstant       = "no tasks found in %s"
)

var taskItemPattern = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+\[([ xX])\]`)

type regexCountCheck struct {
	definition Definition
	selector   fileSelector
	pattern    *regexp.Regexp
	bounds     countBounds
}

func (check regexCountCheck) Definition() Definition {
	return check.definition
}

func (check regexCountCheck) Evaluate(executionContext context.Context, environment Environment) Result {
	selectedFiles, selectionError := check.selector.selectFiles(environment)
	if selectionError != nil {
		return ErrorResult(check.definition, fmt.Sprintf(selectionFailedTemplateConstant, selectionError))
	}

	fileSystem := environment.fileSystem()
	matchCount := 0
	for _, filePath := range selectedFiles {
		if contextError := executionContext.Err(); contextError != nil {
			return ErrorResult(check.definition, contextError.Error())
		}
		content, readError := fileSystem.ReadFile(filePath)
		if readError != nil {
			return ErrorResult(check.definition, fmt.Sprintf(fileReadFailedTemplateConstant, filePath, readError))
		}
		matchCount += countMatchingLines(content, check.pattern)
	}

	var result Result
	if check.bounds.contains(matchCount) {
		result = newResult(check.definition, StatusPass, fmt.Sprintf(regexCountWithinBoundsTemplateConstant, matchCount, len(selectedFiles), check.bounds))
	} else {
		result = newResult(check.definition, StatusFail, fmt.Sprintf(regexCountOutsideBoundsTemplateConstant, matchCount, len(selectedFiles), check.bounds))
	}
	result.Observed = strconv.Itoa(matchCount)
	return result
}

func countMatchingLines(content []byte, pattern *regexp.Regexp) int {
	matchCount := 0
	forEachLine(content, func(line []byte) {
		if pattern.Match(line) {
			matchCount++
		}
	})
	return matchCount
}

// forEachLine visits every line without its terminator; line length is unbounded.
func forEachLine(content []byte, visit func(line []byte)) {
	for line := range bytes.Lines(content) {
		line = bytes.TrimSuffix(line, []byte("\n"))
		visit(bytes.TrimSuffix(line, []byte("\r")))
	}
}

type fileContainsCheck struct {
	definition Definition
	path       string
	pattern    *regexp.Regexp
	absent     bool
}

func (check fileContainsCheck) Definition() Definition {
	return check.definition
}

func (check fileContainsCheck) Evaluate(executionContext context.Context, environment Environment) Result {
	content, readError := environment.fileSystem().ReadFile(environment.ResolvePath(check.path))
	if errors.Is(readError, fs.ErrNotExist) {
		return newResult(check.definition, StatusFail, fmt.Sprintf(fileMissingTemplateConstant, check.path))
	}
	if readError != nil {
		return ErrorResult(check.definition, fmt.Sprintf(fileReadFailedTemplateConstant, check.path, readError))
	}

	matched := check.pattern.Match(content)
	switch {
	case matched && !check.absent:
		return newResult(check.definition, StatusPass, fmt.Sprintf(fileContainsMatchTemplateConstant, check.path, check.pattern.String()))
	case matched && check.absent:
		return newResult(check.definition, StatusFail, fmt.Sprintf(fileContainsForbiddenTemplateConstant, check.path, check.pattern.String()))
	case check.absent:
		return newResult(check.definition, StatusPass, fmt.Sprintf(fileContainsAbsentTemplateConstant, check.path, check.pattern.String()))
	default:
		return newResult(check.definition, StatusFail, fmt.Sprintf(fileContainsMissingTemplateConstant, check.path, check.pattern.String()))
	}
}

type taskProgressCheck struct {
	definition    Definition
	path          string
	minPercentage float64
}

func (check taskProgressCheck) Definition() Definition {
	return check.definition
}

func (check taskProgressCheck) Evaluate(executionContext context.Context, environment Environment) Result {
	content, readError := environment.fileSystem().ReadFile(environment.ResolvePath(check.path))
	if errors.Is(readError, fs.ErrNotExist) {
		return newResult(check.definition, StatusFail, fmt.Sprintf(fileMissingTemplateConstant, check.path))
	}
	if readError != nil {
		return ErrorResult(check.definition, fmt.Sprintf(fileReadFailedTemplateConstant, check.path, readError))
	}

	progress := CountTasks(content)
	var result Result
	switch {
	case progress.Total == 0:
		result = newResult(check.definition, StatusPass, fmt.Sprintf(taskProgressEmptyTemplateConstant, check.path))
	case progress.Percentage() < check.minPercentage:
		result = newResult(check.definition, StatusFail, fmt.Sprintf(taskProgressBelowTemplateConstant, progress.Completed, progress.Total, progress.Percentage(), check.minPercentage))
	default:
		result = newResult(check.definition, StatusPass, fmt.Sprintf(taskProgressTemplateConstant, progress.Completed, progress.Total, progress.Percentage()))
	}
	result.Progress = &progress
	result.Observed = strconv.FormatFloat(progress.Percentage(), 'f', 1, 64)
	return result
}

// CountTasks tallies Markdown checkbox items; "[x]" and "[X]" count as completed.
func CountTasks(content []byte) Progress {
	progress := Progress{}
	forEachLine(content, func(line []byte) {
		submatches := taskItemPattern.FindSubmatch(line)
		if submatches == nil {
			return
		}
		progress.Total++
		if !bytes.Equal(submatches[1], []byte(" ")) {
			progress.Completed++
		}
	})
	return progress
}
