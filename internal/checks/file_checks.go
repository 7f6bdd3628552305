package checks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
)

const (
	fileFoundTemplateConstant              = "file %s exists"
	fileMissingTemplateConstant            = "file %s is missing"
	fileIsDirectoryTemplateConstant        = "%s is a directory, expected a file"
	directoryFoundTemplateConstant         = "directory %s exists"
	directoryMissingTemplateConstant       = "directory %s is missing"
	directoryIsFileTemplateConstant        = "%s is a file, expected a directory"
	pathAbsentTemplateConstant             = "%s is absent"
	pathPresentTemplateConstant            = "%s exists but should be absent"
	pathInaccessibleTemplateConstant       = "unable to inspect %s: %v"
	fileCountWithinBoundsTemplateConstant  = "%d matching files (expected %s)"
	fileCountOutsideBoundsTemplateConstant = "%d matching files, expected %s"
	selectionFailedTemplateConstant        = "unable to select files: %v"
)

type fileExistsCheck struct {
	definition Definition
	path       string
}

func (check fileExistsCheck) Definition() Definition {
	return check.definition
}

func (check fileExistsCheck) Evaluate(executionContext context.Context, environment Environment) Result {
	fileInfo, statError := environment.fileSystem().Stat(environment.ResolvePath(check.path))
	switch {
	case errors.Is(statError, fs.ErrNotExist):
		return newResult(check.definition, StatusFail, fmt.Sprintf(fileMissingTemplateConstant, check.path))
	case statError != nil:
		return ErrorResult(check.definition, fmt.Sprintf(pathInaccessibleTemplateConstant, check.path, statError))
	case fileInfo.IsDir():
		return newResult(check.definition, StatusFail, fmt.Sprintf(fileIsDirectoryTemplateConstant, check.path))
	default:
		result := newResult(check.definition, StatusPass, fmt.Sprintf(fileFoundTemplateConstant, check.path))
		result.Observed = strconv.FormatInt(fileInfo.Size(), 10)
		return result
	}
}

type directoryExistsCheck struct {
	definition Definition
	path       string
}

func (check directoryExistsCheck) Definition() Definition {
	return check.definition
}

func (check directoryExistsCheck) Evaluate(executionContext context.Context, environment Environment) Result {
	fileInfo, statError := environment.fileSystem().Stat(environment.ResolvePath(check.path))
	switch {
	case errors.Is(statError, fs.ErrNotExist):
		return newResult(check.definition, StatusFail, fmt.Sprintf(directoryMissingTemplateConstant, check.path))
	case statError != nil:
		return ErrorResult(check.definition, fmt.Sprintf(pathInaccessibleTemplateConstant, check.path, statError))
	case !fileInfo.IsDir():
		return newResult(check.definition, StatusFail, fmt.Sprintf(directoryIsFileTemplateConstant, check.path))
	default:
		return newResult(check.definition, StatusPass, fmt.Sprintf(directoryFoundTemplateConstant, check.path))
	}
}

type pathAbsentCheck struct {
	definition Definition
	path       string
}

func (check pathAbsentCheck) Definition() Definition {
	return check.definition
}

func (check pathAbsentCheck) Evaluate(executionContext context.Context, environment Environment) Result {
	_, statError := environment.fileSystem().Stat(environment.ResolvePath(check.path))
	switch {
	case errors.Is(statError, fs.ErrNotExist):
		return newResult(check.definition, StatusPass, fmt.Sprintf(pathAbsentTemplateConstant, check.path))
	case statError != nil:
		return ErrorResult(check.definition, fmt.Sprintf(pathInaccessibleTemplateConstant, check.path, statError))
	default:
		return newResult(check.definition, StatusFail, fmt.Sprintf(pathPresentTemplateConstant, check.path))
	}
}

type fileCountCheck struct {
	definition Definition
	selector   fileSelector
	bounds     countBounds
}

func (check fileCountCheck) Definition() Definition {
	return check.definition
}

func (check fileCountCheck) Evaluate(executionContext context.Context, environment Environment) Result {
	selectedFiles, selectionError := check.selector.selectFiles(environment)
	if selectionError != nil {
		return ErrorResult(check.definition, fmt.Sprintf(selectionFailedTemplateConstant, selectionError))
	}

	count := len(selectedFiles)
	var result Result
	if check.bounds.contains(count) {
		result = newResult(check.definition, StatusPass, fmt.Sprintf(fileCountWithinBoundsTemplateConstant, count, check.bounds))
	} else {
		result = newResult(check.definition, StatusFail, fmt.Sprintf(fileCountOutsideBoundsTemplateConstant, count, check.bounds))
	}
	result.Observed = strconv.Itoa(count)
	return result
}
