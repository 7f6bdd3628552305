package checks

import (
	"errors"
	"fmt"
	"strings"
)

const (
	unsupportedKindTemplateConstant = "unsupported check kind %q"
	checkBuildErrorTemplateConstant = "check %s: %w"
	checkIdentifierMissingConstant  = "check identifier must be provided"
	minimumPercentageRangeConstant  = "option min_percentage must be between 0 and 100"
)

// ErrCheckIdentifierRequired indicates a definition was supplied without an identifier.
var ErrCheckIdentifierRequired = errors.New(checkIdentifierMissingConstant)

// KnownKinds lists every supported check kind in documentation order.
func KnownKinds() []Kind {
	return []Kind{
		KindFileExists,
		KindDirectoryExists,
		KindPathAbsent,
		KindFileCount,
		KindRegexCount,
		KindFileContains,
		KindCommandSucceeds,
		KindJSONField,
		KindTaskProgress,
	}
}

// IsKnownKind reports whether the kind is supported.
func IsKnownKind(kind Kind) bool {
	for _, knownKind := range KnownKinds() {
		if knownKind == kind {
			return true
		}
	}
	return false
}

// Build converts a definition and its raw `with:` options into an executable check.
func Build(definition Definition, rawOptions map[string]any) (Check, error) {
	definition.ID = strings.TrimSpace(definition.ID)
	if len(definition.ID) == 0 {
		return nil, ErrCheckIdentifierRequired
	}
	if len(strings.TrimSpace(definition.Component)) == 0 {
		definition.Component = DefaultComponent
	}
	if len(definition.Severity) == 0 {
		definition.Severity = SeverityError
	}

	check, buildError := buildForKind(definition, rawOptions)
	if buildError != nil {
		return nil, fmt.Errorf(checkBuildErrorTemplateConstant, definition.ID, buildError)
	}
	return check, nil
}

func buildForKind(definition Definition, rawOptions map[string]any) (Check, error) {
	switch definition.Kind {
	case KindFileExists, KindDirectoryExists, KindPathAbsent:
		return buildPathCheck(definition, rawOptions)
	case KindFileCount:
		var options fileCountOptions
		if decodeError := decodeOptions(rawOptions, &options); decodeError != nil {
			return nil, decodeError
		}
		selector, bounds, selectionError := prepareSelection(options.selection(), options.countBounds())
		if selectionError != nil {
			return nil, selectionError
		}
		return fileCountCheck{definition: definition, selector: selector, bounds: bounds}, nil
	case KindRegexCount:
		var options regexCountOptions
		if decodeError := decodeOptions(rawOptions, &options); decodeError != nil {
			return nil, decodeError
		}
		pattern, patternError := compilePattern("pattern", options.Pattern, options.IgnoreCase)
		if patternError != nil {
			return nil, patternError
		}
		selector, bounds, selectionError := prepareSelection(options.selection(), options.countBounds())
		if selectionError != nil {
			return nil, selectionError
		}
		return regexCountCheck{definition: definition, selector: selector, pattern: pattern, bounds: bounds}, nil
	case KindFileContains:
		var options fileContainsOptions
		if decodeError := decodeOptions(rawOptions, &options); decodeError != nil {
			return nil, decodeError
		}
		if requiredError := requireOption("path", options.Path); requiredError != nil {
			return nil, requiredError
		}
		pattern, patternError := compilePattern("pattern", options.Pattern, options.IgnoreCase)
		if patternError != nil {
			return nil, patternError
		}
		return fileContainsCheck{definition: definition, path: strings.TrimSpace(options.Path), pattern: pattern, absent: options.Absent}, nil
	case KindCommandSucceeds:
		var options commandOptions
		if decodeError := decodeOptions(rawOptions, &options); decodeError != nil {
			return nil, decodeError
		}
		return newCommandCheck(definition, options)
	case KindJSONField:
		var options jsonFieldOptions
		if decodeError := decodeOptions(rawOptions, &options); decodeError != nil {
			return nil, decodeError
		}
		return newJSONFieldCheck(definition, options)
	case KindTaskProgress:
		var options taskProgressOptions
		if decodeError := decodeOptions(rawOptions, &options); decodeError != nil {
			return nil, decodeError
		}
		if requiredError := requireOption("path", options.Path); requiredError != nil {
			return nil, requiredError
		}
		if options.MinPercentage < 0 || options.MinPercentage > 100 {
			return nil, errors.New(minimumPercentageRangeConstant)
		}
		return taskProgressCheck{definition: definition, path: strings.TrimSpace(options.Path), minPercentage: options.MinPercentage}, nil
	default:
		return nil, fmt.Errorf(unsupportedKindTemplateConstant, definition.Kind)
	}
}

func buildPathCheck(definition Definition, rawOptions map[string]any) (Check, error) {
	var options pathOptions
	if decodeError := decodeOptions(rawOptions, &options); decodeError != nil {
		return nil, decodeError
	}
	if requiredError := requireOption("path", options.Path); requiredError != nil {
		return nil, requiredError
	}
	trimmedPath := strings.TrimSpace(options.Path)
	switch definition.Kind {
	case KindDirectoryExists:
		return directoryExistsCheck{definition: definition, path: trimmedPath}, nil
	case KindPathAbsent:
		return pathAbsentCheck{definition: definition, path: trimmedPath}, nil
	default:
		return fileExistsCheck{definition: definition, path: trimmedPath}, nil
	}
}

func prepareSelection(selection fileSelectionOptions, boundsOptions countBoundsOptions) (fileSelector, countBounds, error) {
	selector := selection.selector()
	if validationError := selector.validate(); validationError != nil {
		return fileSelector{}, countBounds{}, validationError
	}
	bounds, boundsError := boundsOptions.bounds()
	if boundsError != nil {
		return fileSelector{}, countBounds{}, boundsError
	}
	return selector, bounds, nil
}
