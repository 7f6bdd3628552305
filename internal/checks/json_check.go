package checks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/tidwall/gjson"
)

const (
	jsonInvalidTemplateConstant           = "%s is not valid JSON"
	jsonFieldEqualsTemplateConstant       = "%s equals %q"
	jsonFieldDiffersTemplateConstant      = "%s is %q, expected %q"
	jsonFieldMissingTemplateConstant      = "%s is missing from %s"
	jsonFieldPresentTemplateConstant      = "%s is present in %s"
	jsonFieldUnexpectedTemplateConstant   = "%s is present in %s but should be absent"
	jsonFieldAbsentTemplateConstant       = "%s is absent from %s"
	jsonFieldBelowMinimumTemplateConstant = "%s is %g, expected at least %g"
	jsonFieldAtLeastTemplateConstant      = "%s is %g (minimum %g)"
	jsonFieldNotNumericTemplateConstant   = "%s is %q, expected a number"
)

type jsonFieldCheck struct {
	definition Definition
	path       string
	query      string
	equals     *string
	exists     bool
	minimum    *float64
}

func (check jsonFieldCheck) Definition() Definition {
	return check.definition
}

func (check jsonFieldCheck) Evaluate(executionContext context.Context, environment Environment) Result {
	content, readError := environment.fileSystem().ReadFile(environment.ResolvePath(check.path))
	if errors.Is(readError, fs.ErrNotExist) {
		return newResult(check.definition, StatusFail, fmt.Sprintf(fileMissingTemplateConstant, check.path))
	}
	if readError != nil {
		return ErrorResult(check.definition, fmt.Sprintf(fileReadFailedTemplateConstant, check.path, readError))
	}
	if !gjson.ValidBytes(content) {
		return ErrorResult(check.definition, fmt.Sprintf(jsonInvalidTemplateConstant, check.path))
	}

	queryResult := gjson.GetBytes(content, check.query)

	if check.equals != nil {
		if !queryResult.Exists() {
			return newResult(check.definition, StatusFail, fmt.Sprintf(jsonFieldMissingTemplateConstant, check.query, check.path))
		}
		result := check.compareEquals(queryResult)
		result.Observed = queryResult.String()
		return result
	}

	if check.minimum != nil {
		if !queryResult.Exists() {
			return newResult(check.definition, StatusFail, fmt.Sprintf(jsonFieldMissingTemplateConstant, check.query, check.path))
		}
		result := check.compareMinimum(queryResult)
		result.Observed = queryResult.String()
		return result
	}

	switch {
	case queryResult.Exists() && check.exists:
		result := newResult(check.definition, StatusPass, fmt.Sprintf(jsonFieldPresentTemplateConstant, check.query, check.path))
		result.Observed = queryResult.String()
		return result
	case queryResult.Exists():
		return newResult(check.definition, StatusFail, fmt.Sprintf(jsonFieldUnexpectedTemplateConstant, check.query, check.path))
	case check.exists:
		return newResult(check.definition, StatusFail, fmt.Sprintf(jsonFieldMissingTemplateConstant, check.query, check.path))
	default:
		return newResult(check.definition, StatusPass, fmt.Sprintf(jsonFieldAbsentTemplateConstant, check.query, check.path))
	}
}

func (check jsonFieldCheck) compareEquals(queryResult gjson.Result) Result {
	actualValue := queryResult.String()
	if actualValue == *check.equals {
		return newResult(check.definition, StatusPass, fmt.Sprintf(jsonFieldEqualsTemplateConstant, check.query, actualValue))
	}
	return newResult(check.definition, StatusFail, fmt.Sprintf(jsonFieldDiffersTemplateConstant, check.query, actualValue, *check.equals))
}

func (check jsonFieldCheck) compareMinimum(queryResult gjson.Result) Result {
	if queryResult.Type != gjson.Number {
		return newResult(check.definition, StatusFail, fmt.Sprintf(jsonFieldNotNumericTemplateConstant, check.query, queryResult.String()))
	}
	actualValue := queryResult.Float()
	if actualValue < *check.minimum {
		return newResult(check.definition, StatusFail, fmt.Sprintf(jsonFieldBelowMinimumTemplateConstant, check.query, actualValue, *check.minimum))
	}
	return newResult(check.definition, StatusPass, fmt.Sprintf(jsonFieldAtLeastTemplateConstant, check.query, actualValue, *check.minimum))
}

func newJSONFieldCheck(definition Definition, options jsonFieldOptions) (Check, error) {
	if requiredError := requireOption("path", options.Path); requiredError != nil {
		return nil, requiredError
	}
	if requiredError := requireOption("query", options.Query); requiredError != nil {
		return nil, requiredError
	}

	check := jsonFieldCheck{
		definition: definition,
		path:       options.Path,
		query:      options.Query,
		exists:     true,
		minimum:    options.Min,
	}
	if options.Exists != nil {
		check.exists = *options.Exists
	}
	if options.Equals != nil {
		expectedValue := fmt.Sprint(options.Equals)
		check.equals = &expectedValue
	}
	return check, nil
}
