package suite

import (
	"fmt"
	"sort"
	"strings"

	"github.com/temirov/readiness/internal/checks"
)

const suiteFilterNoMatchTemplateConstant = "no checks belong to components %s (available: %s)"

// BuildChecks constructs the executable checks declared by the suite, preserving declaration order.
func BuildChecks(suite Suite) ([]checks.Check, error) {
	builtChecks := make([]checks.Check, 0, len(suite.Checks))
	for checkIndex := range suite.Checks {
		entry := suite.Checks[checkIndex]
		check, buildError := checks.Build(entry.Definition(), entry.Options)
		if buildError != nil {
			return nil, buildError
		}
		builtChecks = append(builtChecks, check)
	}
	return builtChecks, nil
}

// Components lists the distinct components referenced by the suite in sorted order.
func (suite Suite) Components() []string {
	seen := make(map[string]struct{}, len(suite.Checks))
	components := make([]string, 0, len(suite.Checks))
	for checkIndex := range suite.Checks {
		component := suite.Checks[checkIndex].Component
		if _, exists := seen[component]; exists {
			continue
		}
		seen[component] = struct{}{}
		components = append(components, component)
	}
	sort.Strings(components)
	return components
}

// Filter restricts the suite to checks whose component matches one of the names, case-insensitively.
// An empty filter returns the suite unchanged.
func (suite Suite) Filter(components []string) (Suite, error) {
	requested := make(map[string]struct{}, len(components))
	requestedNames := make([]string, 0, len(components))
	for _, component := range components {
		trimmedComponent := strings.TrimSpace(component)
		if len(trimmedComponent) == 0 {
			continue
		}
		requested[strings.ToLower(trimmedComponent)] = struct{}{}
		requestedNames = append(requestedNames, trimmedComponent)
	}
	if len(requested) == 0 {
		return suite, nil
	}

	filteredChecks := make([]CheckConfiguration, 0, len(suite.Checks))
	for checkIndex := range suite.Checks {
		if _, keep := requested[strings.ToLower(suite.Checks[checkIndex].Component)]; keep {
			filteredChecks = append(filteredChecks, suite.Checks[checkIndex])
		}
	}
	if len(filteredChecks) == 0 {
		return Suite{}, fmt.Errorf(suiteFilterNoMatchTemplateConstant, strings.Join(requestedNames, ", "), strings.Join(suite.Components(), ", "))
	}

	filtered := suite
	filtered.Checks = filteredChecks
	return filtered, nil
}
