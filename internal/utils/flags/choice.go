package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choicePlaceholderPrefixConstant    = "<"
	choicePlaceholderSuffixConstant    = ">"
	choiceSeparatorLiteralConstant     = "|"
	choiceListSeparatorConstant        = ","
	choiceUsageEmptyTemplateConstant   = "`%s`"
	choiceUsageFullTemplateConstant    = "`%s` %s"
	choiceInvalidValueTemplateConstant = "invalid value %q (expected one of %s)"
	choiceValueTypeConstant            = "string"
	choiceListValueTypeConstant        = "stringSlice"
	choiceListStringPrefixConstant     = "["
	choiceListStringSuffixConstant     = "]"
)

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := buildChoicePlaceholder([]string{defaultChoice}, choices)
	return formatUsage(placeholder, description)
}

// FormatChoiceListUsage builds a usage string for repeatable choices, capitalizing every default.
func FormatChoiceListUsage(defaultChoices []string, choices []string, description string) string {
	placeholder := buildChoicePlaceholder(defaultChoices, choices)
	return formatUsage(placeholder, description)
}

// AddChoiceFlag registers a string flag accepting only the listed choices, compared case-insensitively.
func AddChoiceFlag(flagSet *pflag.FlagSet, target *string, name string, defaultChoice string, choices []string, description string) {
	if flagSet == nil || len(name) == 0 {
		return
	}
	flagSet.Var(newChoiceValue(defaultChoice, choices, target), name, FormatChoiceUsage(defaultChoice, choices, description))
}

// AddChoiceListFlag registers a repeatable flag whose values must come from the listed choices.
// Values may be repeated or comma separated; the first occurrence replaces the defaults.
func AddChoiceListFlag(flagSet *pflag.FlagSet, target *[]string, name string, defaultChoices []string, choices []string, description string) {
	if flagSet == nil || len(name) == 0 {
		return
	}
	flagSet.Var(newChoiceListValue(defaultChoices, choices, target), name, FormatChoiceListUsage(defaultChoices, choices, description))
}

type choiceValue struct {
	choices []string
	target  *string
}

func newChoiceValue(defaultChoice string, choices []string, target *string) *choiceValue {
	if target == nil {
		target = new(string)
	}
	*target = defaultChoice
	return &choiceValue{choices: choices, target: target}
}

func (value *choiceValue) Set(rawValue string) error {
	matchedChoice, matchError := matchChoice(rawValue, value.choices)
	if matchError != nil {
		return matchError
	}
	*value.target = matchedChoice
	return nil
}

func (value *choiceValue) String() string {
	if value == nil || value.target == nil {
		return ""
	}
	return *value.target
}

func (value *choiceValue) Type() string {
	return choiceValueTypeConstant
}

type choiceListValue struct {
	choices []string
	target  *[]string
	changed bool
}

func newChoiceListValue(defaultChoices []string, choices []string, target *[]string) *choiceListValue {
	if target == nil {
		target = new([]string)
	}
	*target = append([]string(nil), defaultChoices...)
	return &choiceListValue{choices: choices, target: target}
}

func (value *choiceListValue) Set(rawValue string) error {
	parsedChoices := make([]string, 0)
	for _, candidate := range strings.Split(rawValue, choiceListSeparatorConstant) {
		if len(strings.TrimSpace(candidate)) == 0 {
			continue
		}
		matchedChoice, matchError := matchChoice(candidate, value.choices)
		if matchError != nil {
			return matchError
		}
		parsedChoices = append(parsedChoices, matchedChoice)
	}

	if !value.changed {
		*value.target = nil
		value.changed = true
	}
	*value.target = append(*value.target, parsedChoices...)
	return nil
}

func (value *choiceListValue) String() string {
	if value == nil || value.target == nil {
		return choiceListStringPrefixConstant + choiceListStringSuffixConstant
	}
	return choiceListStringPrefixConstant + strings.Join(*value.target, choiceListSeparatorConstant) + choiceListStringSuffixConstant
}

func (value *choiceListValue) Type() string {
	return choiceListValueTypeConstant
}

func matchChoice(rawValue string, choices []string) (string, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	for _, choice := range choices {
		if strings.ToLower(strings.TrimSpace(choice)) == normalizedValue {
			return strings.TrimSpace(choice), nil
		}
	}
	return "", fmt.Errorf(choiceInvalidValueTemplateConstant, rawValue, strings.Join(choices, choiceSeparatorLiteralConstant))
}

func formatUsage(placeholder string, description string) string {
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplateConstant, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplateConstant, placeholder, description)
}

func buildChoicePlaceholder(defaultChoices []string, choices []string) string {
	highlightedChoices := highlightDefaultChoices(defaultChoices, choices)
	return choicePlaceholderPrefixConstant + strings.Join(highlightedChoices, choiceSeparatorLiteralConstant) + choicePlaceholderSuffixConstant
}

func highlightDefaultChoices(defaultChoices []string, choices []string) []string {
	normalizedDefaults := make(map[string]struct{}, len(defaultChoices))
	for _, defaultChoice := range defaultChoices {
		normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
		if len(normalizedDefault) > 0 {
			normalizedDefaults[normalizedDefault] = struct{}{}
		}
	}

	highlighted := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}

		normalizedChoice := strings.ToLower(trimmedChoice)
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}

		displayValue := trimmedChoice
		if _, isDefault := normalizedDefaults[normalizedChoice]; isDefault {
			displayValue = strings.ToUpper(trimmedChoice)
		}

		highlighted = append(highlighted, displayValue)
		seen[normalizedChoice] = struct{}{}
	}

	return highlighted
}
