package flags

import (
	"strings"

	"github.com/spf13/cobra"
)

const (
	// SuiteFlagName exposes the shared suite file flag name.
	SuiteFlagName = "suite"
	// SuiteFlagShorthand provides the shorthand for the suite flag.
	SuiteFlagShorthand = "s"
	// SuiteFlagUsage describes the shared suite flag purpose.
	SuiteFlagUsage = "Path to the readiness suite file"
	// ComponentFlagName exposes the shared component filter flag name.
	ComponentFlagName = "component"
	// ComponentFlagUsage describes the shared component filter flag purpose.
	ComponentFlagUsage = "Restrict the suite to the named components (repeatable)"
)

// SuiteFlagValues stores the suite selection flags.
type SuiteFlagValues struct {
	Path       string
	Components []string
}

// BindSuiteFlags attaches the suite path and component filter flags to the provided command.
func BindSuiteFlags(command *cobra.Command, defaults SuiteFlagValues) *SuiteFlagValues {
	values := SuiteFlagValues{Path: defaults.Path, Components: append([]string(nil), defaults.Components...)}
	if command == nil {
		return &values
	}

	flagSet := command.Flags()
	if flagSet.Lookup(SuiteFlagName) == nil {
		flagSet.StringVarP(&values.Path, SuiteFlagName, SuiteFlagShorthand, values.Path, SuiteFlagUsage)
	}
	if flagSet.Lookup(ComponentFlagName) == nil {
		flagSet.StringSliceVar(&values.Components, ComponentFlagName, values.Components, ComponentFlagUsage)
	}
	return &values
}

// ResolveSuitePath picks the suite file: positional argument, then an explicitly set flag, then configuration.
func ResolveSuitePath(command *cobra.Command, arguments []string, values *SuiteFlagValues, configuredPath string) string {
	if len(arguments) > 0 && len(strings.TrimSpace(arguments[0])) > 0 {
		return strings.TrimSpace(arguments[0])
	}
	if values != nil && command != nil && command.Flags().Changed(SuiteFlagName) {
		return strings.TrimSpace(values.Path)
	}
	if trimmedConfiguredPath := strings.TrimSpace(configuredPath); len(trimmedConfiguredPath) > 0 {
		return trimmedConfiguredPath
	}
	if values != nil {
		return strings.TrimSpace(values.Path)
	}
	return ""
}
