package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

const (
	versionCommandUseConstant              = "version"
	versionCommandShortDescriptionConstant = "Print the readiness version"
	versionOutputTemplateConstant          = "readiness version: %s\n"
	developmentVersionConstant             = "dev"
	develModuleVersionConstant             = "(devel)"
)

// version is replaced at build time with -ldflags "-X github.com/temirov/readiness/cmd/cli.version=v1.2.3".
var version = developmentVersionConstant

// ResolveVersion returns the injected build version, falling back to the module version recorded by go install.
func ResolveVersion() string {
	if version != developmentVersionConstant {
		return version
	}
	buildInformation, available := debug.ReadBuildInfo()
	if !available {
		return version
	}
	moduleVersion := buildInformation.Main.Version
	if len(moduleVersion) == 0 || moduleVersion == develModuleVersionConstant {
		return version
	}
	return moduleVersion
}

func newVersionCommand(versionResolver func() string) *cobra.Command {
	return &cobra.Command{
		Use:   versionCommandUseConstant,
		Short: versionCommandShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			_, printError := fmt.Fprintf(command.OutOrStdout(), versionOutputTemplateConstant, versionResolver())
			return printError
		},
	}
}
