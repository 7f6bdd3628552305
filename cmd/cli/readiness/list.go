package readiness

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/temirov/readiness/internal/filesystem"
	"github.com/temirov/readiness/internal/utils"
	flagutils "github.com/temirov/readiness/internal/utils/flags"
)

const (
	listCommandUseConstant              = "list [suite]"
	listCommandShortDescriptionConstant = "List the checks declared in a readiness suite"
	listCommandLongDescriptionConstant  = "list loads and validates the suite, then prints every check without executing anything."
	listHeaderTemplateConstant          = "Suite: %s (%d checks, threshold %.1f%%)\n"
	listRootTemplateConstant            = "Root: %s\n\n"
	listTableHeaderConstant             = "ID\tKIND\tCOMPONENT\tSEVERITY\tDESCRIPTION\n"
	listRowTemplateConstant             = "%s\t%s\t%s\t%s\t%s\n"
	listTabMinimumWidthConstant         = 0
	listTabWidthConstant                = 8
	listTabPaddingConstant              = 2
	listTabPaddingCharacterConstant     = ' '
)

// ListCommandBuilder assembles the list command.
type ListCommandBuilder struct {
	FileSystem            filesystem.FileSystem
	ConfigurationProvider func() RunConfiguration
}

// Build constructs the list command.
func (builder *ListCommandBuilder) Build() (*cobra.Command, error) {
	var suiteFlags *flagutils.SuiteFlagValues

	command := &cobra.Command{
		Use:   listCommandUseConstant,
		Short: listCommandShortDescriptionConstant,
		Long:  listCommandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(command *cobra.Command, arguments []string) error {
			return bindSuitePath(command, arguments, suiteFlags, builder.resolveConfiguration().Suite)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, suiteFlags)
		},
	}

	suiteFlags = flagutils.BindSuiteFlags(command, flagutils.SuiteFlagValues{})
	return command, nil
}

func (builder *ListCommandBuilder) run(command *cobra.Command, suiteFlags *flagutils.SuiteFlagValues) error {
	suitePath, suitePathError := suitePathFromCommand(command)
	if suitePathError != nil {
		return suitePathError
	}

	readinessSuite, _, suiteError := loadSuite(filesystem.Resolve(builder.FileSystem), suitePath, suiteFlags.Components)
	if suiteError != nil {
		return suiteError
	}

	output := utils.NewFlushingWriter(command.OutOrStdout())
	fmt.Fprintf(output, listHeaderTemplateConstant, readinessSuite.Name, len(readinessSuite.Checks), readinessSuite.Threshold)
	fmt.Fprintf(output, listRootTemplateConstant, readinessSuite.RootDirectory)

	tableWriter := tabwriter.NewWriter(output, listTabMinimumWidthConstant, listTabWidthConstant, listTabPaddingConstant, listTabPaddingCharacterConstant, 0)
	fmt.Fprint(tableWriter, listTableHeaderConstant)
	for _, checkConfiguration := range readinessSuite.Checks {
		fmt.Fprintf(tableWriter, listRowTemplateConstant,
			checkConfiguration.ID,
			checkConfiguration.Kind,
			checkConfiguration.Component,
			checkConfiguration.Severity,
			checkConfiguration.Description,
		)
	}
	return tableWriter.Flush()
}

func (builder *ListCommandBuilder) resolveConfiguration() RunConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultRunConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}
