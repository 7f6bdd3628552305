package readiness

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/readiness/internal/filesystem"
	"github.com/temirov/readiness/internal/suite"
	flagutils "github.com/temirov/readiness/internal/utils/flags"
)

const (
	initCommandUseConstant               = "init [path]"
	initCommandShortDescriptionConstant  = "Write an example readiness suite"
	initCommandLongDescriptionConstant   = "init writes an example suite covering every check kind. Existing files are kept unless --force is given."
	forceFlagNameConstant                = "force"
	forceFlagShorthandConstant           = "f"
	forceFlagDescriptionConstant         = "Overwrite an existing suite file"
	suiteExistsTemplateConstant          = "suite file %s already exists; use --force to overwrite"
	inspectSuiteErrorTemplateConstant    = "unable to inspect %s: %w"
	createDirectoryErrorTemplateConstant = "unable to create directory for %s: %w"
	writeSuiteErrorTemplateConstant      = "unable to write suite file %s: %w"
	suiteWrittenTemplateConstant         = "Wrote example suite to %s\n"
	suiteDirectoryPermissionsConstant    = 0o755
	suiteFilePermissionsConstant         = 0o644
)

// InitCommandBuilder assembles the init command.
type InitCommandBuilder struct {
	FileSystem filesystem.FileSystem
}

// Build constructs the init command.
func (builder *InitCommandBuilder) Build() (*cobra.Command, error) {
	var force bool

	command := &cobra.Command{
		Use:   initCommandUseConstant,
		Short: initCommandShortDescriptionConstant,
		Long:  initCommandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			targetPath := defaultSuitePathConstant
			if len(arguments) > 0 && len(strings.TrimSpace(arguments[0])) > 0 {
				targetPath = strings.TrimSpace(arguments[0])
			}
			if writeError := builder.writeExample(targetPath, force); writeError != nil {
				return writeError
			}
			_, printError := fmt.Fprintf(command.OutOrStdout(), suiteWrittenTemplateConstant, targetPath)
			return printError
		},
	}

	flagutils.AddToggleFlag(command.Flags(), &force, forceFlagNameConstant, forceFlagShorthandConstant, false, forceFlagDescriptionConstant)
	return command, nil
}

func (builder *InitCommandBuilder) writeExample(targetPath string, force bool) error {
	fileSystem := filesystem.Resolve(builder.FileSystem)

	_, statError := fileSystem.Stat(targetPath)
	switch {
	case statError == nil && !force:
		return fmt.Errorf(suiteExistsTemplateConstant, targetPath)
	case statError != nil && !errors.Is(statError, fs.ErrNotExist):
		return fmt.Errorf(inspectSuiteErrorTemplateConstant, targetPath, statError)
	}

	if mkdirError := fileSystem.MkdirAll(filepath.Dir(targetPath), suiteDirectoryPermissionsConstant); mkdirError != nil {
		return fmt.Errorf(createDirectoryErrorTemplateConstant, targetPath, mkdirError)
	}
	if writeError := fileSystem.WriteFile(targetPath, suite.ExampleSuite(), suiteFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(writeSuiteErrorTemplateConstant, targetPath, writeError)
	}
	return nil
}
