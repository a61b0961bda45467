package branches

import (
	"fmt"

	"github.com/spf13/cobra"

	flagutils "github.com/temirov/branchsweep/internal/utils/flags"
)

const (
	listCommandUseConstant              = "list"
	listCommandShortDescriptionConstant = "List branches, least recently committed first"
	listCommandLongDescriptionConstant  = "list prints local and remote-tracking branches ordered by the committer time of their tips, oldest first. Branches on the skip list are never shown."
	listCommandExampleConstant          = "branchsweep list --type remote --skip develop --format json"
	formatFlagNameConstant              = "format"
	formatFlagUsageConstant             = "Output format"
)

// ListCommandBuilder assembles the list command.
type ListCommandBuilder struct {
	CommandDependencies
}

// Build constructs the list command.
func (builder *ListCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     listCommandUseConstant,
		Short:   listCommandShortDescriptionConstant,
		Long:    listCommandLongDescriptionConstant,
		Example: listCommandExampleConstant,
		Args:    cobra.NoArgs,
	}

	selection := bindSelectionFlags(command, false)
	formatValue := flagutils.AddChoiceFlag(command.Flags(), formatFlagNameConstant, string(OutputFormatTable), OutputFormatChoices(), formatFlagUsageConstant)

	command.RunE = func(command *cobra.Command, arguments []string) error {
		configuration := builder.resolveConfiguration()
		if command.Flags().Changed(formatFlagNameConstant) {
			configuration.OutputFormat = formatValue.String()
		}
		configuration = selection.applyTo(command, configuration)

		if listError := builder.run(command, configuration); listError != nil {
			return fmt.Errorf(commandExecutionErrorTemplateConstant, listCommandUseConstant, listError)
		}
		return nil
	}

	return command, nil
}

func (builder *ListCommandBuilder) run(command *cobra.Command, configuration CommandConfiguration) error {
	outputFormat, formatError := ParseOutputFormat(configuration.OutputFormat)
	if formatError != nil {
		return formatError
	}

	logger := builder.resolveLogger()
	repository, openError := builder.openRepository(configuration.RepositoryPath, logger)
	if openError != nil {
		return openError
	}

	service, serviceError := NewService(Dependencies{Repository: repository, Logger: logger})
	if serviceError != nil {
		return serviceError
	}

	branches, listError := service.List(configuration.selection())
	if listError != nil {
		return listError
	}

	output := command.OutOrStdout()
	return NewRenderer(output, colorEnabled(output)).Render(branches, outputFormat)
}
