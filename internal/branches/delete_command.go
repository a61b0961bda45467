package branches

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/temirov/branchsweep/internal/utils"
)

const (
	deleteCommandUseConstant              = "delete <branch>..."
	deleteCommandNameConstant             = "delete"
	deleteCommandShortDescriptionConstant = "Delete branches locally and on their remote"
	deleteCommandLongDescriptionConstant  = "delete removes the named branches. Remote-tracking branches such as origin/feature are also deleted on the remote with an SSH push. Each branch is confirmed unless --yes is given; --dry-run only reports what would be deleted."
	deleteCommandExampleConstant          = "branchsweep delete feature-x origin/feature-x --private-key ~/.ssh/id_ed25519"
)

// PrompterFactory builds a confirmation prompter over the command's input and output.
type PrompterFactory func(input io.Reader, output io.Writer) ConfirmationPrompter

// DeleteCommandBuilder assembles the delete command.
type DeleteCommandBuilder struct {
	CommandDependencies
	PrompterFactory PrompterFactory
	Progress        ProgressIndicator
}

// Build constructs the delete command.
func (builder *DeleteCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     deleteCommandUseConstant,
		Short:   deleteCommandShortDescriptionConstant,
		Long:    deleteCommandLongDescriptionConstant,
		Example: deleteCommandExampleConstant,
		Args:    cobra.MinimumNArgs(1),
	}

	selection := bindSelectionFlags(command, true)

	command.RunE = func(command *cobra.Command, arguments []string) error {
		configuration := selection.applyTo(command, builder.resolveConfiguration())
		if deleteError := builder.run(command, configuration, arguments); deleteError != nil {
			return fmt.Errorf(commandExecutionErrorTemplateConstant, deleteCommandNameConstant, deleteError)
		}
		return nil
	}

	return command, nil
}

func (builder *DeleteCommandBuilder) run(command *cobra.Command, configuration CommandConfiguration, names []string) error {
	logger := builder.resolveLogger()
	repository, openError := builder.openRepository(configuration.RepositoryPath, logger)
	if openError != nil {
		return openError
	}

	output := utils.NewFlushingWriter(command.OutOrStdout())
	service, serviceError := NewService(Dependencies{
		Repository:         repository,
		CredentialProvider: builder.resolveCredentialProvider(configuration),
		Prompter:           builder.resolvePrompter(command.InOrStdin(), output),
		Observer:           builder.eventObserver(logger, output),
		Progress:           builder.resolveProgress(command),
		Logger:             logger,
	})
	if serviceError != nil {
		return serviceError
	}

	selected, resolveError := service.Resolve(configuration.selection(), names)
	if resolveError != nil {
		return resolveError
	}

	_, deletionError := service.DeleteBranches(command.Context(), selected, configuration.deletion())
	return deletionError
}

func (builder *DeleteCommandBuilder) resolvePrompter(input io.Reader, output io.Writer) ConfirmationPrompter {
	if builder.PrompterFactory != nil {
		return builder.PrompterFactory(input, output)
	}
	return NewIOConfirmationPrompter(input, output)
}

func (builder *DeleteCommandBuilder) resolveProgress(command *cobra.Command) ProgressIndicator {
	if builder.Progress != nil {
		return builder.Progress
	}
	if !builder.humanReadableLogging() || !colorEnabled(command.ErrOrStderr()) {
		return NoopProgressIndicator{}
	}
	return NewSpinnerProgressIndicator(command.ErrOrStderr())
}
