package branches

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/branchsweep/internal/gitrepo"
	"github.com/temirov/branchsweep/internal/ui"
)

const (
	cleanupCommandUseConstant              = "cleanup"
	cleanupCommandShortDescriptionConstant = "Pick stale branches interactively and delete them"
	cleanupCommandLongDescriptionConstant  = "cleanup opens an interactive list of branches, oldest first. Mark branches with space, filter with /, press d to delete the marked branches and y to confirm. Remote-tracking branches are also deleted on their remote."
	cleanupSummaryTemplateConstant         = "Deleted %d branch(es), %d failed"
	cleanupDryRunSummaryTemplateConstant   = "Would delete %d branch(es), %d failed"
)

// ProgramRunner runs the picker program and returns its final model.
type ProgramRunner func(model tea.Model, input io.Reader, output io.Writer) (tea.Model, error)

// RunTerminalProgram runs model full screen on the given terminal streams.
func RunTerminalProgram(model tea.Model, input io.Reader, output io.Writer) (tea.Model, error) {
	program := tea.NewProgram(model, tea.WithInput(input), tea.WithOutput(output), tea.WithAltScreen())
	return program.Run()
}

// CleanupCommandBuilder assembles the interactive cleanup command.
type CleanupCommandBuilder struct {
	CommandDependencies
	ProgramRunner ProgramRunner
}

// Build constructs the cleanup command.
func (builder *CleanupCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   cleanupCommandUseConstant,
		Short: cleanupCommandShortDescriptionConstant,
		Long:  cleanupCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
	}

	selection := bindSelectionFlags(command, true)

	command.RunE = func(command *cobra.Command, arguments []string) error {
		configuration := selection.applyTo(command, builder.resolveConfiguration())
		if cleanupError := builder.run(command, configuration); cleanupError != nil {
			return fmt.Errorf(commandExecutionErrorTemplateConstant, cleanupCommandUseConstant, cleanupError)
		}
		return nil
	}

	return command, nil
}

func (builder *CleanupCommandBuilder) run(command *cobra.Command, configuration CommandConfiguration) error {
	// The picker owns the terminal while it runs; only errors may be written beside it.
	logger := builder.resolveLogger().WithOptions(zap.IncreaseLevel(zapcore.ErrorLevel))
	repository, openError := builder.openRepository(configuration.RepositoryPath, logger)
	if openError != nil {
		return openError
	}

	service, serviceError := NewService(Dependencies{
		Repository:         repository,
		CredentialProvider: builder.resolveCredentialProvider(configuration),
		Logger:             logger,
	})
	if serviceError != nil {
		return serviceError
	}

	branches, listError := service.List(configuration.selection())
	if listError != nil {
		return listError
	}

	deletionOptions := configuration.deletion()
	deleter := func(executionContext context.Context, branch gitrepo.Branch) error {
		return service.DeleteBranch(executionContext, branch, deletionOptions)
	}

	executionContext := command.Context()
	if executionContext == nil {
		executionContext = context.Background()
	}

	runner := builder.ProgramRunner
	if runner == nil {
		runner = RunTerminalProgram
	}

	finalModel, runError := runner(ui.NewPickerModel(executionContext, branches, deleter, deletionOptions.DryRun), command.InOrStdin(), command.OutOrStdout())
	if runError != nil {
		return runError
	}

	picker, isPicker := finalModel.(ui.PickerModel)
	if !isPicker {
		return nil
	}
	return builder.report(command, picker.Outcome(), deletionOptions.DryRun)
}

func (builder *CleanupCommandBuilder) report(command *cobra.Command, outcome ui.PickerOutcome, dryRun bool) error {
	observer := builder.eventObserver(builder.resolveLogger(), command.OutOrStdout())
	for _, branch := range outcome.Deleted {
		if dryRun {
			observer.BranchDeletionPlanned(branch)
		} else {
			observer.BranchDeletionCompleted(branch)
		}
	}
	var failures []error
	for _, failure := range outcome.Failed {
		observer.BranchDeletionFailed(failure.Branch, failure.Failure)
		failures = append(failures, fmt.Errorf(branchDeletionErrorTemplateConstant, failure.Branch.Name, failure.Failure))
	}

	if len(outcome.Deleted) == 0 && len(outcome.Failed) == 0 {
		return nil
	}
	summaryTemplate := cleanupSummaryTemplateConstant
	if dryRun {
		summaryTemplate = cleanupDryRunSummaryTemplateConstant
	}
	if _, writeError := fmt.Fprintf(command.OutOrStdout(), summaryTemplate+"\n", len(outcome.Deleted), len(outcome.Failed)); writeError != nil {
		return writeError
	}
	return errors.Join(failures...)
}
