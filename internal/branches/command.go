package branches

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/branchsweep/internal/gitrepo"
	"github.com/temirov/branchsweep/internal/ui"
	"github.com/temirov/branchsweep/internal/utils"
	flagutils "github.com/temirov/branchsweep/internal/utils/flags"
)

const (
	commandExecutionErrorTemplateConstant = "%s failed: %w"
	strictFlagNameConstant                = "strict"
	strictFlagUsageConstant               = "Fail when a branch tip cannot be resolved instead of skipping it"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// RepositoryOpener opens the repository the commands operate on.
type RepositoryOpener func(path string, logger *zap.Logger) (BranchRepository, error)

// CommandDependencies are shared by the branch command builders.
type CommandDependencies struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	RepositoryOpener             RepositoryOpener
	CredentialProvider           gitrepo.CredentialProvider
}

// OpenGitRepository opens path, or discovers the repository from the environment when path is empty.
func OpenGitRepository(path string, logger *zap.Logger) (BranchRepository, error) {
	repository, openError := gitrepo.Open(path, gitrepo.WithLogger(logger))
	if openError != nil {
		return nil, openError
	}
	return repository, nil
}

type selectionFlags struct {
	repositoryPath string
	branchType     string
	skip           []string
	strict         bool
	privateKeyPath string
}

func bindSelectionFlags(command *cobra.Command, includePrivateKey bool) *selectionFlags {
	values := &selectionFlags{}
	defaults := DefaultCommandConfiguration()

	command.Flags().StringVarP(&values.repositoryPath, flagutils.RepositoryFlagName, flagutils.RepositoryFlagShorthand, "", flagutils.RepositoryFlagUsage)
	command.Flags().StringVar(&values.branchType, flagutils.BranchTypeFlagName, defaults.BranchType,
		flagutils.FormatChoiceUsage(defaults.BranchType, gitrepo.BranchTypeChoices(), flagutils.BranchTypeFlagUsage))
	command.Flags().StringSliceVar(&values.skip, flagutils.SkipFlagName, nil, flagutils.SkipFlagUsage)
	command.Flags().BoolVar(&values.strict, strictFlagNameConstant, false, strictFlagUsageConstant)
	if includePrivateKey {
		command.Flags().StringVar(&values.privateKeyPath, flagutils.PrivateKeyFlagName, defaults.PrivateKeyPath, flagutils.PrivateKeyFlagUsage)
	}
	return values
}

// applyTo overlays explicitly set flags and execution flags onto configuration.
func (values *selectionFlags) applyTo(command *cobra.Command, configuration CommandConfiguration) CommandConfiguration {
	flagSet := command.Flags()
	if flagSet.Changed(flagutils.RepositoryFlagName) {
		configuration.RepositoryPath = values.repositoryPath
	}
	if flagSet.Changed(flagutils.BranchTypeFlagName) {
		configuration.BranchType = values.branchType
	}
	if flagSet.Changed(flagutils.SkipFlagName) {
		configuration.Skip = append([]string{}, values.skip...)
	}
	if flagSet.Changed(strictFlagNameConstant) {
		configuration.Strict = values.strict
	}
	if flagSet.Lookup(flagutils.PrivateKeyFlagName) != nil && flagSet.Changed(flagutils.PrivateKeyFlagName) {
		configuration.PrivateKeyPath = values.privateKeyPath
	}

	executionFlags, executionFlagsAvailable := utils.NewCommandContextAccessor().ExecutionFlags(command.Context())
	if executionFlagsAvailable {
		if executionFlags.DryRunSet {
			configuration.DryRun = executionFlags.DryRun
		}
		if executionFlags.AssumeYesSet {
			configuration.AssumeYes = executionFlags.AssumeYes
		}
	}

	return configuration.Sanitize()
}

func (configuration CommandConfiguration) selection() SelectionOptions {
	return SelectionOptions{Filter: configuration.Filter(), Skip: configuration.Skip, Strict: configuration.Strict}
}

func (configuration CommandConfiguration) deletion() DeletionOptions {
	return DeletionOptions{DryRun: configuration.DryRun, AssumeYes: configuration.AssumeYes, PushTimeout: configuration.PushTimeout}
}

func (dependencies CommandDependencies) resolveConfiguration() CommandConfiguration {
	if dependencies.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return dependencies.ConfigurationProvider()
}

func (dependencies CommandDependencies) resolveLogger() *zap.Logger {
	if dependencies.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := dependencies.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (dependencies CommandDependencies) humanReadableLogging() bool {
	if dependencies.HumanReadableLoggingProvider == nil {
		return false
	}
	return dependencies.HumanReadableLoggingProvider()
}

func (dependencies CommandDependencies) openRepository(path string, logger *zap.Logger) (BranchRepository, error) {
	opener := dependencies.RepositoryOpener
	if opener == nil {
		opener = OpenGitRepository
	}
	return opener(path, logger)
}

func (dependencies CommandDependencies) resolveCredentialProvider(configuration CommandConfiguration) gitrepo.CredentialProvider {
	if dependencies.CredentialProvider != nil {
		return dependencies.CredentialProvider
	}
	return gitrepo.NewSSHKeyCredentialProvider(configuration.PrivateKeyPath)
}

// eventObserver reports deletions through the human-readable logger when console logging is on,
// and as plain lines on output otherwise.
func (dependencies CommandDependencies) eventObserver(logger *zap.Logger, output io.Writer) ui.BranchEventObserver {
	if dependencies.humanReadableLogging() {
		return ui.NewConsoleBranchEventLogger(logger)
	}
	return ui.NewWriterBranchEventReporter(output, colorEnabled(output))
}

// colorEnabled reports whether ANSI colors suit output, following fatih/color's terminal and NO_COLOR detection.
func colorEnabled(output io.Writer) bool {
	if color.NoColor {
		return false
	}
	_, isFile := output.(*os.File)
	return isFile
}
