package branches

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/branchsweep/internal/gitrepo"
	"github.com/temirov/branchsweep/internal/ui"
)

const (
	repositoryMissingMessageConstant        = "branch repository not configured"
	prompterMissingMessageConstant          = "confirmation prompter not configured"
	branchNotListedMessageConstant          = "branch not found among listed branches"
	branchProtectedMessageConstant          = "branch is on the skip list"
	listBranchesErrorTemplateConstant       = "failed to list branches: %w"
	branchSelectionErrorTemplateConstant    = "%s: %w"
	branchDeletionErrorTemplateConstant     = "%s: %w"
	confirmationErrorTemplateConstant       = "failed to confirm deletion of %s: %w"
	confirmationPromptTemplateConstant      = "Delete branch %s? [y/N] "
	progressLabelTemplateConstant           = "Deleting %s"
	branchesListedLogMessageConstant        = "Listed branches"
	branchDryRunLogMessageConstant          = "Skipping deletion in dry run"
	branchDeletedLogMessageConstant         = "Deleted branch"
	branchDeletionFailedLogMessageConstant  = "Branch deletion failed"
	branchDeclinedLogMessageConstant        = "Branch deletion declined"
	branchLogFieldConstant                  = "branch"
	branchTypeLogFieldConstant              = "type"
	branchCountLogFieldConstant             = "count"
	filterLogFieldConstant                  = "filter"
	pushTimeoutLogFieldConstant             = "push_timeout"
	repositoryIdentifierLogFieldConstant    = "repository"
	repositoryIdentifierUnavailableConstant = ""
)

// ErrRepositoryNotConfigured indicates the repository dependency was missing.
var ErrRepositoryNotConfigured = errors.New(repositoryMissingMessageConstant)

// ErrPrompterNotConfigured indicates a confirmation was needed but no prompter was supplied.
var ErrPrompterNotConfigured = errors.New(prompterMissingMessageConstant)

// ErrBranchNotListed indicates a requested branch is absent from the current listing.
var ErrBranchNotListed = errors.New(branchNotListedMessageConstant)

// ErrBranchProtected indicates a requested branch is on the skip list.
var ErrBranchProtected = errors.New(branchProtectedMessageConstant)

// BranchRepository is the repository surface the service relies on.
type BranchRepository interface {
	ListBranches(options gitrepo.ListOptions) ([]gitrepo.Branch, error)
	DeleteBranch(executionContext context.Context, branch gitrepo.Branch, options gitrepo.DeleteOptions) error
}

// Dependencies enumerates collaborators required by the service.
type Dependencies struct {
	Repository         BranchRepository
	CredentialProvider gitrepo.CredentialProvider
	Prompter           ConfirmationPrompter
	Observer           ui.BranchEventObserver
	Progress           ProgressIndicator
	Logger             *zap.Logger
}

// SelectionOptions narrows which branches are listed.
type SelectionOptions struct {
	Filter gitrepo.BranchType
	Skip   []string
	Strict bool
}

// DeletionOptions controls how selected branches are deleted.
type DeletionOptions struct {
	DryRun      bool
	AssumeYes   bool
	PushTimeout time.Duration
}

// DeletionSummary records the outcome for every branch handed to DeleteBranches.
type DeletionSummary struct {
	Deleted  []string
	Planned  []string
	Declined []string
	Failed   []string
}

// Service lists and deletes branches of one repository.
type Service struct {
	repository         BranchRepository
	credentialProvider gitrepo.CredentialProvider
	prompter           ConfirmationPrompter
	observer           ui.BranchEventObserver
	progress           ProgressIndicator
	logger             *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Repository == nil {
		return nil, ErrRepositoryNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	progress := dependencies.Progress
	if progress == nil {
		progress = NoopProgressIndicator{}
	}

	return &Service{
		repository:         dependencies.Repository,
		credentialProvider: dependencies.CredentialProvider,
		prompter:           dependencies.Prompter,
		observer:           dependencies.Observer,
		progress:           progress,
		logger:             logger.With(zap.String(repositoryIdentifierLogFieldConstant, repositoryIdentifier(dependencies.Repository))),
	}, nil
}

// List returns the selected branches oldest first.
func (service *Service) List(selection SelectionOptions) ([]gitrepo.Branch, error) {
	failurePolicy := gitrepo.PeelFailureSkip
	if selection.Strict {
		failurePolicy = gitrepo.PeelFailureAbort
	}

	branches, listError := service.repository.ListBranches(gitrepo.ListOptions{
		Filter:        selection.Filter,
		Skip:          selection.Skip,
		FailurePolicy: failurePolicy,
	})
	if listError != nil {
		return nil, fmt.Errorf(listBranchesErrorTemplateConstant, listError)
	}

	service.logger.Debug(branchesListedLogMessageConstant,
		zap.Stringer(filterLogFieldConstant, selection.Filter),
		zap.Int(branchCountLogFieldConstant, len(branches)),
	)
	return branches, nil
}

// Resolve maps branch names to listed branches, preserving the requested order.
// Every unknown or protected name is reported and nothing is returned in that case.
func (service *Service) Resolve(selection SelectionOptions, names []string) ([]gitrepo.Branch, error) {
	listedBranches, listError := service.List(selection)
	if listError != nil {
		return nil, listError
	}

	resolved := make([]gitrepo.Branch, 0, len(names))
	var selectionErrors []error
	for _, name := range names {
		if slices.ContainsFunc(resolved, func(branch gitrepo.Branch) bool { return branch.Name == name }) {
			continue
		}
		if slices.Contains(selection.Skip, name) {
			selectionErrors = append(selectionErrors, fmt.Errorf(branchSelectionErrorTemplateConstant, name, ErrBranchProtected))
			continue
		}
		branchIndex := slices.IndexFunc(listedBranches, func(branch gitrepo.Branch) bool { return branch.Name == name })
		if branchIndex < 0 {
			selectionErrors = append(selectionErrors, fmt.Errorf(branchSelectionErrorTemplateConstant, name, ErrBranchNotListed))
			continue
		}
		resolved = append(resolved, listedBranches[branchIndex])
	}

	if len(selectionErrors) > 0 {
		return nil, errors.Join(selectionErrors...)
	}
	return resolved, nil
}

// DeleteBranches confirms and deletes each branch in turn, continuing past failures.
// The returned error joins every per-branch failure; a prompt failure stops the run.
func (service *Service) DeleteBranches(executionContext context.Context, branches []gitrepo.Branch, options DeletionOptions) (DeletionSummary, error) {
	summary := DeletionSummary{}
	var deletionErrors []error

	for _, branch := range branches {
		if options.DryRun {
			service.notifyPlanned(branch)
			summary.Planned = append(summary.Planned, branch.Name)
			continue
		}

		if !options.AssumeYes {
			confirmed, confirmationError := service.confirm(branch)
			if confirmationError != nil {
				deletionErrors = append(deletionErrors, confirmationError)
				return summary, errors.Join(deletionErrors...)
			}
			if !confirmed {
				service.logger.Info(branchDeclinedLogMessageConstant, branchLogFields(branch)...)
				service.notifyDeclined(branch)
				summary.Declined = append(summary.Declined, branch.Name)
				continue
			}
		}

		service.notifyStarted(branch)
		service.progress.Start(fmt.Sprintf(progressLabelTemplateConstant, branch.Name))
		deletionError := service.DeleteBranch(executionContext, branch, options)
		service.progress.Stop()

		if deletionError != nil {
			service.notifyFailed(branch, deletionError)
			summary.Failed = append(summary.Failed, branch.Name)
			deletionErrors = append(deletionErrors, fmt.Errorf(branchDeletionErrorTemplateConstant, branch.Name, deletionError))
			continue
		}
		service.notifyCompleted(branch)
		summary.Deleted = append(summary.Deleted, branch.Name)
	}

	return summary, errors.Join(deletionErrors...)
}

// DeleteBranch deletes a single branch without confirmation, bounding the remote push by
// options.PushTimeout when it is positive. Dry runs only log.
func (service *Service) DeleteBranch(executionContext context.Context, branch gitrepo.Branch, options DeletionOptions) error {
	if options.DryRun {
		service.logger.Info(branchDryRunLogMessageConstant, branchLogFields(branch)...)
		return nil
	}

	if executionContext == nil {
		executionContext = context.Background()
	}
	if options.PushTimeout > 0 {
		var cancel context.CancelFunc
		executionContext, cancel = context.WithTimeout(executionContext, options.PushTimeout)
		defer cancel()
	}

	deletionError := service.repository.DeleteBranch(executionContext, branch, gitrepo.DeleteOptions{CredentialProvider: service.credentialProvider})
	if deletionError != nil {
		service.logger.Warn(branchDeletionFailedLogMessageConstant, append(branchLogFields(branch), zap.Error(deletionError))...)
		return deletionError
	}

	service.logger.Info(branchDeletedLogMessageConstant, append(branchLogFields(branch), zap.Duration(pushTimeoutLogFieldConstant, options.PushTimeout))...)
	return nil
}

func (service *Service) confirm(branch gitrepo.Branch) (bool, error) {
	if service.prompter == nil {
		return false, fmt.Errorf(confirmationErrorTemplateConstant, branch.Name, ErrPrompterNotConfigured)
	}
	confirmed, promptError := service.prompter.Confirm(fmt.Sprintf(confirmationPromptTemplateConstant, branch.Name))
	if promptError != nil {
		return false, fmt.Errorf(confirmationErrorTemplateConstant, branch.Name, promptError)
	}
	return confirmed, nil
}

func (service *Service) notifyStarted(branch gitrepo.Branch) {
	if service.observer != nil {
		service.observer.BranchDeletionStarted(branch)
	}
}

func (service *Service) notifyCompleted(branch gitrepo.Branch) {
	if service.observer != nil {
		service.observer.BranchDeletionCompleted(branch)
	}
}

func (service *Service) notifyFailed(branch gitrepo.Branch, failure error) {
	if service.observer != nil {
		service.observer.BranchDeletionFailed(branch, failure)
	}
}

func (service *Service) notifyPlanned(branch gitrepo.Branch) {
	if service.observer != nil {
		service.observer.BranchDeletionPlanned(branch)
	}
}

func (service *Service) notifyDeclined(branch gitrepo.Branch) {
	if service.observer != nil {
		service.observer.BranchDeletionDeclined(branch)
	}
}

func branchLogFields(branch gitrepo.Branch) []zap.Field {
	return []zap.Field{
		zap.String(branchLogFieldConstant, branch.Name),
		zap.Stringer(branchTypeLogFieldConstant, branch.Type),
	}
}

func repositoryIdentifier(repository BranchRepository) string {
	if identified, hasIdentifier := repository.(interface{ Identifier() string }); hasIdentifier {
		return identified.Identifier()
	}
	return repositoryIdentifierUnavailableConstant
}
