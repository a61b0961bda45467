package gitrepo

import (
	"fmt"
	"slices"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"go.uber.org/zap"
)

const (
	branchLogFieldConstant                 = "branch"
	referenceLogFieldConstant              = "reference"
	filterLogFieldConstant                 = "filter"
	branchCountLogFieldConstant            = "branch_count"
	skippedUnresolvableBranchMessage       = "skipping branch whose commit cannot be resolved"
	skippedSymbolicReferenceMessage        = "skipping symbolic reference"
	skippedExcludedBranchMessage           = "skipping excluded branch"
	branchIterationInterruptedMessage      = "branch iteration interrupted"
	branchesListedMessage                  = "branches listed"
	localBranchIteratorDescriptionConstant = "local branches"
	referenceIteratorDescriptionConstant   = "remote branches"
)

// PeelFailurePolicy selects how enumeration reacts to a branch whose commit cannot be resolved.
type PeelFailurePolicy int

// Supported peel failure policies.
const (
	// PeelFailureSkip drops the branch and logs a warning.
	PeelFailureSkip PeelFailurePolicy = iota
	// PeelFailureAbort stops enumeration and returns ErrCommitResolution.
	PeelFailureAbort
)

// ListOptions configures ListBranches.
type ListOptions struct {
	Filter        BranchType
	Skip          []string
	FailurePolicy PeelFailurePolicy
}

// ListBranches enumerates branches admitted by the filter, minus the skip list,
// ordered by commit time with the oldest first.
func (repository *Repository) ListBranches(options ListOptions) ([]Branch, error) {
	skipSet := make(map[string]struct{}, len(options.Skip))
	for _, skippedName := range options.Skip {
		skipSet[skippedName] = struct{}{}
	}

	branches := make([]Branch, 0)

	if options.Filter.IncludesLocal() {
		localBranches, localError := repository.collectLocalBranches(skipSet, options.FailurePolicy)
		if localError != nil {
			return nil, localError
		}
		branches = append(branches, localBranches...)
	}

	if options.Filter.IncludesRemote() {
		remoteBranches, remoteError := repository.collectRemoteBranches(skipSet, options.FailurePolicy)
		if remoteError != nil {
			return nil, remoteError
		}
		branches = append(branches, remoteBranches...)
	}

	slices.SortStableFunc(branches, CompareByCommitTime)

	repository.logger.Debug(
		branchesListedMessage,
		zap.String(repositoryLogFieldConstant, repository.identifier),
		zap.String(filterLogFieldConstant, options.Filter.String()),
		zap.Int(branchCountLogFieldConstant, len(branches)),
	)

	return branches, nil
}

func (repository *Repository) collectLocalBranches(skipSet map[string]struct{}, policy PeelFailurePolicy) ([]Branch, error) {
	iterator, iteratorError := repository.repository.Branches()
	if iteratorError != nil {
		return nil, fmt.Errorf(branchIterationErrorTemplateConstant, ErrBranchIteration, iteratorError)
	}
	defer iterator.Close()

	collected := make([]Branch, 0)
	var abortError error
	iterationError := iterator.ForEach(func(reference *plumbing.Reference) error {
		branch, admitted, branchError := repository.buildBranch(reference, BranchTypeLocal, skipSet, policy)
		if branchError != nil {
			abortError = branchError
			return branchError
		}
		if admitted {
			collected = append(collected, branch)
		}
		return nil
	})
	if abortError != nil {
		return nil, abortError
	}
	repository.logIterationInterruption(localBranchIteratorDescriptionConstant, iterationError)

	return collected, nil
}

func (repository *Repository) collectRemoteBranches(skipSet map[string]struct{}, policy PeelFailurePolicy) ([]Branch, error) {
	iterator, iteratorError := repository.repository.References()
	if iteratorError != nil {
		return nil, fmt.Errorf(branchIterationErrorTemplateConstant, ErrBranchIteration, iteratorError)
	}
	defer iterator.Close()

	collected := make([]Branch, 0)
	var abortError error
	iterationError := iterator.ForEach(func(reference *plumbing.Reference) error {
		if !reference.Name().IsRemote() {
			return nil
		}
		branch, admitted, branchError := repository.buildBranch(reference, BranchTypeRemote, skipSet, policy)
		if branchError != nil {
			abortError = branchError
			return branchError
		}
		if admitted {
			collected = append(collected, branch)
		}
		return nil
	})
	if abortError != nil {
		return nil, abortError
	}
	repository.logIterationInterruption(referenceIteratorDescriptionConstant, iterationError)

	return collected, nil
}

// buildBranch converts a reference into a Branch. The boolean result is false when the branch is dropped.
func (repository *Repository) buildBranch(reference *plumbing.Reference, branchType BranchType, skipSet map[string]struct{}, policy PeelFailurePolicy) (Branch, bool, error) {
	branchName := reference.Name().Short()

	if reference.Type() != plumbing.HashReference {
		repository.logger.Debug(skippedSymbolicReferenceMessage, zap.String(referenceLogFieldConstant, reference.Name().String()))
		return Branch{}, false, nil
	}

	if _, skipped := skipSet[branchName]; skipped {
		repository.logger.Debug(skippedExcludedBranchMessage, zap.String(branchLogFieldConstant, branchName))
		return Branch{}, false, nil
	}

	commit, commitError := repository.peelToCommit(reference.Hash())
	if commitError != nil {
		if policy == PeelFailureAbort {
			return Branch{}, false, fmt.Errorf(commitResolutionErrorTemplateConstant, ErrCommitResolution, branchName, commitError)
		}
		repository.logger.Warn(
			skippedUnresolvableBranchMessage,
			zap.String(branchLogFieldConstant, branchName),
			zap.Error(commitError),
		)
		return Branch{}, false, nil
	}

	return Branch{
		Name:                 branchName,
		Message:              commit.Message,
		CommitTime:           normalizeCommitTime(commit.Committer.When),
		Type:                 branchType,
		repositoryIdentifier: repository.identifier,
		referenceName:        reference.Name(),
	}, true, nil
}

func (repository *Repository) peelToCommit(hash plumbing.Hash) (*object.Commit, error) {
	commit, commitError := repository.repository.CommitObject(hash)
	if commitError == nil {
		return commit, nil
	}

	tag, tagError := repository.repository.TagObject(hash)
	if tagError != nil {
		return nil, commitError
	}
	return tag.Commit()
}

func (repository *Repository) logIterationInterruption(description string, iterationError error) {
	if iterationError == nil {
		return
	}
	repository.logger.Warn(
		branchIterationInterruptedMessage,
		zap.String(referenceLogFieldConstant, description),
		zap.Error(iterationError),
	)
}
