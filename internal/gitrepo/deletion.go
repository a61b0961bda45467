package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"go.uber.org/zap"
)

const (
	deletionRefSpecTemplateConstant    = "+:refs/heads/%s"
	forceRefSpecPrefixConstant         = "+"
	remoteLogFieldConstant             = "remote"
	refSpecLogFieldConstant            = "refspec"
	credentialKindsLogFieldConstant    = "credential_kinds"
	localReferenceDeletedMessage       = "local branch reference deleted"
	remoteDeletionPushMessage          = "pushing remote branch deletion"
	remoteBranchAlreadyAbsentMessage   = "remote branch already absent"
	authenticationChallengedMessage    = "remote requested authentication"
	branchConfigurationRemovedMessage  = "branch configuration removed"
	branchConfigurationSectionConstant = "branch"
)

// DeleteOptions configures DeleteBranch.
type DeleteOptions struct {
	CredentialProvider CredentialProvider
}

// DeletionRefSpec returns the force-push refspec that deletes branchName on a remote.
func DeletionRefSpec(branchName string) string {
	return fmt.Sprintf(deletionRefSpecTemplateConstant, branchName)
}

// DeleteBranch removes the branch reference and, for remote-tracking branches,
// pushes the deletion to the owning remote. The local removal is not rolled back
// when the push fails.
func (repository *Repository) DeleteBranch(executionContext context.Context, branch Branch, options DeleteOptions) error {
	if branch.repositoryIdentifier != repository.identifier {
		return fmt.Errorf(foreignBranchErrorTemplateConstant, ErrForeignBranch, branch.Name)
	}

	referenceName := branch.referenceName
	if _, referenceError := repository.repository.Reference(referenceName, false); referenceError != nil {
		if errors.Is(referenceError, plumbing.ErrReferenceNotFound) {
			return fmt.Errorf(branchNotFoundErrorTemplateConstant, ErrBranchNotFound, branch.Name)
		}
		return fmt.Errorf(localReferenceDeleteTemplateConstant, referenceName, referenceError)
	}

	if branch.Type == BranchTypeRemote {
		if _, _, valid := SplitRemoteBranchName(branch.Name); !valid {
			return fmt.Errorf(remoteBranchNameErrorTemplateConstant, ErrMissingRemoteSeparator, branch.Name)
		}
	}

	checkedOut, headError := repository.isCheckedOut(referenceName)
	if headError != nil {
		return fmt.Errorf(localReferenceDeleteTemplateConstant, referenceName, headError)
	}
	if checkedOut {
		return fmt.Errorf(checkedOutBranchErrorTemplateConstant, ErrBranchCheckedOut, branch.Name)
	}

	if removeError := repository.repository.Storer.RemoveReference(referenceName); removeError != nil {
		return fmt.Errorf(localReferenceDeleteTemplateConstant, referenceName, removeError)
	}
	if branch.Type == BranchTypeLocal {
		if configurationError := repository.removeBranchConfiguration(branch.Name); configurationError != nil {
			return fmt.Errorf(branchConfigurationErrorTemplateConstant, branch.Name, configurationError)
		}
	}
	repository.logger.Debug(localReferenceDeletedMessage, zap.String(branchLogFieldConstant, branch.Name))

	if branch.Type != BranchTypeRemote {
		return nil
	}

	return repository.pushRemoteDeletion(executionContext, branch.Name, options)
}

// isCheckedOut reports whether HEAD is a symbolic reference to referenceName.
func (repository *Repository) isCheckedOut(referenceName plumbing.ReferenceName) (bool, error) {
	head, headError := repository.repository.Storer.Reference(plumbing.HEAD)
	if headError != nil {
		if errors.Is(headError, plumbing.ErrReferenceNotFound) {
			return false, nil
		}
		return false, headError
	}
	return head.Type() == plumbing.SymbolicReference && head.Target() == referenceName, nil
}

// removeBranchConfiguration drops the [branch "name"] section, if any.
func (repository *Repository) removeBranchConfiguration(name string) error {
	configuration, configurationError := repository.repository.Config()
	if configurationError != nil {
		return configurationError
	}
	if _, exists := configuration.Branches[name]; !exists {
		return nil
	}
	delete(configuration.Branches, name)
	if configuration.Raw != nil {
		configuration.Raw.RemoveSubsection(branchConfigurationSectionConstant, name)
	}
	if storeError := repository.repository.Storer.SetConfig(configuration); storeError != nil {
		return storeError
	}
	repository.logger.Debug(branchConfigurationRemovedMessage, zap.String(branchLogFieldConstant, name))
	return nil
}

func (repository *Repository) pushRemoteDeletion(executionContext context.Context, branchName string, options DeleteOptions) error {
	remoteName, remoteBranchName, valid := SplitRemoteBranchName(branchName)
	if !valid {
		return fmt.Errorf(remoteBranchNameErrorTemplateConstant, ErrMissingRemoteSeparator, branchName)
	}

	remote, remoteError := repository.repository.Remote(remoteName)
	if remoteError != nil {
		if errors.Is(remoteError, git.ErrRemoteNotFound) {
			return fmt.Errorf(remoteLookupErrorTemplateConstant, ErrRemoteNotFound, remoteName)
		}
		return remoteError
	}

	remoteURLs := remote.Config().URLs
	if len(remoteURLs) == 0 {
		return fmt.Errorf(remoteLookupErrorTemplateConstant, ErrRemoteURLMissing, remoteName)
	}

	refSpec := DeletionRefSpec(remoteBranchName)
	pushOptions := &git.PushOptions{
		RemoteName: remoteName,
		RefSpecs:   []config.RefSpec{config.RefSpec(strings.TrimPrefix(refSpec, forceRefSpecPrefixConstant))},
		Force:      strings.HasPrefix(refSpec, forceRefSpecPrefixConstant),
	}

	credentialRequest, requestError := credentialRequestForURL(remoteURLs[0])
	if requestError != nil {
		return &PushError{RemoteName: remoteName, RefSpec: refSpec, Cause: requestError}
	}
	// HTTP remotes are tried anonymously first; credentials are resolved once the server asks.
	deferCredentials := credentialRequest != nil && !credentialRequest.requiresUpfrontCredentials()
	if credentialRequest != nil && !deferCredentials {
		authMethod, credentialError := resolveCredential(*credentialRequest, remoteName, refSpec, options)
		if credentialError != nil {
			return credentialError
		}
		pushOptions.Auth = authMethod
	}

	repository.logger.Info(
		remoteDeletionPushMessage,
		zap.String(remoteLogFieldConstant, remoteName),
		zap.String(refSpecLogFieldConstant, refSpec),
		zap.Stringers(credentialKindsLogFieldConstant, credentialKinds(credentialRequest)),
	)

	if executionContext == nil {
		executionContext = context.Background()
	}
	pushError := repository.remotePusher(executionContext, remote, pushOptions)
	if deferCredentials && isAuthenticationChallenge(pushError) {
		repository.logger.Debug(authenticationChallengedMessage, zap.String(remoteLogFieldConstant, remoteName))
		authMethod, credentialError := resolveCredential(*credentialRequest, remoteName, refSpec, options)
		if credentialError != nil {
			return credentialError
		}
		pushOptions.Auth = authMethod
		pushError = repository.remotePusher(executionContext, remote, pushOptions)
	}
	if errors.Is(pushError, git.NoErrAlreadyUpToDate) {
		repository.logger.Debug(remoteBranchAlreadyAbsentMessage, zap.String(remoteLogFieldConstant, remoteName), zap.String(refSpecLogFieldConstant, refSpec))
		return nil
	}
	if pushError != nil {
		return &PushError{RemoteName: remoteName, RefSpec: refSpec, Cause: pushError}
	}

	return nil
}

func resolveCredential(request CredentialRequest, remoteName string, refSpec string, options DeleteOptions) (transport.AuthMethod, error) {
	if options.CredentialProvider == nil {
		return nil, &PushError{RemoteName: remoteName, RefSpec: refSpec, Cause: fmt.Errorf(credentialResolutionTemplateConstant, remoteName, ErrNoCredentials)}
	}
	authMethod, credentialError := options.CredentialProvider.ProvideCredential(request)
	if credentialError != nil {
		return nil, &PushError{RemoteName: remoteName, RefSpec: refSpec, Cause: fmt.Errorf(credentialResolutionTemplateConstant, remoteName, credentialError)}
	}
	return authMethod, nil
}

func isAuthenticationChallenge(pushError error) bool {
	return errors.Is(pushError, transport.ErrAuthenticationRequired) || errors.Is(pushError, transport.ErrAuthorizationFailed)
}

func credentialKinds(request *CredentialRequest) []fmt.Stringer {
	if request == nil {
		return nil
	}
	kinds := make([]fmt.Stringer, 0, len(request.AllowedKinds))
	for _, kind := range request.AllowedKinds {
		kinds = append(kinds, kind)
	}
	return kinds
}
