package gitrepo

import (
	"errors"
	"fmt"
)

const (
	repositoryNotFoundMessageConstant        = "git repository not found"
	branchIterationMessageConstant           = "unable to iterate branches"
	commitResolutionMessageConstant          = "unable to resolve branch commit"
	branchNotFoundMessageConstant            = "branch reference not found"
	foreignBranchMessageConstant             = "branch belongs to a different repository"
	checkedOutBranchMessageConstant          = "branch is checked out"
	missingRemoteSeparatorMessageConstant    = "remote branch name must have the form <remote>/<branch>"
	remoteNotFoundMessageConstant            = "remote not found"
	remoteURLMissingMessageConstant          = "remote has no configured url"
	noCredentialsMessageConstant             = "no credentials found"
	openErrorTemplateConstant                = "unable to open repository %q: %v"
	openErrorDiscoveredLocationConstant      = "<environment>"
	pushErrorTemplateConstant                = "push of %s to remote %q failed: %v"
	localReferenceDeleteTemplateConstant     = "unable to delete local reference %s: %w"
	remoteLookupErrorTemplateConstant        = "%w: %s"
	remoteBranchNameErrorTemplateConstant    = "%w: %q"
	credentialResolutionTemplateConstant     = "unable to resolve credentials for %s: %w"
	commitResolutionErrorTemplateConstant    = "%w %s: %v"
	branchIterationErrorTemplateConstant     = "%w: %v"
	branchNotFoundErrorTemplateConstant      = "%w: %s"
	foreignBranchErrorTemplateConstant       = "%w: %s"
	checkedOutBranchErrorTemplateConstant    = "%w: %s"
	branchConfigurationErrorTemplateConstant = "unable to remove configuration of branch %s: %w"
	privateKeyLoadErrorTemplateConstant      = "unable to load private key %q: %w"
	remoteEndpointParseErrorTemplateConstant = "unable to parse remote url %q: %w"
)

// ErrRepositoryNotFound indicates no repository exists at the requested or discovered location.
var ErrRepositoryNotFound = errors.New(repositoryNotFoundMessageConstant)

// ErrBranchIteration indicates the branch iterator itself could not be constructed.
var ErrBranchIteration = errors.New(branchIterationMessageConstant)

// ErrCommitResolution indicates a branch reference could not be peeled to a commit.
var ErrCommitResolution = errors.New(commitResolutionMessageConstant)

// ErrBranchNotFound indicates the branch reference no longer exists.
var ErrBranchNotFound = errors.New(branchNotFoundMessageConstant)

// ErrForeignBranch indicates a branch was enumerated from another repository handle.
var ErrForeignBranch = errors.New(foreignBranchMessageConstant)

// ErrBranchCheckedOut indicates HEAD points at the branch, so deleting it would leave HEAD dangling.
var ErrBranchCheckedOut = errors.New(checkedOutBranchMessageConstant)

// ErrMissingRemoteSeparator indicates a remote branch name lacks the remote prefix.
var ErrMissingRemoteSeparator = errors.New(missingRemoteSeparatorMessageConstant)

// ErrRemoteNotFound indicates the remote named by a remote branch is not configured.
var ErrRemoteNotFound = errors.New(remoteNotFoundMessageConstant)

// ErrRemoteURLMissing indicates the remote has no url to push to.
var ErrRemoteURLMissing = errors.New(remoteURLMissingMessageConstant)

// ErrNoCredentials indicates the credential provider declined every requested credential kind.
var ErrNoCredentials = errors.New(noCredentialsMessageConstant)

// OpenError reports a failure to open or discover a repository.
type OpenError struct {
	Path  string
	Cause error
}

// Error describes the open failure.
func (openError *OpenError) Error() string {
	location := openError.Path
	if len(location) == 0 {
		location = openErrorDiscoveredLocationConstant
	}
	return fmt.Sprintf(openErrorTemplateConstant, location, openError.Cause)
}

// Unwrap exposes the underlying cause.
func (openError *OpenError) Unwrap() error {
	return openError.Cause
}

// PushError reports a failed deletion push against a remote.
type PushError struct {
	RemoteName string
	RefSpec    string
	Cause      error
}

// Error describes the push failure.
func (pushError *PushError) Error() string {
	return fmt.Sprintf(pushErrorTemplateConstant, pushError.RefSpec, pushError.RemoteName, pushError.Cause)
}

// Unwrap exposes the underlying cause.
func (pushError *PushError) Unwrap() error {
	return pushError.Cause
}
