// Package gitrepo wraps go-git to enumerate, order, and delete repository branches.
//
// Repository opens a repository from an explicit path or from the environment,
// ListBranches returns local and remote-tracking branches ordered by their last
// commit time, and DeleteBranch removes a branch locally and, for
// remote-tracking branches, pushes a deletion to the owning remote using
// credentials supplied by a CredentialProvider.
package gitrepo
