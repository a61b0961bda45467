package gitrepo

import (
	"fmt"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testRepositoryIdentifierConstant = "memory://fixture"
	testAuthorNameConstant           = "Fixture Author"
	testAuthorEmailConstant          = "fixture@example.com"
	testFixtureFileNameConstant      = "fixture.txt"
	testOriginRemoteNameConstant     = "origin"
	testOriginRemoteURLConstant      = "git@example.com:owner/repository.git"
)

var testBaseTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

type repositoryFixture struct {
	testingInstance *testing.T
	gitRepository   *git.Repository
	filesystem      billy.Filesystem
	commitCounter   int
}

func newRepositoryFixture(testingInstance *testing.T) *repositoryFixture {
	testingInstance.Helper()

	filesystem := memfs.New()
	gitRepository, initError := git.Init(memory.NewStorage(), filesystem)
	require.NoError(testingInstance, initError)

	return &repositoryFixture{testingInstance: testingInstance, gitRepository: gitRepository, filesystem: filesystem}
}

func (fixture *repositoryFixture) repository(options ...Option) *Repository {
	return NewRepository(fixture.gitRepository, testRepositoryIdentifierConstant, options...)
}

func (fixture *repositoryFixture) loggedRepository(logger *zap.Logger, options ...Option) *Repository {
	return fixture.repository(append([]Option{WithLogger(logger)}, options...)...)
}

// commit records a commit whose committer timestamp is when.
func (fixture *repositoryFixture) commit(message string, when time.Time) plumbing.Hash {
	fixture.testingInstance.Helper()

	fixture.commitCounter++
	file, createError := fixture.filesystem.Create(testFixtureFileNameConstant)
	require.NoError(fixture.testingInstance, createError)
	_, writeError := fmt.Fprintf(file, "revision %d\n", fixture.commitCounter)
	require.NoError(fixture.testingInstance, writeError)
	require.NoError(fixture.testingInstance, file.Close())

	worktree, worktreeError := fixture.gitRepository.Worktree()
	require.NoError(fixture.testingInstance, worktreeError)
	_, addError := worktree.Add(testFixtureFileNameConstant)
	require.NoError(fixture.testingInstance, addError)

	signature := &object.Signature{Name: testAuthorNameConstant, Email: testAuthorEmailConstant, When: when}
	hash, commitError := worktree.Commit(message, &git.CommitOptions{Author: signature, Committer: signature})
	require.NoError(fixture.testingInstance, commitError)
	return hash
}

func (fixture *repositoryFixture) localBranch(name string, hash plumbing.Hash) {
	fixture.testingInstance.Helper()
	reference := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), hash)
	require.NoError(fixture.testingInstance, fixture.gitRepository.Storer.SetReference(reference))
}

func (fixture *repositoryFixture) remoteBranch(remoteName string, name string, hash plumbing.Hash) {
	fixture.testingInstance.Helper()
	reference := plumbing.NewHashReference(plumbing.NewRemoteReferenceName(remoteName, name), hash)
	require.NoError(fixture.testingInstance, fixture.gitRepository.Storer.SetReference(reference))
}

func (fixture *repositoryFixture) remote(name string, url string) {
	fixture.testingInstance.Helper()
	_, createError := fixture.gitRepository.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}})
	require.NoError(fixture.testingInstance, createError)
}

func (fixture *repositoryFixture) referenceExists(name plumbing.ReferenceName) bool {
	_, referenceError := fixture.gitRepository.Reference(name, false)
	return referenceError == nil
}

func branchNames(branches []Branch) []string {
	names := make([]string, 0, len(branches))
	for _, branch := range branches {
		names = append(names, branch.Name)
	}
	return names
}
