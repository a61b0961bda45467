package branches_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/temirov/branchsweep/internal/gitrepo"
)

const (
	testRepositoryIdentifierConstant = "/tmp/branchsweep-repository"
	testAuthorNameConstant           = "Branch Sweeper"
	testAuthorEmailConstant          = "sweeper@example.com"
	testTrackedFileNameConstant      = "README.md"
)

var testBaseTime = time.Date(2023, time.November, 5, 8, 30, 0, 0, time.UTC)

type recordedDeletion struct {
	branch      gitrepo.Branch
	options     gitrepo.DeleteOptions
	hasDeadline bool
}

type fakeBranchRepository struct {
	branches            []gitrepo.Branch
	listError           error
	deletionErrors      map[string]error
	receivedListOptions []gitrepo.ListOptions
	deletions           []recordedDeletion
}

func (repository *fakeBranchRepository) Identifier() string {
	return testRepositoryIdentifierConstant
}

func (repository *fakeBranchRepository) ListBranches(options gitrepo.ListOptions) ([]gitrepo.Branch, error) {
	repository.receivedListOptions = append(repository.receivedListOptions, options)
	if repository.listError != nil {
		return nil, repository.listError
	}
	listed := make([]gitrepo.Branch, 0, len(repository.branches))
	for _, branch := range repository.branches {
		skipped := false
		for _, skipName := range options.Skip {
			if skipName == branch.Name {
				skipped = true
			}
		}
		if !skipped {
			listed = append(listed, branch)
		}
	}
	return listed, nil
}

func (repository *fakeBranchRepository) DeleteBranch(executionContext context.Context, branch gitrepo.Branch, options gitrepo.DeleteOptions) error {
	_, hasDeadline := executionContext.Deadline()
	repository.deletions = append(repository.deletions, recordedDeletion{branch: branch, options: options, hasDeadline: hasDeadline})
	return repository.deletionErrors[branch.Name]
}

func (repository *fakeBranchRepository) deletedNames() []string {
	names := make([]string, 0, len(repository.deletions))
	for _, deletion := range repository.deletions {
		names = append(names, deletion.branch.Name)
	}
	return names
}

func newFakeBranchRepository() *fakeBranchRepository {
	return &fakeBranchRepository{
		branches: []gitrepo.Branch{
			gitrepo.NewBranch("stale-fix", "Fix flaky test\n\nDetails.", testBaseTime, gitrepo.BranchTypeLocal),
			gitrepo.NewBranch("origin/feature-x", "Add feature x\n", testBaseTime.Add(time.Hour), gitrepo.BranchTypeRemote),
			gitrepo.NewBranch("feature-x", "Add feature x\n", testBaseTime.Add(2*time.Hour), gitrepo.BranchTypeLocal),
			gitrepo.NewBranch("main", "Release\n", testBaseTime.Add(3*time.Hour), gitrepo.BranchTypeLocal),
		},
		deletionErrors: map[string]error{},
	}
}

type scriptedPrompter struct {
	responses []bool
	promptErr error
	prompts   []string
}

func (prompter *scriptedPrompter) Confirm(prompt string) (bool, error) {
	prompter.prompts = append(prompter.prompts, prompt)
	if prompter.promptErr != nil {
		return false, prompter.promptErr
	}
	if len(prompter.responses) == 0 {
		return false, nil
	}
	response := prompter.responses[0]
	prompter.responses = prompter.responses[1:]
	return response, nil
}

type recordingObserver struct {
	events []string
}

func (observer *recordingObserver) BranchDeletionStarted(branch gitrepo.Branch) {
	observer.events = append(observer.events, "started:"+branch.Name)
}

func (observer *recordingObserver) BranchDeletionCompleted(branch gitrepo.Branch) {
	observer.events = append(observer.events, "completed:"+branch.Name)
}

func (observer *recordingObserver) BranchDeletionFailed(branch gitrepo.Branch, failure error) {
	observer.events = append(observer.events, "failed:"+branch.Name)
}

func (observer *recordingObserver) BranchDeletionPlanned(branch gitrepo.Branch) {
	observer.events = append(observer.events, "planned:"+branch.Name)
}

func (observer *recordingObserver) BranchDeletionDeclined(branch gitrepo.Branch) {
	observer.events = append(observer.events, "declined:"+branch.Name)
}

type recordingProgress struct {
	labels  []string
	stopped int
}

func (progress *recordingProgress) Start(label string) {
	progress.labels = append(progress.labels, label)
}

func (progress *recordingProgress) Stop() {
	progress.stopped++
}

// initOnDiskRepository creates a repository with "stale" at an old commit and "fresh" plus master at a newer one.
func initOnDiskRepository(testInstance *testing.T) string {
	testInstance.Helper()

	repositoryPath := testInstance.TempDir()
	repository, initError := git.PlainInit(repositoryPath, false)
	require.NoError(testInstance, initError)

	worktree, worktreeError := repository.Worktree()
	require.NoError(testInstance, worktreeError)

	commitFile := func(content string, message string, when time.Time) plumbing.Hash {
		writeError := os.WriteFile(filepath.Join(repositoryPath, testTrackedFileNameConstant), []byte(content), 0o600)
		require.NoError(testInstance, writeError)
		_, addError := worktree.Add(testTrackedFileNameConstant)
		require.NoError(testInstance, addError)
		hash, commitError := worktree.Commit(message, &git.CommitOptions{
			Author: &object.Signature{Name: testAuthorNameConstant, Email: testAuthorEmailConstant, When: when},
		})
		require.NoError(testInstance, commitError)
		return hash
	}

	staleHash := commitFile("first\n", "Start stale work\n", testBaseTime)
	freshHash := commitFile("second\n", "Start fresh work\n", testBaseTime.Add(48*time.Hour))

	require.NoError(testInstance, repository.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName("stale"), staleHash)))
	require.NoError(testInstance, repository.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName("fresh"), freshHash)))

	return repositoryPath
}

func branchNames(branches []gitrepo.Branch) []string {
	names := make([]string, 0, len(branches))
	for _, branch := range branches {
		names = append(names, branch.Name)
	}
	return names
}
