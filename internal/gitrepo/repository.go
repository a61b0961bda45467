package gitrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"go.uber.org/zap"
)

const (
	gitDirectoryEnvironmentNameConstant = "GIT_DIR"
	repositoryLogFieldConstant          = "repository"
	repositoryOpenedMessageConstant     = "repository opened"
)

// RemotePusher pushes the provided options against a remote.
type RemotePusher func(executionContext context.Context, remote *git.Remote, options *git.PushOptions) error

// EnvironmentLookup resolves environment variables.
type EnvironmentLookup func(name string) (string, bool)

// WorkingDirectoryProvider resolves the current working directory.
type WorkingDirectoryProvider func() (string, error)

// Repository is an open repository handle. It is not safe for concurrent use.
type Repository struct {
	repository               *git.Repository
	identifier               string
	logger                   *zap.Logger
	remotePusher             RemotePusher
	environmentLookup        EnvironmentLookup
	workingDirectoryProvider WorkingDirectoryProvider
}

// Option customizes a Repository.
type Option func(*Repository)

// WithLogger attaches a logger for diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(repository *Repository) {
		if logger != nil {
			repository.logger = logger
		}
	}
}

// WithRemotePusher replaces the function used to push deletions to remotes.
func WithRemotePusher(pusher RemotePusher) Option {
	return func(repository *Repository) {
		if pusher != nil {
			repository.remotePusher = pusher
		}
	}
}

// WithEnvironmentLookup replaces the environment lookup used during discovery.
func WithEnvironmentLookup(lookup EnvironmentLookup) Option {
	return func(repository *Repository) {
		if lookup != nil {
			repository.environmentLookup = lookup
		}
	}
}

// WithWorkingDirectoryProvider replaces the working directory lookup used during discovery.
func WithWorkingDirectoryProvider(provider WorkingDirectoryProvider) Option {
	return func(repository *Repository) {
		if provider != nil {
			repository.workingDirectoryProvider = provider
		}
	}
}

// Open opens the repository at path exactly. An empty path discovers the
// repository from GIT_DIR or from the working directory and its ancestors.
func Open(path string, options ...Option) (*Repository, error) {
	repository := newRepository(options)

	trimmedPath := strings.TrimSpace(path)
	openPath := trimmedPath
	detectDotGit := false
	if len(openPath) == 0 {
		discoveredPath, discoveryError := repository.discoverPath()
		if discoveryError != nil {
			return nil, &OpenError{Path: trimmedPath, Cause: discoveryError}
		}
		openPath = discoveredPath
		detectDotGit = true
	}

	gitRepository, openError := git.PlainOpenWithOptions(openPath, &git.PlainOpenOptions{DetectDotGit: detectDotGit, EnableDotGitCommonDir: true})
	if openError != nil {
		if errors.Is(openError, git.ErrRepositoryNotExists) {
			openError = ErrRepositoryNotFound
		}
		return nil, &OpenError{Path: trimmedPath, Cause: openError}
	}

	repository.repository = gitRepository
	repository.identifier = resolveIdentifier(gitRepository, openPath)
	repository.logger.Debug(repositoryOpenedMessageConstant, zap.String(repositoryLogFieldConstant, repository.identifier))

	return repository, nil
}

// NewRepository wraps an already opened go-git repository under the given identifier.
func NewRepository(gitRepository *git.Repository, identifier string, options ...Option) *Repository {
	repository := newRepository(options)
	repository.repository = gitRepository
	repository.identifier = identifier
	return repository
}

// Identifier returns the value that ties enumerated branches to this handle.
func (repository *Repository) Identifier() string {
	return repository.identifier
}

// Git exposes the underlying go-git repository.
func (repository *Repository) Git() *git.Repository {
	return repository.repository
}

func newRepository(options []Option) *Repository {
	repository := &Repository{
		logger:                   zap.NewNop(),
		remotePusher:             pushToRemote,
		environmentLookup:        os.LookupEnv,
		workingDirectoryProvider: os.Getwd,
	}
	for _, option := range options {
		if option != nil {
			option(repository)
		}
	}
	return repository
}

func (repository *Repository) discoverPath() (string, error) {
	if gitDirectory, exists := repository.environmentLookup(gitDirectoryEnvironmentNameConstant); exists {
		trimmedGitDirectory := strings.TrimSpace(gitDirectory)
		if len(trimmedGitDirectory) > 0 {
			return trimmedGitDirectory, nil
		}
	}
	return repository.workingDirectoryProvider()
}

func resolveIdentifier(gitRepository *git.Repository, openPath string) string {
	if storage, isFilesystemStorage := gitRepository.Storer.(*filesystem.Storage); isFilesystemStorage {
		return filepath.Clean(storage.Filesystem().Root())
	}
	absolutePath, absoluteError := filepath.Abs(openPath)
	if absoluteError != nil {
		return openPath
	}
	return absolutePath
}

func pushToRemote(executionContext context.Context, remote *git.Remote, options *git.PushOptions) error {
	return remote.PushContext(executionContext, options)
}
