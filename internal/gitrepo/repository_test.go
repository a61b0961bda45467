package gitrepo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/require"
)

func initOnDiskRepository(testingInstance *testing.T) string {
	testingInstance.Helper()
	repositoryPath := testingInstance.TempDir()
	_, initError := git.PlainInit(repositoryPath, false)
	require.NoError(testingInstance, initError)
	return repositoryPath
}

func noEnvironment(string) (string, bool) {
	return "", false
}

func TestOpenExplicitPath(testInstance *testing.T) {
	repositoryPath := initOnDiskRepository(testInstance)
	nestedPath := filepath.Join(repositoryPath, "nested", "directory")
	require.NoError(testInstance, os.MkdirAll(nestedPath, 0o755))

	rootRepository, rootError := Open(repositoryPath)
	require.NoError(testInstance, rootError)
	require.NotNil(testInstance, rootRepository.Git())

	_, nestedError := Open(nestedPath)
	require.ErrorIs(testInstance, nestedError, ErrRepositoryNotFound)

	var typedError *OpenError
	require.ErrorAs(testInstance, nestedError, &typedError)
	require.Equal(testInstance, nestedPath, typedError.Path)
}

func TestOpenDiscoversRepositoryFromNestedWorkingDirectory(testInstance *testing.T) {
	repositoryPath := initOnDiskRepository(testInstance)
	nestedPath := filepath.Join(repositoryPath, "nested", "directory")
	require.NoError(testInstance, os.MkdirAll(nestedPath, 0o755))

	rootRepository, rootError := Open(repositoryPath)
	require.NoError(testInstance, rootError)

	nestedRepository, nestedError := Open("", WithEnvironmentLookup(noEnvironment), WithWorkingDirectoryProvider(func() (string, error) {
		return nestedPath, nil
	}))
	require.NoError(testInstance, nestedError)
	require.Equal(testInstance, rootRepository.Identifier(), nestedRepository.Identifier())
}

func TestOpenDiscoversFromEnvironment(testInstance *testing.T) {
	repositoryPath := initOnDiskRepository(testInstance)
	unrelatedPath := testInstance.TempDir()

	testCases := []struct {
		name              string
		environment       EnvironmentLookup
		workingDirectory  string
		expectedOpenError bool
	}{
		{
			name:             "WorkingDirectory",
			environment:      noEnvironment,
			workingDirectory: repositoryPath,
		},
		{
			name: "GitDirectoryVariable",
			environment: func(name string) (string, bool) {
				if name == gitDirectoryEnvironmentNameConstant {
					return filepath.Join(repositoryPath, ".git"), true
				}
				return "", false
			},
			workingDirectory: unrelatedPath,
		},
		{
			name:              "NoRepository",
			environment:       noEnvironment,
			workingDirectory:  unrelatedPath,
			expectedOpenError: true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			repository, openError := Open(
				"",
				WithEnvironmentLookup(testCase.environment),
				WithWorkingDirectoryProvider(func() (string, error) { return testCase.workingDirectory, nil }),
			)
			if testCase.expectedOpenError {
				require.ErrorIs(testInstance, openError, ErrRepositoryNotFound)
				var typedError *OpenError
				require.ErrorAs(testInstance, openError, &typedError)
				require.Empty(testInstance, typedError.Path)
				require.Contains(testInstance, typedError.Error(), "<environment>")
				require.Nil(testInstance, repository)
				return
			}
			require.NoError(testInstance, openError)
			require.NotEmpty(testInstance, repository.Identifier())
		})
	}
}

func TestOpenReportsWorkingDirectoryFailure(testInstance *testing.T) {
	workingDirectoryFailure := errors.New("cwd removed")
	_, openError := Open("", WithEnvironmentLookup(noEnvironment), WithWorkingDirectoryProvider(func() (string, error) {
		return "", workingDirectoryFailure
	}))
	require.ErrorIs(testInstance, openError, workingDirectoryFailure)
}

func TestOpenInvalidPath(testInstance *testing.T) {
	missingPath := testInstance.TempDir()

	_, openError := Open(missingPath)
	require.ErrorIs(testInstance, openError, ErrRepositoryNotFound)

	var typedError *OpenError
	require.ErrorAs(testInstance, openError, &typedError)
	require.Equal(testInstance, missingPath, typedError.Path)
}
