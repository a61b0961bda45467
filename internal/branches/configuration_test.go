package branches_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/branchsweep/internal/branches"
	"github.com/temirov/branchsweep/internal/gitrepo"
)

func TestDefaultCommandConfiguration(testInstance *testing.T) {
	configuration := branches.DefaultCommandConfiguration()

	require.Equal(testInstance, "both", configuration.BranchType)
	require.Equal(testInstance, []string{"main", "master", "origin/HEAD", "origin/main", "origin/master"}, configuration.Skip)
	require.Equal(testInstance, 60*time.Second, configuration.PushTimeout)
	require.Equal(testInstance, "table", configuration.OutputFormat)
	require.Equal(testInstance, gitrepo.BranchTypeBoth, configuration.Filter())
}

func TestCommandConfigurationSanitize(testInstance *testing.T) {
	homeDirectory := testInstance.TempDir()
	testInstance.Setenv("HOME", homeDirectory)

	sanitized := branches.CommandConfiguration{
		RepositoryPath: " ~/work/project ",
		BranchType:     " Remote ",
		Skip:           []string{"main", " ", "main", " develop "},
		PrivateKeyPath: "~/.ssh/id_ed25519",
		PushTimeout:    -time.Second,
		OutputFormat:   "",
	}.Sanitize()

	require.Equal(testInstance, filepath.Join(homeDirectory, "work", "project"), sanitized.RepositoryPath)
	require.Equal(testInstance, "Remote", sanitized.BranchType)
	require.Equal(testInstance, gitrepo.BranchTypeInvalid, sanitized.Filter())
	require.Equal(testInstance, []string{"main", "develop"}, sanitized.Skip)
	require.Equal(testInstance, filepath.Join(homeDirectory, ".ssh", "id_ed25519"), sanitized.PrivateKeyPath)
	require.Zero(testInstance, sanitized.PushTimeout)
	require.Equal(testInstance, "table", sanitized.OutputFormat)
}

func TestDefaultConfigurationValuesUsesPrefix(testInstance *testing.T) {
	values := branches.DefaultConfigurationValues("tools.branches.")

	require.Equal(testInstance, "both", values["tools.branches.type"])
	require.Equal(testInstance, "1m0s", values["tools.branches.push_timeout"])
	require.Equal(testInstance, branches.DefaultSkipList(), values["tools.branches.skip"])
	require.Len(testInstance, values, 9)

	unprefixed := branches.DefaultConfigurationValues("")
	require.Equal(testInstance, "table", unprefixed["format"])
}
