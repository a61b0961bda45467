package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/branchsweep/internal/utils"
)

const testContextConfigurationPathConstant = "/tmp/branchsweep.yaml"

func TestCommandContextAccessorRoundTripsValues(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	_, configurationPathAvailable := accessor.ConfigurationFilePath(context.Background())
	require.False(testInstance, configurationPathAvailable)
	_, executionFlagsAvailable := accessor.ExecutionFlags(context.Background())
	require.False(testInstance, executionFlagsAvailable)

	expectedFlags := utils.ExecutionFlags{DryRun: true, DryRunSet: true}
	executionContext := accessor.WithConfigurationFilePath(context.Background(), testContextConfigurationPathConstant)
	executionContext = accessor.WithExecutionFlags(executionContext, expectedFlags)

	configurationPath, configurationPathAvailable := accessor.ConfigurationFilePath(executionContext)
	require.True(testInstance, configurationPathAvailable)
	require.Equal(testInstance, testContextConfigurationPathConstant, configurationPath)

	executionFlags, executionFlagsAvailable := accessor.ExecutionFlags(executionContext)
	require.True(testInstance, executionFlagsAvailable)
	require.Equal(testInstance, expectedFlags, executionFlags)
}
