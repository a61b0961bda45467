package branches_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/branchsweep/internal/branches"
)

type renderedRecord struct {
	Name       string    `json:"name" yaml:"name"`
	Type       string    `json:"type" yaml:"type"`
	CommitTime time.Time `json:"commit_time" yaml:"commit_time"`
	Subject    string    `json:"subject" yaml:"subject"`
	Message    string    `json:"message" yaml:"message"`
}

func TestRendererTableAlignsColumns(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	listed := newFakeBranchRepository().branches[:2]

	require.NoError(testInstance, branches.NewRenderer(outputBuffer, false).Render(listed, branches.OutputFormatTable))

	expectedOutput := "" +
		"COMMITTED         TYPE    BRANCH            SUBJECT\n" +
		"2023-11-05 08:30  local   stale-fix         Fix flaky test\n" +
		"2023-11-05 09:30  remote  origin/feature-x  Add feature x\n"
	require.Equal(testInstance, expectedOutput, outputBuffer.String())
}

func TestRendererTableColorsBranchNames(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	listed := newFakeBranchRepository().branches[:2]

	require.NoError(testInstance, branches.NewRenderer(outputBuffer, true).Render(listed, branches.OutputFormatTable))
	require.Contains(testInstance, outputBuffer.String(), "\x1b[36morigin/feature-x")
	require.Contains(testInstance, outputBuffer.String(), "\x1b[32mstale-fix")
}

func TestRendererStructuredFormats(testInstance *testing.T) {
	testCases := []struct {
		name      string
		format    branches.OutputFormat
		unmarshal func([]byte, any) error
	}{
		{name: "json", format: branches.OutputFormatJSON, unmarshal: json.Unmarshal},
		{name: "yaml", format: branches.OutputFormatYAML, unmarshal: yaml.Unmarshal},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			listed := newFakeBranchRepository().branches[:2]

			require.NoError(testInstance, branches.NewRenderer(outputBuffer, false).Render(listed, testCase.format))

			var records []renderedRecord
			require.NoError(testInstance, testCase.unmarshal(outputBuffer.Bytes(), &records))
			require.Len(testInstance, records, 2)
			require.Equal(testInstance, "stale-fix", records[0].Name)
			require.Equal(testInstance, "local", records[0].Type)
			require.Equal(testInstance, "Fix flaky test", records[0].Subject)
			require.Equal(testInstance, "Fix flaky test\n\nDetails.", records[0].Message)
			require.True(testInstance, testBaseTime.Equal(records[0].CommitTime))
			require.Equal(testInstance, "remote", records[1].Type)
		})
	}
}

func TestRendererRejectsUnknownFormat(testInstance *testing.T) {
	renderError := branches.NewRenderer(&bytes.Buffer{}, false).Render(nil, branches.OutputFormat("xml"))
	require.ErrorIs(testInstance, renderError, branches.ErrUnsupportedOutputFormat)

	_, parseError := branches.ParseOutputFormat("XML")
	require.ErrorIs(testInstance, parseError, branches.ErrUnsupportedOutputFormat)

	parsedFormat, parseError := branches.ParseOutputFormat("yaml")
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, branches.OutputFormatYAML, parsedFormat)
}
