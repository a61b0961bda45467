package cli

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

type stdoutCapture struct {
	original *os.File
	reader   *os.File
	writer   *os.File
}

func startStdoutCapture(testInstance *testing.T) stdoutCapture {
	testInstance.Helper()

	reader, writer, pipeError := os.Pipe()
	require.NoError(testInstance, pipeError)

	capture := stdoutCapture{
		original: os.Stdout,
		reader:   reader,
		writer:   writer,
	}

	os.Stdout = writer
	return capture
}

func (capture *stdoutCapture) Stop(testInstance *testing.T) string {
	testInstance.Helper()

	os.Stdout = capture.original
	require.NoError(testInstance, capture.writer.Close())

	capturedBytes, readError := io.ReadAll(capture.reader)
	require.NoError(testInstance, readError)
	require.NoError(testInstance, capture.reader.Close())

	output := string(capturedBytes)
	capture.reader = nil
	capture.writer = nil
	return output
}

func TestApplicationVersionFlagPrintsVersionAndExits(testInstance *testing.T) {
	application := NewApplication()
	application.versionResolver = func(context.Context) string {
		return "v2.0.0"
	}

	exitCode := -1
	sentinel := "version-exit"
	application.exitFunction = func(code int) {
		exitCode = code
		panic(sentinel)
	}

	capture := startStdoutCapture(testInstance)
	defer func() {
		if capture.reader != nil {
			_ = capture.Stop(testInstance)
		}
	}()

	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()
	os.Args = []string{"branchsweep", "--version"}

	require.PanicsWithValue(testInstance, sentinel, func() {
		_ = application.Execute()
	})

	output := capture.Stop(testInstance)
	require.Equal(testInstance, "branchsweep version: v2.0.0\n", output)
	require.Equal(testInstance, 0, exitCode)
}
