package utils_test

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/branchsweep/internal/utils"
)

func TestFlushingWriterFlushesBufferedDestination(testInstance *testing.T) {
	underlyingBuffer := &bytes.Buffer{}
	bufferedWriter := bufio.NewWriterSize(underlyingBuffer, 4096)

	flushingWriter := utils.NewFlushingWriter(bufferedWriter)
	bytesWritten, writeError := flushingWriter.Write([]byte("Deleting feature-x\n"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, len("Deleting feature-x\n"), bytesWritten)
	require.Equal(testInstance, "Deleting feature-x\n", underlyingBuffer.String())
}

func TestNewFlushingWriterDoesNotDoubleWrap(testInstance *testing.T) {
	require.Nil(testInstance, utils.NewFlushingWriter(nil))

	flushingWriter := utils.NewFlushingWriter(&bytes.Buffer{})
	require.Same(testInstance, flushingWriter, utils.NewFlushingWriter(flushingWriter))
}
