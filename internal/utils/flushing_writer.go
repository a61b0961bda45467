package utils

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

// FlushingWriter serializes writes and flushes buffered destinations after each one so
// progress frames and event lines interleave in the order they were produced.
type FlushingWriter struct {
	destination io.Writer
	mutex       sync.Mutex
}

// NewFlushingWriter wraps destination; nil stays nil and an existing FlushingWriter is returned as is.
func NewFlushingWriter(destination io.Writer) io.Writer {
	switch typedDestination := destination.(type) {
	case nil:
		return nil
	case *FlushingWriter:
		return typedDestination
	default:
		return &FlushingWriter{destination: destination}
	}
}

// Write forwards data to the destination and flushes it when the destination buffers.
func (writer *FlushingWriter) Write(data []byte) (int, error) {
	if writer == nil || writer.destination == nil {
		return len(data), nil
	}

	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	bytesWritten, writeError := writer.destination.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}

	if bufferedDestination, buffers := writer.destination.(flusher); buffers {
		return bytesWritten, bufferedDestination.Flush()
	}
	return bytesWritten, nil
}
