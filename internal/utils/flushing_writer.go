package utils

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

type syncer interface {
	Sync() error
}

// FlushingWriter forwards every log entry to the destination and flushes buffered
// destinations immediately, so command output lines interleave with lifecycle
// entries in the order they were logged.
type FlushingWriter struct {
	destination io.Writer
	mutex       sync.Mutex
}

// NewFlushingWriter wraps the destination. A nil destination yields nil and an
// already wrapped destination is returned as is.
func NewFlushingWriter(destination io.Writer) *FlushingWriter {
	if destination == nil {
		return nil
	}
	if wrapped, alreadyWrapped := destination.(*FlushingWriter); alreadyWrapped {
		return wrapped
	}
	return &FlushingWriter{destination: destination}
}

// Write forwards one encoded entry and flushes the destination when it buffers.
func (writer *FlushingWriter) Write(entry []byte) (int, error) {
	if writer == nil || writer.destination == nil {
		return 0, nil
	}

	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	bytesWritten, writeError := writer.destination.Write(entry)
	if writeError != nil {
		return bytesWritten, writeError
	}
	return bytesWritten, writer.flushLocked()
}

// Sync flushes buffered data and then syncs the destination when it supports syncing.
// zapcore.AddSync picks this method up, so Logger.Sync reaches the destination file.
func (writer *FlushingWriter) Sync() error {
	if writer == nil || writer.destination == nil {
		return nil
	}

	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	if flushError := writer.flushLocked(); flushError != nil {
		return flushError
	}
	if syncingDestination, supportsSync := writer.destination.(syncer); supportsSync {
		return syncingDestination.Sync()
	}
	return nil
}

func (writer *FlushingWriter) flushLocked() error {
	if flushingDestination, supportsFlush := writer.destination.(flusher); supportsFlush {
		return flushingDestination.Flush()
	}
	return nil
}
