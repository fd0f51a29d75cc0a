package execshell

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const (
	standardOutputStreamNameConstant = "stdout"
	standardErrorStreamNameConstant  = "stderr"
	lineTerminatorConstant           = '\n'
	carriageReturnConstant           = "\r"
	capturedOutputLimitBytesConstant = 64 * 1024
	logFieldStreamConstant           = "stream"
)

// OutputStream names one of a command's output streams.
type OutputStream string

// Supported output streams.
const (
	StandardOutput OutputStream = OutputStream(standardOutputStreamNameConstant)
	StandardError  OutputStream = OutputStream(standardErrorStreamNameConstant)
)

// OutputSink receives command output one line at a time. Implementations must
// tolerate concurrent calls because both streams are drained simultaneously.
type OutputSink interface {
	OutputLine(command ShellCommand, stream OutputStream, line string)
	OutputReadFailed(command ShellCommand, failure StreamReadError)
}

// LoggerOutputSink forwards command output lines to a zap logger at info level.
type LoggerOutputSink struct {
	logger *zap.Logger
}

// NewLoggerOutputSink constructs an OutputSink backed by the provided logger.
func NewLoggerOutputSink(logger *zap.Logger) *LoggerOutputSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggerOutputSink{logger: logger}
}

// OutputLine logs a single output line.
func (sink *LoggerOutputSink) OutputLine(command ShellCommand, stream OutputStream, line string) {
	sink.logger.Info(
		line,
		zap.String(logFieldCommandConstant, filepath.Base(string(command.Name))),
		zap.String(logFieldStreamConstant, string(stream)),
	)
}

// OutputReadFailed logs the read failure in place of the line that could not be read.
func (sink *LoggerOutputSink) OutputReadFailed(command ShellCommand, failure StreamReadError) {
	sink.logger.Info(
		failure.Error(),
		zap.String(logFieldCommandConstant, filepath.Base(string(command.Name))),
		zap.String(logFieldStreamConstant, string(failure.Stream)),
	)
}

// streamDrainer reads one output stream line by line, forwarding every line
// to the sink and keeping a bounded copy for error reporting.
type streamDrainer struct {
	command  ShellCommand
	stream   OutputStream
	sink     OutputSink
	captured strings.Builder
	mutex    sync.Mutex
}

func newStreamDrainer(command ShellCommand, stream OutputStream, sink OutputSink) *streamDrainer {
	return &streamDrainer{command: command, stream: stream, sink: sink}
}

func (drainer *streamDrainer) drain(source io.Reader) {
	reader := bufio.NewReader(source)
	for {
		line, readError := reader.ReadString(lineTerminatorConstant)
		if len(line) > 0 {
			drainer.forward(line)
		}
		if readError == nil {
			continue
		}
		if errors.Is(readError, io.EOF) || errors.Is(readError, os.ErrClosed) {
			return
		}
		drainer.sink.OutputReadFailed(drainer.command, StreamReadError{Command: drainer.command, Stream: drainer.stream, Cause: readError})
		return
	}
}

func (drainer *streamDrainer) forward(rawLine string) {
	drainer.mutex.Lock()
	if drainer.captured.Len()+len(rawLine) <= capturedOutputLimitBytesConstant {
		drainer.captured.WriteString(rawLine)
	}
	drainer.mutex.Unlock()

	line := strings.TrimSuffix(strings.TrimSuffix(rawLine, string(lineTerminatorConstant)), carriageReturnConstant)
	drainer.sink.OutputLine(drainer.command, drainer.stream, line)
}

func (drainer *streamDrainer) capturedText() string {
	drainer.mutex.Lock()
	defer drainer.mutex.Unlock()
	return drainer.captured.String()
}
