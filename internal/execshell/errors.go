package execshell

import (
	"fmt"
	"time"
)

const (
	processTimedOutMessageConstant        = "process timed out"
	timeoutErrorTemplateConstant          = "%s: %s after %s"
	launchErrorTemplateConstant           = "unable to launch %s: %v"
	streamReadErrorTemplateConstant       = "reading %s of %s: %v"
	commandFailedErrorFallbackConstant    = "command failed"
	commandExecutionErrorFallbackConstant = "command execution failed"
)

// CommandFailedError reports a command that ran to completion with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command, its exit code, and trailing standard error.
func (failure CommandFailedError) Error() string {
	message := CommandMessageFormatter{}.BuildFailureMessage(failure.Command, failure.Result)
	if len(message) == 0 {
		return commandFailedErrorFallbackConstant
	}
	return message
}

// CommandExecutionError reports a command the runner could not see through to an exit code.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the command and the runner failure.
func (failure CommandExecutionError) Error() string {
	message := CommandMessageFormatter{}.BuildExecutionFailureMessage(failure.Command, failure.Cause)
	if len(message) == 0 {
		return commandExecutionErrorFallbackConstant
	}
	return message
}

// Unwrap exposes the runner failure, typically a TimeoutError or LaunchError.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// TimeoutError reports a command that did not terminate within its timeout.
// The process has been terminated by the time this error is returned.
type TimeoutError struct {
	Command ShellCommand
	Timeout time.Duration
}

// Error reports the command description and the elapsed bound.
func (timeoutError TimeoutError) Error() string {
	commandLabel := CommandMessageFormatter{}.formatCommandLabel(timeoutError.Command)
	return fmt.Sprintf(timeoutErrorTemplateConstant, commandLabel, processTimedOutMessageConstant, timeoutError.Timeout)
}

// LaunchError reports a command that could not be started at all.
type LaunchError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the command and the underlying I/O failure.
func (launchError LaunchError) Error() string {
	commandLabel := CommandMessageFormatter{}.formatCommandLabel(launchError.Command)
	return fmt.Sprintf(launchErrorTemplateConstant, commandLabel, launchError.Cause)
}

// Unwrap exposes the underlying start failure.
func (launchError LaunchError) Unwrap() error {
	return launchError.Cause
}

// StreamReadError reports a failure while draining a command's output stream.
// It is never returned to callers; the runner forwards it to the output sink.
type StreamReadError struct {
	Command ShellCommand
	Stream  OutputStream
	Cause   error
}

// Error describes the stream and the read failure.
func (readError StreamReadError) Error() string {
	return fmt.Sprintf(streamReadErrorTemplateConstant, readError.Stream, readError.Command.Name, readError.Cause)
}

// Unwrap exposes the underlying read failure.
func (readError StreamReadError) Unwrap() error {
	return readError.Cause
}
