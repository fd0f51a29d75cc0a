package execshell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"
)

const (
	environmentAssignmentSeparatorConstant = "="
	environmentAssignmentTemplateConstant  = "%s%s%s"
	defaultPipeCloseDelayConstant          = 2 * time.Second
)

// OSCommandRunner executes commands using the operating system facilities.
// Output is streamed line by line to the configured sink while the command runs.
type OSCommandRunner struct {
	outputSink     OutputSink
	pipeCloseDelay time.Duration
}

// NewStreamingOSCommandRunner constructs a runner that forwards each output line to the sink.
func NewStreamingOSCommandRunner(outputSink OutputSink) *OSCommandRunner {
	if outputSink == nil {
		outputSink = NewLoggerOutputSink(nil)
	}
	return &OSCommandRunner{outputSink: outputSink, pipeCloseDelay: defaultPipeCloseDelayConstant}
}

// Run executes the supplied command. A non-zero exit code is reported through the
// result; timeouts and start failures are reported as TimeoutError and LaunchError.
// A command that exceeds its timeout is killed.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandContext := executionContext
	cancelTimeout := func() {}
	if command.Details.Timeout > 0 {
		commandContext, cancelTimeout = context.WithTimeout(executionContext, command.Details.Timeout)
	}
	defer cancelTimeout()

	commandArguments := append([]string{}, command.Details.Arguments...)
	executable := exec.CommandContext(commandContext, string(command.Name), commandArguments...)
	executable.WaitDelay = runner.pipeCloseDelay

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}

	if len(command.Details.EnvironmentVariables) > 0 {
		mergedEnvironment := append([]string{}, os.Environ()...)
		for environmentKey, environmentValue := range command.Details.EnvironmentVariables {
			mergedEnvironment = append(mergedEnvironment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, environmentAssignmentSeparatorConstant, environmentValue))
		}
		executable.Env = mergedEnvironment
	}

	standardOutputPipe, pipeError := executable.StdoutPipe()
	if pipeError != nil {
		return ExecutionResult{}, LaunchError{Command: command, Cause: pipeError}
	}
	standardErrorPipe, pipeError := executable.StderrPipe()
	if pipeError != nil {
		return ExecutionResult{}, LaunchError{Command: command, Cause: pipeError}
	}

	if startError := executable.Start(); startError != nil {
		return ExecutionResult{}, LaunchError{Command: command, Cause: startError}
	}

	standardOutputDrainer := newStreamDrainer(command, StandardOutput, runner.outputSink)
	standardErrorDrainer := newStreamDrainer(command, StandardError, runner.outputSink)

	// Wait closes the pipes, so both streams must be fully drained first.
	drainGroup := &sync.WaitGroup{}
	drainGroup.Add(2)
	go func() {
		defer drainGroup.Done()
		standardErrorDrainer.drain(standardErrorPipe)
	}()
	go func() {
		defer drainGroup.Done()
		standardOutputDrainer.drain(standardOutputPipe)
	}()

	drainCompleted := make(chan struct{})
	go runner.closePipesWhenAbandoned(commandContext, drainCompleted, standardOutputPipe, standardErrorPipe)
	drainGroup.Wait()
	close(drainCompleted)

	waitError := executable.Wait()

	if command.Details.Timeout > 0 && errors.Is(commandContext.Err(), context.DeadlineExceeded) && executionContext.Err() == nil {
		return ExecutionResult{}, TimeoutError{Command: command, Timeout: command.Details.Timeout}
	}
	if contextError := executionContext.Err(); contextError != nil {
		return ExecutionResult{}, contextError
	}

	executionResult := ExecutionResult{
		StandardOutput: standardOutputDrainer.capturedText(),
		StandardError:  standardErrorDrainer.capturedText(),
	}

	if waitError != nil {
		exitError := &exec.ExitError{}
		if errors.As(waitError, &exitError) {
			executionResult.ExitCode = exitError.ExitCode()
			return executionResult, nil
		}
		if errors.Is(waitError, exec.ErrWaitDelay) {
			return executionResult, nil
		}
		return ExecutionResult{}, waitError
	}

	return executionResult, nil
}

// closePipesWhenAbandoned unblocks the drainers when the command context ends but a
// descendant process still holds the pipes open after the command itself was killed.
func (runner *OSCommandRunner) closePipesWhenAbandoned(commandContext context.Context, drainCompleted <-chan struct{}, pipes ...io.Closer) {
	select {
	case <-drainCompleted:
		return
	case <-commandContext.Done():
	}

	closeTimer := time.NewTimer(runner.pipeCloseDelay)
	defer closeTimer.Stop()

	select {
	case <-drainCompleted:
	case <-closeTimer.C:
		for _, pipe := range pipes {
			_ = pipe.Close()
		}
	}
}
