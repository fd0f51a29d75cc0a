package execshell

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const (
	commandGitStringConstant                  = "git"
	commandJavadocStringConstant              = "javadoc"
	loggerNotConfiguredMessageConstant        = "logger not configured"
	commandRunnerNotConfiguredMessageConstant = "command runner not configured"
	logFieldCommandConstant                   = "command"
	logFieldArgumentsConstant                 = "arguments"
	logFieldWorkingDirectoryConstant          = "working_directory"
	logFieldTimeoutConstant                   = "timeout"
	logFieldExitCodeConstant                  = "exit_code"
	plannedMessagePrefixConstant              = "Planned: "
)

// CommandName identifies an executable invoked by the shell executor.
type CommandName string

// Known executables.
const (
	CommandGit     CommandName = CommandName(commandGitStringConstant)
	CommandJavadoc CommandName = CommandName(commandJavadocStringConstant)
)

// ErrLoggerNotConfigured indicates the executor was created without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates the executor was created without a runner.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)

// CommandDetails describes how a command is invoked.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	// Timeout bounds the command's lifetime. Zero or negative disables the bound.
	Timeout time.Duration
}

// ShellCommand combines an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the terminal outcome of a command that ran to completion.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner executes a single shell command.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// ExecutorOptions tune ShellExecutor behavior.
type ExecutorOptions struct {
	// Observer receives lifecycle events instead of the structured logger when set.
	Observer CommandEventObserver
	// DryRun reports commands as planned without running them.
	DryRun bool
}

// ShellExecutor runs commands through a CommandRunner and reports their lifecycle.
type ShellExecutor struct {
	logger           *zap.Logger
	commandRunner    CommandRunner
	eventObserver    CommandEventObserver
	messageFormatter CommandMessageFormatter
	dryRun           bool
}

// NewShellExecutor constructs a ShellExecutor that logs lifecycle events through the logger.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner) (*ShellExecutor, error) {
	return NewShellExecutorWithOptions(logger, commandRunner, ExecutorOptions{})
}

// NewShellExecutorWithOptions constructs a ShellExecutor with an optional observer and dry-run mode.
func NewShellExecutorWithOptions(logger *zap.Logger, commandRunner CommandRunner, options ExecutorOptions) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	return &ShellExecutor{
		logger:           logger,
		commandRunner:    commandRunner,
		eventObserver:    options.Observer,
		messageFormatter: CommandMessageFormatter{},
		dryRun:           options.DryRun,
	}, nil
}

// Execute runs the command and converts non-zero exits and runner failures into typed errors.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if executor.dryRun {
		executor.reportPlanned(command)
		return ExecutionResult{}, nil
	}

	executor.reportStarted(command)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		executor.reportExecutionFailure(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.reportCompleted(command, executionResult)
	if executionResult.ExitCode != 0 {
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	return executionResult, nil
}

// ExecuteGit runs git with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// ExecuteDocumentationTool runs the documentation generator executable with the provided details.
func (executor *ShellExecutor) ExecuteDocumentationTool(executionContext context.Context, executable string, details CommandDetails) (ExecutionResult, error) {
	commandName := CommandJavadoc
	if len(executable) > 0 {
		commandName = CommandName(executable)
	}
	return executor.Execute(executionContext, ShellCommand{Name: commandName, Details: details})
}

func (executor *ShellExecutor) reportPlanned(command ShellCommand) {
	if executor.eventObserver != nil {
		executor.eventObserver.CommandPlanned(command)
		return
	}
	executor.logger.Info(plannedMessagePrefixConstant+executor.messageFormatter.BuildStartedMessage(command), executor.commandFields(command)...)
}

func (executor *ShellExecutor) reportStarted(command ShellCommand) {
	if executor.eventObserver != nil {
		executor.eventObserver.CommandStarted(command)
		return
	}
	executor.logger.Info(executor.messageFormatter.BuildStartedMessage(command), executor.commandFields(command)...)
}

func (executor *ShellExecutor) reportCompleted(command ShellCommand, result ExecutionResult) {
	if executor.eventObserver != nil {
		executor.eventObserver.CommandCompleted(command, result)
		return
	}

	fields := append(executor.commandFields(command), zap.Int(logFieldExitCodeConstant, result.ExitCode))
	if result.ExitCode == 0 {
		executor.logger.Info(executor.messageFormatter.BuildSuccessMessage(command), fields...)
		return
	}
	executor.logger.Warn(executor.messageFormatter.BuildFailureMessage(command, result), fields...)
}

func (executor *ShellExecutor) reportExecutionFailure(command ShellCommand, failure error) {
	if executor.eventObserver != nil {
		executor.eventObserver.CommandExecutionFailed(command, failure)
		return
	}

	fields := append(executor.commandFields(command), zap.Error(failure))
	executor.logger.Error(executor.messageFormatter.BuildExecutionFailureMessage(command, failure), fields...)
}

func (executor *ShellExecutor) commandFields(command ShellCommand) []zap.Field {
	fields := []zap.Field{
		zap.String(logFieldCommandConstant, filepath.Base(string(command.Name))),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	}
	if command.Details.Timeout > 0 {
		fields = append(fields, zap.Duration(logFieldTimeoutConstant, command.Details.Timeout))
	}
	return fields
}
