package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/temirov/docpush/internal/execshell"
)

const (
	commandPlannedMessageTemplateConstant          = "[%d] Would run %s"
	commandStartedMessageTemplateConstant          = "[%d] Running %s"
	commandCompletedMessageTemplateConstant        = "[%d] Completed %s"
	commandFailedExitCodeMessageTemplateConstant   = "[%d] %s failed with exit code %d"
	commandTimedOutMessageTemplateConstant         = "[%d] %s timed out after %s"
	commandExecutionFailureMessageTemplateConstant = "[%d] %s failed: %s"
	workingDirectorySuffixTemplateConstant         = " (in %s)"
	standardErrorSuffixTemplateConstant            = ": %s"
	commandArgumentsJoinSeparatorConstant          = " "
	unknownFailureMessageConstant                  = "unknown error"
	argumentQuoteCharactersConstant                = " \t\"'"
)

// CommandEventFormatter builds human-readable messages for command lifecycle events.
type CommandEventFormatter struct{}

// BuildPlannedMessage describes a command skipped by dry run.
func (formatter CommandEventFormatter) BuildPlannedMessage(step int, command execshell.ShellCommand) string {
	return fmt.Sprintf(commandPlannedMessageTemplateConstant, step, formatter.formatCommandLabel(command))
}

// BuildStartedMessage describes a command about to run.
func (formatter CommandEventFormatter) BuildStartedMessage(step int, command execshell.ShellCommand) string {
	return fmt.Sprintf(commandStartedMessageTemplateConstant, step, formatter.formatCommandLabel(command))
}

// BuildSuccessMessage describes a command that exited with status zero.
func (formatter CommandEventFormatter) BuildSuccessMessage(step int, command execshell.ShellCommand) string {
	return fmt.Sprintf(commandCompletedMessageTemplateConstant, step, formatter.formatCommandLabel(command))
}

// BuildFailureMessage describes a command that exited with a non-zero status, with its trailing stderr line.
func (formatter CommandEventFormatter) BuildFailureMessage(step int, command execshell.ShellCommand, result execshell.ExecutionResult) string {
	message := fmt.Sprintf(commandFailedExitCodeMessageTemplateConstant, step, formatter.formatCommandLabel(command), result.ExitCode)
	if lastLine := lastNonEmptyLine(result.StandardError); len(lastLine) > 0 {
		message += fmt.Sprintf(standardErrorSuffixTemplateConstant, lastLine)
	}
	return message
}

// BuildExecutionFailureMessage describes a timeout or launch failure.
func (formatter CommandEventFormatter) BuildExecutionFailureMessage(step int, command execshell.ShellCommand, failure error) string {
	var timeoutError execshell.TimeoutError
	if errors.As(failure, &timeoutError) {
		return fmt.Sprintf(commandTimedOutMessageTemplateConstant, step, formatter.formatCommandLabel(command), timeoutError.Timeout)
	}

	failureMessage := unknownFailureMessageConstant
	var launchError execshell.LaunchError
	switch {
	case errors.As(failure, &launchError) && launchError.Cause != nil:
		failureMessage = launchError.Cause.Error()
	case failure != nil:
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(commandExecutionFailureMessageTemplateConstant, step, formatter.formatCommandLabel(command), failureMessage)
}

func (formatter CommandEventFormatter) formatCommandLabel(command execshell.ShellCommand) string {
	labelParts := make([]string, 0, len(command.Details.Arguments)+1)
	labelParts = append(labelParts, filepath.Base(string(command.Name)))
	for _, argument := range command.Details.Arguments {
		if len(argument) == 0 || strings.ContainsAny(argument, argumentQuoteCharactersConstant) {
			argument = strconv.Quote(argument)
		}
		labelParts = append(labelParts, argument)
	}

	label := strings.Join(labelParts, commandArgumentsJoinSeparatorConstant)
	if workingDirectory := strings.TrimSpace(command.Details.WorkingDirectory); len(workingDirectory) > 0 {
		label += fmt.Sprintf(workingDirectorySuffixTemplateConstant, workingDirectory)
	}
	return label
}

func lastNonEmptyLine(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for index := len(lines) - 1; index >= 0; index-- {
		if trimmedLine := strings.TrimSpace(lines[index]); len(trimmedLine) > 0 {
			return trimmedLine
		}
	}
	return ""
}

// ConsoleCommandEventLogger renders command lifecycle events using a zap logger configured for human-readable output.
// Events are numbered in the order commands are started or planned.
type ConsoleCommandEventLogger struct {
	logger      *zap.Logger
	formatter   CommandEventFormatter
	mutex       sync.Mutex
	currentStep int
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: CommandEventFormatter{}}
}

// CommandPlanned implements execshell.CommandEventObserver for dry runs.
func (eventLogger *ConsoleCommandEventLogger) CommandPlanned(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildPlannedMessage(eventLogger.advanceStep(), command))
}

// CommandStarted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildStartedMessage(eventLogger.advanceStep(), command))
}

// CommandCompleted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	step := eventLogger.step()
	if result.ExitCode == 0 {
		eventLogger.logger.Info(eventLogger.formatter.BuildSuccessMessage(step, command))
		return
	}
	eventLogger.logger.Warn(eventLogger.formatter.BuildFailureMessage(step, command, result))
}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildExecutionFailureMessage(eventLogger.step(), command, failure))
}

func (eventLogger *ConsoleCommandEventLogger) advanceStep() int {
	eventLogger.mutex.Lock()
	defer eventLogger.mutex.Unlock()
	eventLogger.currentStep++
	return eventLogger.currentStep
}

func (eventLogger *ConsoleCommandEventLogger) step() int {
	eventLogger.mutex.Lock()
	defer eventLogger.mutex.Unlock()
	return eventLogger.currentStep
}
