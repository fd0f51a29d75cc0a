package ui_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/docpush/internal/execshell"
	"github.com/temirov/docpush/internal/ui"
)

const (
	testCommandWorkingDirectoryConstant = "/repo"
	testCommandLabelConstant            = `git commit -m "Docs v2" (in /repo)`
	testStandardErrorMessageConstant    = "hint: see above\nfatal: nothing to commit\n"
)

func TestConsoleCommandEventLoggerEmitsMessages(testInstance *testing.T) {
	command := execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{
			Arguments:        []string{"commit", "-m", "Docs v2"},
			WorkingDirectory: testCommandWorkingDirectoryConstant,
		},
	}

	testCases := []struct {
		name            string
		invoke          func(logger *ui.ConsoleCommandEventLogger)
		expectedLevel   zapcore.Level
		expectedMessage string
	}{
		{
			name: "command_planned",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandPlanned(command)
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "[1] Would run " + testCommandLabelConstant,
		},
		{
			name: "command_started",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandStarted(command)
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "[1] Running " + testCommandLabelConstant,
		},
		{
			name: "command_completed_success",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 0})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "[0] Completed " + testCommandLabelConstant,
		},
		{
			name: "command_completed_failure",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 1, StandardError: testStandardErrorMessageConstant})
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: "[0] " + testCommandLabelConstant + " failed with exit code 1: fatal: nothing to commit",
		},
		{
			name: "command_timed_out",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandExecutionFailed(command, execshell.TimeoutError{Command: command, Timeout: 10 * time.Second})
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: "[0] " + testCommandLabelConstant + " timed out after 10s",
		},
		{
			name: "command_launch_failure",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandExecutionFailed(command, execshell.LaunchError{Command: command, Cause: errors.New("no such file or directory")})
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: "[0] " + testCommandLabelConstant + " failed: no such file or directory",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zapcore.DebugLevel)
			eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observerCore))

			testCase.invoke(eventLogger)

			entries := observedLogs.All()
			require.Len(testInstance, entries, 1)
			require.Equal(testInstance, testCase.expectedLevel, entries[0].Level)
			require.Equal(testInstance, testCase.expectedMessage, entries[0].Message)
		})
	}
}

func TestConsoleCommandEventLoggerNumbersSteps(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zapcore.DebugLevel)
	eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observerCore))

	addCommand := execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: []string{"add", "/repo/docs"}}}
	pushCommand := execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: []string{"push"}}}

	eventLogger.CommandStarted(addCommand)
	eventLogger.CommandCompleted(addCommand, execshell.ExecutionResult{})
	eventLogger.CommandStarted(pushCommand)
	eventLogger.CommandCompleted(pushCommand, execshell.ExecutionResult{})

	messages := make([]string, 0, 4)
	for _, entry := range observedLogs.All() {
		messages = append(messages, entry.Message)
	}
	require.Equal(testInstance, []string{
		"[1] Running git add /repo/docs",
		"[1] Completed git add /repo/docs",
		"[2] Running git push",
		"[2] Completed git push",
	}, messages)
}
