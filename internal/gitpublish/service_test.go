package gitpublish_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/docpush/internal/execshell"
	"github.com/temirov/docpush/internal/gitpublish"
)

type stubGitExecutor struct {
	recordedDetails []execshell.CommandDetails
	failures        map[string]error
}

func (executor *stubGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	if len(details.Arguments) > 0 {
		if failure, exists := executor.failures[details.Arguments[0]]; exists {
			return execshell.ExecutionResult{}, failure
		}
	}
	return execshell.ExecutionResult{}, nil
}

func (executor *stubGitExecutor) countSubcommand(subcommand string) int {
	count := 0
	for _, details := range executor.recordedDetails {
		if len(details.Arguments) > 0 && details.Arguments[0] == subcommand {
			count++
		}
	}
	return count
}

func TestServicePublishRunsAddCommitPushInOrder(t *testing.T) {
	testCases := []struct {
		name              string
		options           gitpublish.Options
		expectedArguments [][]string
	}{
		{
			name:    "DefaultRemote",
			options: gitpublish.Options{ProjectRoot: "/repo", OutputDirectory: "docs", CommitMessage: "Docs v2", Timeout: 10 * time.Second},
			expectedArguments: [][]string{
				{"add", "/repo/docs"},
				{"commit", "-m", "Docs v2"},
				{"push"},
			},
		},
		{
			name:    "NamedRemoteAndDefaultMessage",
			options: gitpublish.Options{ProjectRoot: "/repo", OutputDirectory: "/repo/docs", RemoteName: "origin", Timeout: time.Second},
			expectedArguments: [][]string{
				{"add", "/repo/docs"},
				{"commit", "-m", "Update javadoc"},
				{"push", "origin"},
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			executor := &stubGitExecutor{}
			service, serviceError := gitpublish.NewService(gitpublish.ServiceDependencies{GitExecutor: executor})
			require.NoError(t, serviceError)

			require.NoError(t, service.Publish(context.Background(), testCase.options))

			require.Len(t, executor.recordedDetails, len(testCase.expectedArguments))
			for index, details := range executor.recordedDetails {
				require.Equal(t, testCase.expectedArguments[index], details.Arguments)
				require.Equal(t, "/repo", details.WorkingDirectory)
				require.Equal(t, testCase.options.Timeout, details.Timeout)
				require.Equal(t, "0", details.EnvironmentVariables["GIT_TERMINAL_PROMPT"])
			}
		})
	}
}

func TestServicePublishStopsWhenStagingFails(t *testing.T) {
	stagingFailure := errors.New("pathspec did not match")
	executor := &stubGitExecutor{failures: map[string]error{"add": stagingFailure}}
	service, serviceError := gitpublish.NewService(gitpublish.ServiceDependencies{GitExecutor: executor})
	require.NoError(t, serviceError)

	publishError := service.Publish(context.Background(), gitpublish.Options{ProjectRoot: "/repo", OutputDirectory: "docs", Timeout: time.Second})
	require.ErrorIs(t, publishError, stagingFailure)
	require.Equal(t, 1, executor.countSubcommand("add"))
	require.Zero(t, executor.countSubcommand("commit"))
	require.Zero(t, executor.countSubcommand("push"))
}

func TestServicePublishReturnsPushTimeoutUnchanged(t *testing.T) {
	pushCommand := execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: []string{"push"}}}
	pushFailure := execshell.CommandExecutionError{
		Command: pushCommand,
		Cause:   execshell.TimeoutError{Command: pushCommand, Timeout: time.Second},
	}
	executor := &stubGitExecutor{failures: map[string]error{"push": pushFailure}}
	service, serviceError := gitpublish.NewService(gitpublish.ServiceDependencies{GitExecutor: executor})
	require.NoError(t, serviceError)

	publishError := service.Publish(context.Background(), gitpublish.Options{ProjectRoot: "/repo", OutputDirectory: "docs", Timeout: time.Second})
	require.Equal(t, pushFailure, publishError)

	var timeoutError execshell.TimeoutError
	require.True(t, errors.As(publishError, &timeoutError))
	require.Equal(t, 1, executor.countSubcommand("add"))
	require.Equal(t, 1, executor.countSubcommand("commit"))
	require.Equal(t, 1, executor.countSubcommand("push"))
}

func TestServicePublishValidatesOptions(t *testing.T) {
	executor := &stubGitExecutor{}
	service, serviceError := gitpublish.NewService(gitpublish.ServiceDependencies{GitExecutor: executor})
	require.NoError(t, serviceError)

	require.ErrorIs(t, service.Publish(context.Background(), gitpublish.Options{OutputDirectory: "docs", Timeout: time.Second}), gitpublish.ErrProjectRootRequired)
	require.ErrorIs(t, service.Publish(context.Background(), gitpublish.Options{ProjectRoot: "/repo", Timeout: time.Second}), gitpublish.ErrOutputDirectoryRequired)
	require.ErrorIs(t, service.Publish(context.Background(), gitpublish.Options{ProjectRoot: "/repo", OutputDirectory: "docs"}), gitpublish.ErrTimeoutInvalid)
	require.Empty(t, executor.recordedDetails)
}

func TestNewServiceRequiresExecutor(t *testing.T) {
	_, serviceError := gitpublish.NewService(gitpublish.ServiceDependencies{})
	require.ErrorIs(t, serviceError, gitpublish.ErrGitExecutorNotConfigured)
}
