package docpublish_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/docpush/internal/docpublish"
	"github.com/temirov/docpush/internal/execshell"
	"github.com/temirov/docpush/internal/gitrepo"
)

type recordedCommand struct {
	name    string
	details execshell.CommandDetails
}

type recordingCommandExecutor struct {
	commands []recordedCommand
	failures map[string]error
}

func (executor *recordingCommandExecutor) ExecuteDocumentationTool(_ context.Context, executable string, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	if len(executable) == 0 {
		executable = string(execshell.CommandJavadoc)
	}
	return executor.record(executable, details)
}

func (executor *recordingCommandExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return executor.record(string(execshell.CommandGit), details)
}

func (executor *recordingCommandExecutor) record(name string, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.commands = append(executor.commands, recordedCommand{name: name, details: details})
	key := name
	if len(details.Arguments) > 0 && name == string(execshell.CommandGit) {
		key = name + " " + details.Arguments[0]
	}
	if failure, exists := executor.failures[key]; exists {
		return execshell.ExecutionResult{}, failure
	}
	return execshell.ExecutionResult{}, nil
}

func (executor *recordingCommandExecutor) commandLines() []string {
	lines := make([]string, 0, len(executor.commands))
	for _, command := range executor.commands {
		lines = append(lines, strings.Join(append([]string{command.name}, command.details.Arguments...), " "))
	}
	return lines
}

func newCommandFixture(t *testing.T, configuration docpublish.CommandConfiguration, executor *recordingCommandExecutor) (*docpublish.CommandBuilder, *observer.ObservedLogs) {
	t.Helper()
	observerCore, observedLogs := observer.New(zap.DebugLevel)
	logger := zap.New(observerCore)
	events := []string{}

	return &docpublish.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return logger },
		ConfigurationProvider: func() docpublish.CommandConfiguration { return configuration },
		Executor:              executor,
		Inspector: &stubInspector{
			state:     gitrepo.RepositoryState{BranchName: "master", HeadHash: testHeadBeforeConstant},
			headAfter: testHeadAfterConstant,
			pending:   true,
			events:    &events,
		},
		RunIdentifierGenerator: func() string { return "run-7" },
	}, observedLogs
}

func executePublishCommand(t *testing.T, builder *docpublish.CommandBuilder, arguments ...string) (string, error) {
	t.Helper()
	command, buildError := builder.Build()
	require.NoError(t, buildError)

	var output bytes.Buffer
	command.SetOut(&output)
	command.SetErr(&output)
	command.SetArgs(arguments)
	command.SetContext(context.Background())
	executionError := command.Execute()
	return output.String(), executionError
}

func TestPublishCommandRunsEndToEndSequence(t *testing.T) {
	configuration := docpublish.DefaultCommandConfiguration()
	configuration.ProjectRoot = testProjectRootConstant
	configuration.Subpackages = "mypkg"
	configuration.CommitMessage = "Docs v2"
	executor := &recordingCommandExecutor{}
	builder, observedLogs := newCommandFixture(t, configuration, executor)

	output, executionError := executePublishCommand(t, builder)
	require.NoError(t, executionError)

	require.Equal(t, []string{
		"javadoc -d /repo/docs -sourcepath /repo/src/main/java -subpackages mypkg",
		"git add /repo/docs",
		"git commit -m Docs v2",
		"git push",
	}, executor.commandLines())
	require.Equal(t, []string{"commit", "-m", "Docs v2"}, executor.commands[2].details.Arguments)
	for _, command := range executor.commands {
		require.Equal(t, testProjectRootConstant, command.details.WorkingDirectory)
		require.Equal(t, 10*time.Second, command.details.Timeout)
	}

	require.Equal(t, "Published /repo/docs (1111111 -> 2222222)\n", output)
	require.NotZero(t, observedLogs.FilterField(zap.String("run_id", "run-7")).Len())
}

func TestPublishCommandFlagsOverrideConfiguration(t *testing.T) {
	configuration := docpublish.DefaultCommandConfiguration()
	configuration.ProjectRoot = "/elsewhere"
	executor := &recordingCommandExecutor{}
	builder, _ := newCommandFixture(t, configuration, executor)

	_, executionError := executePublishCommand(t, builder,
		"--project-root", testProjectRootConstant,
		"--subpackages", "org.example",
		"--commit-message", "Refresh API docs",
		"--timeout", "30",
		"--remote", "origin",
	)
	require.NoError(t, executionError)

	require.Equal(t, []string{
		"javadoc -d /repo/docs -sourcepath /repo/src/main/java -subpackages org.example",
		"git add /repo/docs",
		"git commit -m Refresh API docs",
		"git push origin",
	}, executor.commandLines())
	require.Equal(t, 30*time.Second, executor.commands[0].details.Timeout)
}

func TestPublishCommandStopsWhenStagingFails(t *testing.T) {
	configuration := docpublish.DefaultCommandConfiguration()
	configuration.ProjectRoot = testProjectRootConstant
	stagingFailure := execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: []string{"add", "/repo/docs"}}},
		Result:  execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: pathspec did not match"},
	}
	executor := &recordingCommandExecutor{failures: map[string]error{"git add": stagingFailure}}
	builder, _ := newCommandFixture(t, configuration, executor)

	_, executionError := executePublishCommand(t, builder)
	require.Error(t, executionError)
	var commandFailure execshell.CommandFailedError
	require.ErrorAs(t, executionError, &commandFailure)
	require.Equal(t, 128, commandFailure.Result.ExitCode)
	require.Contains(t, executionError.Error(), "documentation publish failed: publish documentation: ")
	require.Equal(t, []string{
		"javadoc -d /repo/docs -sourcepath /repo/src/main/java -subpackages com",
		"git add /repo/docs",
	}, executor.commandLines())
}

func TestPublishCommandRejectsPositionalArguments(t *testing.T) {
	builder, _ := newCommandFixture(t, docpublish.DefaultCommandConfiguration(), &recordingCommandExecutor{})

	_, executionError := executePublishCommand(t, builder, "extra")
	require.EqualError(t, executionError, "publish does not accept positional arguments")
}

func TestPublishCommandRejectsNonPositiveTimeout(t *testing.T) {
	configuration := docpublish.DefaultCommandConfiguration()
	configuration.ProjectRoot = testProjectRootConstant
	executor := &recordingCommandExecutor{}
	builder, _ := newCommandFixture(t, configuration, executor)

	_, executionError := executePublishCommand(t, builder, "--timeout", "0")
	require.ErrorIs(t, executionError, docpublish.ErrTimeoutInvalid)
	require.Empty(t, executor.commands)
}
