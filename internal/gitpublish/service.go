package gitpublish

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/temirov/docpush/internal/execshell"
	pathutils "github.com/temirov/docpush/internal/utils/path"
)

const (
	// DefaultCommitMessageConstant is used when no commit message is configured.
	DefaultCommitMessageConstant = "Update javadoc"

	gitAddSubcommandConstant                 = "add"
	gitCommitSubcommandConstant              = "commit"
	gitCommitMessageFlagConstant             = "-m"
	gitPushSubcommandConstant                = "push"
	gitTerminalPromptEnvironmentNameConstant = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableValue = "0"
	gitExecutorMissingMessageConstant        = "git executor not configured"
	projectRootRequiredMessageConstant       = "project root must be provided"
	outputDirectoryRequiredMessageConstant   = "output directory must be provided"
	timeoutInvalidMessageConstant            = "publish timeout must be positive"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrProjectRootRequired indicates the project root option was empty.
var ErrProjectRootRequired = errors.New(projectRootRequiredMessageConstant)

// ErrOutputDirectoryRequired indicates the output directory option was empty.
var ErrOutputDirectoryRequired = errors.New(outputDirectoryRequiredMessageConstant)

// ErrTimeoutInvalid indicates a zero or negative publish timeout.
var ErrTimeoutInvalid = errors.New(timeoutInvalidMessageConstant)

// GitExecutor exposes the git invocation used by the publisher.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	GitExecutor GitExecutor
}

// Options configure a publish operation.
type Options struct {
	ProjectRoot     string
	OutputDirectory string
	CommitMessage   string
	RemoteName      string
	Timeout         time.Duration
}

// Service records generated documentation in git and pushes it.
type Service struct {
	executor GitExecutor
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &Service{executor: dependencies.GitExecutor}, nil
}

// Publish runs add, commit, and push in order. The first failure is returned
// unchanged and the remaining commands are not run. A commit that was created
// before a failed push stays in the local history.
func (service *Service) Publish(executionContext context.Context, options Options) error {
	projectRoot := strings.TrimSpace(options.ProjectRoot)
	if len(projectRoot) == 0 {
		return ErrProjectRootRequired
	}
	if len(strings.TrimSpace(options.OutputDirectory)) == 0 {
		return ErrOutputDirectoryRequired
	}
	if options.Timeout <= 0 {
		return ErrTimeoutInvalid
	}

	commitMessage := options.CommitMessage
	if len(strings.TrimSpace(commitMessage)) == 0 {
		commitMessage = DefaultCommitMessageConstant
	}

	pushArguments := []string{gitPushSubcommandConstant}
	if remoteName := strings.TrimSpace(options.RemoteName); len(remoteName) > 0 {
		pushArguments = append(pushArguments, remoteName)
	}

	argumentSequence := [][]string{
		{gitAddSubcommandConstant, pathutils.ResolveWithin(projectRoot, options.OutputDirectory)},
		{gitCommitSubcommandConstant, gitCommitMessageFlagConstant, commitMessage},
		pushArguments,
	}

	for _, arguments := range argumentSequence {
		if _, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
			Arguments:            arguments,
			WorkingDirectory:     projectRoot,
			EnvironmentVariables: map[string]string{gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableValue},
			Timeout:              options.Timeout,
		}); executionError != nil {
			return executionError
		}
	}
	return nil
}
