package docpublish

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/docpush/internal/execshell"
	"github.com/temirov/docpush/internal/gitpublish"
	"github.com/temirov/docpush/internal/gitrepo"
	"github.com/temirov/docpush/internal/javadoc"
	"github.com/temirov/docpush/internal/ui"
	"github.com/temirov/docpush/internal/utils"
	"github.com/temirov/docpush/internal/utils/flags"
	pathutils "github.com/temirov/docpush/internal/utils/path"
)

const (
	commandUseConstant                    = "publish"
	commandShortDescriptionConstant       = "Regenerate javadoc and push it to the repository"
	commandLongDescriptionConstant        = "publish runs javadoc over src/main/java, then stages, commits, and pushes the generated docs directory. Every command is bounded by the configured timeout and the first failure stops the run."
	commandExecutionErrorTemplateConstant = "documentation publish failed: %w"
	unexpectedArgumentsMessageConstant    = "publish does not accept positional arguments"
	summaryPublishedTemplateConstant      = "Published %s (%s -> %s)\n"
	summarySkippedTemplateConstant        = "Skipped %s: no documentation changes\n"
	summaryPlannedTemplateConstant        = "Planned publish of %s\n"
	unknownCommitPlaceholderConstant      = "unknown"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the loaded publish configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandExecutor runs the documentation tool and git.
type CommandExecutor interface {
	javadoc.Executor
	gitpublish.GitExecutor
}

// CommandBuilder assembles the Cobra command for documentation publishing.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        ConfigurationProvider
	Executor                     CommandExecutor
	Inspector                    RepositoryInspector
	PathResolver                 *pathutils.ProjectPathResolver
	RunIdentifierGenerator       func() string
}

// Build constructs the publish command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	flags.BindPublishFlags(command, flags.PublishFlagValues{
		Subpackages:   defaults.Subpackages,
		CommitMessage: defaults.CommitMessage,
		Timeout:       defaults.Timeout,
		RemoteName:    defaults.RemoteName,
		ProjectRoot:   defaults.ProjectRoot,
		DryRun:        defaults.DryRun,
	})

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	configuration, configurationError := builder.parseConfiguration(command)
	if configurationError != nil {
		return configurationError
	}

	projectRoot, projectRootError := builder.resolvePathResolver().ResolveRoot(configuration.ProjectRoot)
	if projectRootError != nil {
		return projectRootError
	}

	runIdentifier := builder.generateRunIdentifier()
	executionContext := utils.NewCommandContextAccessor().WithRunIdentifier(command.Context(), runIdentifier)
	logger := builder.resolveLogger().With(zap.String(logFieldRunIdentifierConstant, runIdentifier))

	executor, executorError := builder.resolveExecutor(logger, configuration.DryRun)
	if executorError != nil {
		return executorError
	}

	generatorService, generatorError := javadoc.NewService(javadoc.ServiceDependencies{Executor: executor})
	if generatorError != nil {
		return generatorError
	}
	publisherService, publisherError := gitpublish.NewService(gitpublish.ServiceDependencies{GitExecutor: executor})
	if publisherError != nil {
		return publisherError
	}

	service, serviceError := NewService(ServiceDependencies{
		Logger:    builder.resolveLogger(),
		Generator: generatorService,
		Publisher: publisherService,
		Inspector: builder.resolveInspector(),
	})
	if serviceError != nil {
		return serviceError
	}

	summary, runError := service.Run(executionContext, Options{
		ProjectRoot:      projectRoot,
		Subpackages:      configuration.Subpackages,
		CommitMessage:    configuration.CommitMessage,
		RemoteName:       configuration.RemoteName,
		Generator:        configuration.Generator,
		OutputDirectory:  configuration.OutputDirectory,
		SourceDirectory:  configuration.SourceDirectory,
		Timeout:          configuration.Timeout,
		VerifyRepository: configuration.VerifyRepository,
		SkipUnchanged:    configuration.SkipUnchanged,
		DryRun:           configuration.DryRun,
	})
	if runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}

	builder.printSummary(command, summary)
	return nil
}

func (builder *CommandBuilder) parseConfiguration(command *cobra.Command) (CommandConfiguration, error) {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	flagSet := command.Flags()
	if flagSet.Changed(flags.SubpackagesFlagName) {
		configuration.Subpackages, _ = flagSet.GetString(flags.SubpackagesFlagName)
	}
	if flagSet.Changed(flags.CommitMessageFlagName) {
		configuration.CommitMessage, _ = flagSet.GetString(flags.CommitMessageFlagName)
	}
	if flagSet.Changed(flags.TimeoutFlagName) {
		timeoutValue, parseError := utils.ParseSecondsDuration(flagSet.Lookup(flags.TimeoutFlagName).Value.String())
		if parseError != nil {
			return CommandConfiguration{}, parseError
		}
		configuration.Timeout = timeoutValue
	}
	if flagSet.Changed(flags.RemoteFlagName) {
		configuration.RemoteName, _ = flagSet.GetString(flags.RemoteFlagName)
	}
	if flagSet.Changed(flags.ProjectRootFlagName) {
		configuration.ProjectRoot, _ = flagSet.GetString(flags.ProjectRootFlagName)
	}
	if flagSet.Changed(flags.DryRunFlagName) {
		configuration.DryRun, _ = flagSet.GetBool(flags.DryRunFlagName)
	}

	sanitized := configuration.Sanitize()
	if sanitized.Timeout <= 0 {
		return CommandConfiguration{}, ErrTimeoutInvalid
	}
	return sanitized, nil
}

func (builder *CommandBuilder) printSummary(command *cobra.Command, summary Summary) {
	outputWriter := command.OutOrStdout()
	switch {
	case summary.DryRun:
		fmt.Fprintf(outputWriter, summaryPlannedTemplateConstant, summary.OutputDirectory)
	case summary.Skipped:
		fmt.Fprintf(outputWriter, summarySkippedTemplateConstant, summary.OutputDirectory)
	default:
		fmt.Fprintf(outputWriter, summaryPublishedTemplateConstant, summary.OutputDirectory, abbreviateCommit(summary.HeadBefore), abbreviateCommit(summary.HeadAfter))
	}
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger, dryRun bool) (CommandExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	executorOptions := execshell.ExecutorOptions{DryRun: dryRun}
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		executorOptions.Observer = ui.NewConsoleCommandEventLogger(logger)
	}

	commandRunner := execshell.NewStreamingOSCommandRunner(execshell.NewLoggerOutputSink(logger))
	shellExecutor, creationError := execshell.NewShellExecutorWithOptions(logger, commandRunner, executorOptions)
	if creationError != nil {
		return nil, creationError
	}

	return shellExecutor, nil
}

func (builder *CommandBuilder) resolveInspector() RepositoryInspector {
	if builder.Inspector != nil {
		return builder.Inspector
	}
	return gitrepo.NewInspector()
}

func (builder *CommandBuilder) resolvePathResolver() *pathutils.ProjectPathResolver {
	if builder.PathResolver != nil {
		return builder.PathResolver
	}
	return pathutils.NewProjectPathResolver()
}

func (builder *CommandBuilder) generateRunIdentifier() string {
	if builder.RunIdentifierGenerator != nil {
		if runIdentifier := builder.RunIdentifierGenerator(); len(runIdentifier) > 0 {
			return runIdentifier
		}
	}
	return uuid.NewString()
}

func abbreviateCommit(commitHash string) string {
	const abbreviatedLength = 7
	if len(commitHash) == 0 {
		return unknownCommitPlaceholderConstant
	}
	if len(commitHash) > abbreviatedLength {
		return commitHash[:abbreviatedLength]
	}
	return commitHash
}
