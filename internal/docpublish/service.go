package docpublish

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/temirov/docpush/internal/gitpublish"
	"github.com/temirov/docpush/internal/gitrepo"
	"github.com/temirov/docpush/internal/javadoc"
	"github.com/temirov/docpush/internal/utils"
	pathutils "github.com/temirov/docpush/internal/utils/path"
)

const (
	// StepVerifyRepository names the repository pre-flight in failures.
	StepVerifyRepository = "verify repository"
	// StepGenerateDocumentation names the generator step in failures.
	StepGenerateDocumentation = "generate documentation"
	// StepCheckChanges names the unchanged-output check in failures.
	StepCheckChanges = "check documentation changes"
	// StepPublishDocumentation names the add, commit, and push step in failures.
	StepPublishDocumentation = "publish documentation"

	stepErrorTemplateConstant             = "%s: %v"
	generatorMissingMessageConstant       = "documentation generator not configured"
	publisherMissingMessageConstant       = "documentation publisher not configured"
	inspectorMissingMessageConstant       = "repository inspector not configured"
	projectRootRequiredMessageConstant    = "project root must be provided"
	timeoutInvalidMessageConstant         = "timeout must be positive"
	runStartedMessageConstant             = "documentation publish started"
	repositoryVerifiedMessageConstant     = "repository verified"
	documentationGeneratedMessageConstant = "documentation generated"
	documentationUnchangedMessageConstant = "documentation unchanged; skipping commit and push"
	documentationPublishedMessageConstant = "documentation published"
	documentationPlannedMessageConstant   = "documentation publish planned"
	headAfterUnavailableMessageConstant   = "unable to read HEAD after publishing"
	logFieldRunIdentifierConstant         = "run_id"
	logFieldProjectRootConstant           = "project_root"
	logFieldOutputDirectoryConstant       = "output_directory"
	logFieldSubpackagesConstant           = "subpackages"
	logFieldTimeoutConstant               = "timeout"
	logFieldBranchConstant                = "branch"
	logFieldHeadConstant                  = "head"
	logFieldHeadBeforeConstant            = "head_before"
	logFieldHeadAfterConstant             = "head_after"
	logFieldRemoteConstant                = "remote"
	logFieldRemoteLocationConstant        = "remote_location"
	logFieldDryRunConstant                = "dry_run"
	logFieldErrorConstant                 = "error"
)

// ErrGeneratorNotConfigured indicates the documentation generator dependency was missing.
var ErrGeneratorNotConfigured = errors.New(generatorMissingMessageConstant)

// ErrPublisherNotConfigured indicates the publisher dependency was missing.
var ErrPublisherNotConfigured = errors.New(publisherMissingMessageConstant)

// ErrInspectorNotConfigured indicates repository checks were requested without an inspector.
var ErrInspectorNotConfigured = errors.New(inspectorMissingMessageConstant)

// ErrProjectRootRequired indicates the project root option was empty.
var ErrProjectRootRequired = errors.New(projectRootRequiredMessageConstant)

// ErrTimeoutInvalid indicates a zero or negative per-command timeout.
var ErrTimeoutInvalid = errors.New(timeoutInvalidMessageConstant)

// StepError reports the step that ended a run and the failure it raised.
type StepError struct {
	Step  string
	Cause error
}

// Error prefixes the failure with the step name.
func (stepError StepError) Error() string {
	return fmt.Sprintf(stepErrorTemplateConstant, stepError.Step, stepError.Cause)
}

// Unwrap exposes the step failure so callers can match TimeoutError and LaunchError.
func (stepError StepError) Unwrap() error {
	return stepError.Cause
}

// DocumentationGenerator runs the documentation tool.
type DocumentationGenerator interface {
	Generate(executionContext context.Context, options javadoc.Options) (javadoc.Result, error)
}

// DocumentationPublisher records and pushes generated documentation.
type DocumentationPublisher interface {
	Publish(executionContext context.Context, options gitpublish.Options) error
}

// RepositoryInspector reads repository state without running git.
type RepositoryInspector interface {
	Inspect(path string, remoteName string) (gitrepo.RepositoryState, error)
	HeadHash(path string) (string, error)
	HasPendingChanges(path string, subdirectory string) (bool, error)
}

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	Logger    *zap.Logger
	Generator DocumentationGenerator
	Publisher DocumentationPublisher
	Inspector RepositoryInspector
}

// Options configure one publish run. ProjectRoot must already be resolved; the service never consults the working directory.
type Options struct {
	ProjectRoot      string
	Subpackages      string
	CommitMessage    string
	RemoteName       string
	Generator        string
	OutputDirectory  string
	SourceDirectory  string
	Timeout          time.Duration
	VerifyRepository bool
	SkipUnchanged    bool
	DryRun           bool
}

// Summary reports what a run did.
type Summary struct {
	RunIdentifier   string
	ProjectRoot     string
	OutputDirectory string
	HeadBefore      string
	HeadAfter       string
	Skipped         bool
	DryRun          bool
}

// Service coordinates the generator and publisher steps.
type Service struct {
	logger          *zap.Logger
	generator       DocumentationGenerator
	publisher       DocumentationPublisher
	inspector       RepositoryInspector
	contextAccessor utils.CommandContextAccessor
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Generator == nil {
		return nil, ErrGeneratorNotConfigured
	}
	if dependencies.Publisher == nil {
		return nil, ErrPublisherNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		logger:          logger,
		generator:       dependencies.Generator,
		publisher:       dependencies.Publisher,
		inspector:       dependencies.Inspector,
		contextAccessor: utils.NewCommandContextAccessor(),
	}, nil
}

// Run generates the documentation and publishes it. Steps run strictly in order and
// the first failure is returned as a StepError without retrying.
func (service *Service) Run(executionContext context.Context, options Options) (Summary, error) {
	projectRoot := strings.TrimSpace(options.ProjectRoot)
	if len(projectRoot) == 0 {
		return Summary{}, ErrProjectRootRequired
	}
	if options.Timeout <= 0 {
		return Summary{}, ErrTimeoutInvalid
	}
	if (options.VerifyRepository || options.SkipUnchanged) && service.inspector == nil {
		return Summary{}, ErrInspectorNotConfigured
	}

	runIdentifier, runIdentifierAvailable := service.contextAccessor.RunIdentifier(executionContext)
	if !runIdentifierAvailable {
		runIdentifier = uuid.NewString()
	}
	runLogger := service.logger.With(zap.String(logFieldRunIdentifierConstant, runIdentifier))

	summary := Summary{
		RunIdentifier:   runIdentifier,
		ProjectRoot:     projectRoot,
		OutputDirectory: pathutils.ResolveWithin(projectRoot, valueOrDefault(options.OutputDirectory, javadoc.DefaultOutputDirectoryConstant)),
		DryRun:          options.DryRun,
	}

	runLogger.Info(
		runStartedMessageConstant,
		zap.String(logFieldProjectRootConstant, projectRoot),
		zap.String(logFieldSubpackagesConstant, options.Subpackages),
		zap.Duration(logFieldTimeoutConstant, options.Timeout),
		zap.Bool(logFieldDryRunConstant, options.DryRun),
	)

	if options.VerifyRepository {
		repositoryState, inspectError := service.inspector.Inspect(projectRoot, options.RemoteName)
		if inspectError != nil {
			return summary, StepError{Step: StepVerifyRepository, Cause: inspectError}
		}
		summary.HeadBefore = repositoryState.HeadHash
		runLogger.Info(
			repositoryVerifiedMessageConstant,
			zap.String(logFieldBranchConstant, repositoryState.BranchName),
			zap.String(logFieldHeadConstant, repositoryState.HeadHash),
			zap.String(logFieldRemoteConstant, repositoryState.RemoteName),
			zap.String(logFieldRemoteLocationConstant, repositoryState.Remote.String()),
		)
	}

	generationResult, generationError := service.generator.Generate(executionContext, javadoc.Options{
		ProjectRoot:     projectRoot,
		Subpackages:     options.Subpackages,
		OutputDirectory: options.OutputDirectory,
		SourceDirectory: options.SourceDirectory,
		Executable:      options.Generator,
		Timeout:         options.Timeout,
	})
	if generationError != nil {
		return summary, StepError{Step: StepGenerateDocumentation, Cause: generationError}
	}
	if len(generationResult.OutputDirectory) > 0 {
		summary.OutputDirectory = generationResult.OutputDirectory
	}
	runLogger.Info(documentationGeneratedMessageConstant, zap.String(logFieldOutputDirectoryConstant, summary.OutputDirectory))

	if options.SkipUnchanged && !options.DryRun {
		pending, pendingError := service.inspector.HasPendingChanges(projectRoot, summary.OutputDirectory)
		if pendingError != nil {
			return summary, StepError{Step: StepCheckChanges, Cause: pendingError}
		}
		if !pending {
			summary.Skipped = true
			summary.HeadAfter = summary.HeadBefore
			runLogger.Info(documentationUnchangedMessageConstant, zap.String(logFieldOutputDirectoryConstant, summary.OutputDirectory))
			return summary, nil
		}
	}

	if publishError := service.publisher.Publish(executionContext, gitpublish.Options{
		ProjectRoot:     projectRoot,
		OutputDirectory: summary.OutputDirectory,
		CommitMessage:   options.CommitMessage,
		RemoteName:      options.RemoteName,
		Timeout:         options.Timeout,
	}); publishError != nil {
		return summary, StepError{Step: StepPublishDocumentation, Cause: publishError}
	}

	if options.DryRun {
		runLogger.Info(documentationPlannedMessageConstant, zap.String(logFieldOutputDirectoryConstant, summary.OutputDirectory))
		return summary, nil
	}

	if options.VerifyRepository {
		headAfter, headError := service.inspector.HeadHash(projectRoot)
		if headError != nil {
			runLogger.Warn(headAfterUnavailableMessageConstant, zap.String(logFieldErrorConstant, headError.Error()))
		}
		summary.HeadAfter = headAfter
	}

	runLogger.Info(
		documentationPublishedMessageConstant,
		zap.String(logFieldOutputDirectoryConstant, summary.OutputDirectory),
		zap.String(logFieldHeadBeforeConstant, summary.HeadBefore),
		zap.String(logFieldHeadAfterConstant, summary.HeadAfter),
	)
	return summary, nil
}

func valueOrDefault(candidate string, fallback string) string {
	trimmed := strings.TrimSpace(candidate)
	if len(trimmed) == 0 {
		return fallback
	}
	return trimmed
}
