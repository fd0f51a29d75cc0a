package javadoc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/temirov/docpush/internal/execshell"
	pathutils "github.com/temirov/docpush/internal/utils/path"
)

const (
	// DefaultSubpackagesConstant is the subpackage filter used when none is configured.
	DefaultSubpackagesConstant = "com"
	// DefaultOutputDirectoryConstant is the generated documentation location relative to the project root.
	DefaultOutputDirectoryConstant = "docs"
	// DefaultSourceDirectoryConstant is the source path relative to the project root.
	DefaultSourceDirectoryConstant = "src/main/java"

	outputDirectoryFlagConstant        = "-d"
	sourcePathFlagConstant             = "-sourcepath"
	subpackagesFlagConstant            = "-subpackages"
	executorMissingMessageConstant     = "documentation executor not configured"
	projectRootRequiredMessageConstant = "project root must be provided"
	timeoutInvalidMessageConstant      = "generator timeout must be positive"
	generationFailureTemplateConstant  = "documentation generation failed: %w"
	subpackagesSeparatorConstant       = ":"
)

// ErrExecutorNotConfigured indicates the documentation executor dependency was missing.
var ErrExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// ErrProjectRootRequired indicates the project root option was empty.
var ErrProjectRootRequired = errors.New(projectRootRequiredMessageConstant)

// ErrTimeoutInvalid indicates a zero or negative generator timeout.
var ErrTimeoutInvalid = errors.New(timeoutInvalidMessageConstant)

// Executor runs the documentation tool.
type Executor interface {
	ExecuteDocumentationTool(executionContext context.Context, executable string, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	Executor Executor
}

// Options configure a single generator run.
type Options struct {
	ProjectRoot     string
	Subpackages     string
	OutputDirectory string
	SourceDirectory string
	Executable      string
	Timeout         time.Duration
}

// Result reports where documentation was generated.
type Result struct {
	OutputDirectory string
	SourceDirectory string
	Subpackages     string
}

// Service generates documentation.
type Service struct {
	executor Executor
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Service{executor: dependencies.Executor}, nil
}

// Generate invokes the generator with the resolved output, source, and subpackage arguments.
func (service *Service) Generate(executionContext context.Context, options Options) (Result, error) {
	projectRoot := strings.TrimSpace(options.ProjectRoot)
	if len(projectRoot) == 0 {
		return Result{}, ErrProjectRootRequired
	}
	if options.Timeout <= 0 {
		return Result{}, ErrTimeoutInvalid
	}

	result := Result{
		OutputDirectory: pathutils.ResolveWithin(projectRoot, valueOrDefault(options.OutputDirectory, DefaultOutputDirectoryConstant)),
		SourceDirectory: pathutils.ResolveWithin(projectRoot, valueOrDefault(options.SourceDirectory, DefaultSourceDirectoryConstant)),
		Subpackages:     normalizeSubpackages(options.Subpackages),
	}

	_, executionError := service.executor.ExecuteDocumentationTool(executionContext, strings.TrimSpace(options.Executable), execshell.CommandDetails{
		Arguments: []string{
			outputDirectoryFlagConstant, result.OutputDirectory,
			sourcePathFlagConstant, result.SourceDirectory,
			subpackagesFlagConstant, result.Subpackages,
		},
		WorkingDirectory: projectRoot,
		Timeout:          options.Timeout,
	})
	if executionError != nil {
		return Result{}, fmt.Errorf(generationFailureTemplateConstant, executionError)
	}
	return result, nil
}

// normalizeSubpackages accepts comma or whitespace separated lists and joins them the way javadoc expects.
func normalizeSubpackages(candidate string) string {
	fields := strings.FieldsFunc(candidate, func(character rune) bool {
		return character == ',' || character == ' ' || character == '\t'
	})
	if len(fields) == 0 {
		return DefaultSubpackagesConstant
	}
	return strings.Join(fields, subpackagesSeparatorConstant)
}

func valueOrDefault(candidate string, fallback string) string {
	trimmed := strings.TrimSpace(candidate)
	if len(trimmed) == 0 {
		return fallback
	}
	return trimmed
}
