package docpublish

import (
	"strings"
	"time"

	"github.com/temirov/docpush/internal/gitpublish"
	"github.com/temirov/docpush/internal/javadoc"
)

const (
	defaultTimeoutConstant            = 10 * time.Second
	defaultProjectRootConstant        = "."
	defaultGeneratorConstant          = "javadoc"
	configurationKeySeparatorConstant = "."
	subpackagesKeyConstant            = "subpackages"
	commitMessageKeyConstant          = "commit_message"
	timeoutKeyConstant                = "timeout"
	remoteKeyConstant                 = "remote"
	projectRootKeyConstant            = "project_root"
	generatorKeyConstant              = "generator"
	outputDirectoryKeyConstant        = "output_directory"
	sourceDirectoryKeyConstant        = "source_directory"
	verifyRepositoryKeyConstant       = "verify_repository"
	skipUnchangedKeyConstant          = "skip_unchanged"
	dryRunKeyConstant                 = "dry_run"
)

// CommandConfiguration captures configuration values for the publish command.
type CommandConfiguration struct {
	Subpackages      string        `mapstructure:"subpackages" yaml:"subpackages"`
	CommitMessage    string        `mapstructure:"commit_message" yaml:"commit_message"`
	Timeout          time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RemoteName       string        `mapstructure:"remote" yaml:"remote"`
	ProjectRoot      string        `mapstructure:"project_root" yaml:"project_root"`
	Generator        string        `mapstructure:"generator" yaml:"generator"`
	OutputDirectory  string        `mapstructure:"output_directory" yaml:"output_directory"`
	SourceDirectory  string        `mapstructure:"source_directory" yaml:"source_directory"`
	VerifyRepository bool          `mapstructure:"verify_repository" yaml:"verify_repository"`
	SkipUnchanged    bool          `mapstructure:"skip_unchanged" yaml:"skip_unchanged"`
	DryRun           bool          `mapstructure:"dry_run" yaml:"dry_run"`
}

// DefaultCommandConfiguration provides baseline configuration values for the publish command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Subpackages:      javadoc.DefaultSubpackagesConstant,
		CommitMessage:    gitpublish.DefaultCommitMessageConstant,
		Timeout:          defaultTimeoutConstant,
		RemoteName:       "",
		ProjectRoot:      defaultProjectRootConstant,
		Generator:        defaultGeneratorConstant,
		OutputDirectory:  javadoc.DefaultOutputDirectoryConstant,
		SourceDirectory:  javadoc.DefaultSourceDirectoryConstant,
		VerifyRepository: true,
		SkipUnchanged:    false,
		DryRun:           false,
	}
}

// DefaultConfigurationValues exposes the defaults keyed beneath the provided configuration prefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	values := map[string]any{
		subpackagesKeyConstant:      defaults.Subpackages,
		commitMessageKeyConstant:    defaults.CommitMessage,
		timeoutKeyConstant:          defaults.Timeout,
		remoteKeyConstant:           defaults.RemoteName,
		projectRootKeyConstant:      defaults.ProjectRoot,
		generatorKeyConstant:        defaults.Generator,
		outputDirectoryKeyConstant:  defaults.OutputDirectory,
		sourceDirectoryKeyConstant:  defaults.SourceDirectory,
		verifyRepositoryKeyConstant: defaults.VerifyRepository,
		skipUnchangedKeyConstant:    defaults.SkipUnchanged,
		dryRunKeyConstant:           defaults.DryRun,
	}

	trimmedPrefix := strings.Trim(strings.TrimSpace(configurationPrefix), configurationKeySeparatorConstant)
	if len(trimmedPrefix) == 0 {
		return values
	}

	prefixed := make(map[string]any, len(values))
	for key, value := range values {
		prefixed[trimmedPrefix+configurationKeySeparatorConstant+key] = value
	}
	return prefixed
}

// Sanitize trims textual values and restores defaults for empty ones.
// The commit message keeps its inner whitespace and the remote may stay empty.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.Subpackages = trimmedOrDefault(configuration.Subpackages, defaults.Subpackages)
	if len(strings.TrimSpace(configuration.CommitMessage)) == 0 {
		sanitized.CommitMessage = defaults.CommitMessage
	}
	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	sanitized.ProjectRoot = trimmedOrDefault(configuration.ProjectRoot, defaults.ProjectRoot)
	sanitized.Generator = trimmedOrDefault(configuration.Generator, defaults.Generator)
	sanitized.OutputDirectory = trimmedOrDefault(configuration.OutputDirectory, defaults.OutputDirectory)
	sanitized.SourceDirectory = trimmedOrDefault(configuration.SourceDirectory, defaults.SourceDirectory)

	return sanitized
}

// MarshalYAML renders the timeout as a duration string instead of nanoseconds.
func (configuration CommandConfiguration) MarshalYAML() (any, error) {
	return struct {
		Subpackages      string `yaml:"subpackages"`
		CommitMessage    string `yaml:"commit_message"`
		Timeout          string `yaml:"timeout"`
		RemoteName       string `yaml:"remote"`
		ProjectRoot      string `yaml:"project_root"`
		Generator        string `yaml:"generator"`
		OutputDirectory  string `yaml:"output_directory"`
		SourceDirectory  string `yaml:"source_directory"`
		VerifyRepository bool   `yaml:"verify_repository"`
		SkipUnchanged    bool   `yaml:"skip_unchanged"`
		DryRun           bool   `yaml:"dry_run"`
	}{
		Subpackages:      configuration.Subpackages,
		CommitMessage:    configuration.CommitMessage,
		Timeout:          configuration.Timeout.String(),
		RemoteName:       configuration.RemoteName,
		ProjectRoot:      configuration.ProjectRoot,
		Generator:        configuration.Generator,
		OutputDirectory:  configuration.OutputDirectory,
		SourceDirectory:  configuration.SourceDirectory,
		VerifyRepository: configuration.VerifyRepository,
		SkipUnchanged:    configuration.SkipUnchanged,
		DryRun:           configuration.DryRun,
	}, nil
}

func trimmedOrDefault(candidate string, fallback string) string {
	trimmed := strings.TrimSpace(candidate)
	if len(trimmed) == 0 {
		return fallback
	}
	return trimmed
}
