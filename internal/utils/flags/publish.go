package flags

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/temirov/docpush/internal/utils"
)

const (
	// SubpackagesFlagName selects the packages passed to the documentation generator.
	SubpackagesFlagName = "subpackages"
	// CommitMessageFlagName sets the message of the documentation commit.
	CommitMessageFlagName = "commit-message"
	// TimeoutFlagName bounds every external command.
	TimeoutFlagName = "timeout"
	// RemoteFlagName selects the push remote.
	RemoteFlagName = "remote"
	// ProjectRootFlagName points at the project to document.
	ProjectRootFlagName = "project-root"
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"

	subpackagesFlagUsageConstant   = "Subpackages to document, comma or colon separated"
	commitMessageFlagUsageConstant = "Commit message for the regenerated documentation"
	timeoutFlagUsageConstant       = "Per-command timeout in seconds or as a duration (e.g. 10, 2m)"
	secondsDurationTypeConstant    = "duration"
	remoteFlagUsageConstant        = "Remote to push to (defaults to the branch upstream)"
	projectRootFlagUsageConstant   = "Project root containing src/main/java"
	dryRunFlagUsageConstant        = "Log the planned commands without running them"
)

// PublishFlagValues stores the values bound to the publish flags.
type PublishFlagValues struct {
	Subpackages   string
	CommitMessage string
	Timeout       time.Duration
	RemoteName    string
	ProjectRoot   string
	DryRun        bool
}

// BindPublishFlags attaches the publish flags to the command. Defaults are shown in help only;
// callers apply a flag value when command.Flags().Changed reports it was set.
func BindPublishFlags(command *cobra.Command, defaults PublishFlagValues) *PublishFlagValues {
	values := defaults
	if command == nil {
		return &values
	}

	flagSet := command.Flags()
	flagSet.StringVar(&values.Subpackages, SubpackagesFlagName, defaults.Subpackages, subpackagesFlagUsageConstant)
	flagSet.StringVarP(&values.CommitMessage, CommitMessageFlagName, "m", defaults.CommitMessage, commitMessageFlagUsageConstant)
	flagSet.Var(&secondsDurationValue{target: &values.Timeout}, TimeoutFlagName, timeoutFlagUsageConstant)
	flagSet.StringVar(&values.RemoteName, RemoteFlagName, defaults.RemoteName, remoteFlagUsageConstant)
	flagSet.StringVar(&values.ProjectRoot, ProjectRootFlagName, defaults.ProjectRoot, projectRootFlagUsageConstant)
	flagSet.BoolVar(&values.DryRun, DryRunFlagName, defaults.DryRun, dryRunFlagUsageConstant)

	return &values
}

type secondsDurationValue struct {
	target *time.Duration
}

func (value *secondsDurationValue) String() string {
	if value == nil || value.target == nil {
		return ""
	}
	return value.target.String()
}

func (value *secondsDurationValue) Set(candidate string) error {
	duration, parseError := utils.ParseSecondsDuration(candidate)
	if parseError != nil {
		return parseError
	}
	*value.target = duration
	return nil
}

func (value *secondsDurationValue) Type() string {
	return secondsDurationTypeConstant
}
