package flags_test

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/temirov/docpush/internal/utils/flags"
)

func TestBindPublishFlagsParsesValues(t *testing.T) {
	command := &cobra.Command{Use: "publish"}
	values := flags.BindPublishFlags(command, flags.PublishFlagValues{Subpackages: "com", Timeout: 10 * time.Second})

	require.NoError(t, command.ParseFlags([]string{
		"--subpackages", "mypkg",
		"-m", "Docs v2",
		"--timeout", "30",
		"--remote", "origin",
		"--project-root", "/repo",
		"--dry-run",
	}))

	require.Equal(t, flags.PublishFlagValues{
		Subpackages:   "mypkg",
		CommitMessage: "Docs v2",
		Timeout:       30 * time.Second,
		RemoteName:    "origin",
		ProjectRoot:   "/repo",
		DryRun:        true,
	}, *values)
	require.True(t, command.Flags().Changed(flags.TimeoutFlagName))
	require.False(t, command.Flags().Changed("config"))
}

func TestBindPublishFlagsAcceptsDurationStrings(t *testing.T) {
	command := &cobra.Command{Use: "publish"}
	values := flags.BindPublishFlags(command, flags.PublishFlagValues{Timeout: 10 * time.Second})

	require.NoError(t, command.ParseFlags([]string{"--timeout", "1m30s"}))
	require.Equal(t, 90*time.Second, values.Timeout)

	rejectingCommand := &cobra.Command{Use: "publish"}
	flags.BindPublishFlags(rejectingCommand, flags.PublishFlagValues{})
	require.Error(t, rejectingCommand.ParseFlags([]string{"--timeout", "soon"}))
}
