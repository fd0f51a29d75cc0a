package utils_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/docpush/internal/docpublish"
	"github.com/temirov/docpush/internal/javadoc"
	"github.com/temirov/docpush/internal/utils"
)

const (
	testEnvironmentPrefixConstant       = "TESTDOCPUSH"
	testConfigurationNameConstant       = "config"
	testConfigurationTypeConstant       = "yaml"
	testConfigFileNameConstant          = "config.yaml"
	testPublishPrefixConstant           = "tools.publish"
	testEmbeddedConfigurationConstant   = "common:\n  log_level: info\ntools:\n  publish:\n    subpackages: com\n    commit_message: Update javadoc\n    timeout: 10\n"
	testTimeoutEnvironmentNameConstant  = "TESTDOCPUSH_TOOLS_PUBLISH_TIMEOUT"
	testRemoteEnvironmentNameConstant   = "TESTDOCPUSH_TOOLS_PUBLISH_REMOTE"
	testLogLevelEnvironmentNameConstant = "TESTDOCPUSH_COMMON_LOG_LEVEL"
)

type publishConfigurationFixture struct {
	Common struct {
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"common"`
	Tools struct {
		Publish docpublish.CommandConfiguration `mapstructure:"publish"`
	} `mapstructure:"tools"`
}

func newPublishConfigurationLoader(searchPaths ...string) *utils.ConfigurationLoader {
	loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, searchPaths)
	loader.SetEmbeddedConfiguration([]byte(testEmbeddedConfigurationConstant), testConfigurationTypeConstant)
	loader.SetDecodeHooks(utils.SecondsDurationDecodeHook())
	return loader
}

func TestConfigurationLoaderLayersPublishConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name                  string
		fileContent           string
		environment           map[string]string
		expectedSubpackages   string
		expectedCommitMessage string
		expectedTimeout       time.Duration
		expectedRemote        string
		expectedLogLevel      string
		expectedOutput        string
	}{
		{
			name:                  "EmbeddedDefaults",
			expectedSubpackages:   "com",
			expectedCommitMessage: "Update javadoc",
			expectedTimeout:       10 * time.Second,
			expectedLogLevel:      "info",
			expectedOutput:        javadoc.DefaultOutputDirectoryConstant,
		},
		{
			name:                  "FileOverridesEmbedded",
			fileContent:           "tools:\n  publish:\n    subpackages: org.example\n    timeout: 2m\n    output_directory: site/api\n",
			expectedSubpackages:   "org.example",
			expectedCommitMessage: "Update javadoc",
			expectedTimeout:       2 * time.Minute,
			expectedLogLevel:      "info",
			expectedOutput:        "site/api",
		},
		{
			name:        "EnvironmentOverridesFile",
			fileContent: "common:\n  log_level: warn\ntools:\n  publish:\n    timeout: 2m\n    remote: upstream\n",
			environment: map[string]string{
				testTimeoutEnvironmentNameConstant:  "45",
				testRemoteEnvironmentNameConstant:   "origin",
				testLogLevelEnvironmentNameConstant: "debug",
			},
			expectedSubpackages:   "com",
			expectedCommitMessage: "Update javadoc",
			expectedTimeout:       45 * time.Second,
			expectedRemote:        "origin",
			expectedLogLevel:      "debug",
			expectedOutput:        javadoc.DefaultOutputDirectoryConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			configurationFilePath := ""
			if len(testCase.fileContent) > 0 {
				configurationFilePath = filepath.Join(testInstance.TempDir(), testConfigFileNameConstant)
				require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(testCase.fileContent), 0o600))
			}
			for environmentName, environmentValue := range testCase.environment {
				testInstance.Setenv(environmentName, environmentValue)
			}

			loadedConfiguration := publishConfigurationFixture{}
			metadata, loadError := newPublishConfigurationLoader(testInstance.TempDir()).LoadConfiguration(
				configurationFilePath,
				docpublish.DefaultConfigurationValues(testPublishPrefixConstant),
				&loadedConfiguration,
			)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)

			publishConfiguration := loadedConfiguration.Tools.Publish
			require.Equal(testInstance, testCase.expectedSubpackages, publishConfiguration.Subpackages)
			require.Equal(testInstance, testCase.expectedCommitMessage, publishConfiguration.CommitMessage)
			require.Equal(testInstance, testCase.expectedTimeout, publishConfiguration.Timeout)
			require.Equal(testInstance, testCase.expectedRemote, publishConfiguration.RemoteName)
			require.Equal(testInstance, testCase.expectedOutput, publishConfiguration.OutputDirectory)
			require.Equal(testInstance, testCase.expectedLogLevel, loadedConfiguration.Common.LogLevel)
		})
	}
}

func TestConfigurationLoaderFillsKeysMissingFromEmbeddedConfiguration(testInstance *testing.T) {
	loadedConfiguration := publishConfigurationFixture{}
	_, loadError := newPublishConfigurationLoader(testInstance.TempDir()).LoadConfiguration(
		"",
		docpublish.DefaultConfigurationValues(testPublishPrefixConstant),
		&loadedConfiguration,
	)
	require.NoError(testInstance, loadError)

	publishConfiguration := loadedConfiguration.Tools.Publish
	require.Equal(testInstance, javadoc.DefaultSourceDirectoryConstant, publishConfiguration.SourceDirectory)
	require.True(testInstance, publishConfiguration.VerifyRepository)
	require.False(testInstance, publishConfiguration.SkipUnchanged)
	require.False(testInstance, publishConfiguration.DryRun)
}

func TestConfigurationLoaderFindsConfigurationInSearchPath(testInstance *testing.T) {
	projectDirectory := testInstance.TempDir()
	configurationFilePath := filepath.Join(projectDirectory, testConfigFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte("tools:\n  publish:\n    commit_message: Docs v2\n"), 0o600))

	loadedConfiguration := publishConfigurationFixture{}
	metadata, loadError := newPublishConfigurationLoader(projectDirectory).LoadConfiguration(
		"",
		docpublish.DefaultConfigurationValues(testPublishPrefixConstant),
		&loadedConfiguration,
	)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
	require.Equal(testInstance, "Docs v2", loadedConfiguration.Tools.Publish.CommitMessage)
	require.Equal(testInstance, 10*time.Second, loadedConfiguration.Tools.Publish.Timeout)
}

func TestConfigurationLoaderRejectsInvalidTimeout(testInstance *testing.T) {
	testInstance.Setenv(testTimeoutEnvironmentNameConstant, "soon")

	loadedConfiguration := publishConfigurationFixture{}
	_, loadError := newPublishConfigurationLoader(testInstance.TempDir()).LoadConfiguration(
		"",
		docpublish.DefaultConfigurationValues(testPublishPrefixConstant),
		&loadedConfiguration,
	)
	require.ErrorContains(testInstance, loadError, "invalid duration")
}
