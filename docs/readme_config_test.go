package docs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/docpush/cmd/cli"
	"github.com/temirov/docpush/internal/docpublish"
	"github.com/temirov/docpush/internal/utils"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# config.yaml"
	readmeSnippetFileNameConstant    = "config.yaml"
	readmeEnvironmentPrefixConstant  = "READMEDOCPUSH"
	parentDirectoryReferenceConstant = ".."
	publishConfigurationPrefix       = "tools.publish"
	missingHeaderMessageConstant     = "README example missing config header marker"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
	unexpectedKeyMessageTemplate     = "README example uses unknown publish key %s"
)

func readReadmeConfigurationSnippet(testInstance *testing.T) string {
	testInstance.Helper()
	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	contentBytes, readError := os.ReadFile(filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant))
	require.NoError(testInstance, readError)

	contentText := string(contentBytes)
	headerIndex := strings.Index(contentText, configHeaderMarkerConstant)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant)

	fenceStartIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex, missingStartFenceMessageConstant)

	fenceEndRelativeIndex := strings.Index(contentText[headerIndex:], yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex, missingEndFenceMessageConstant)
	fenceEndIndex := headerIndex + fenceEndRelativeIndex

	return strings.TrimSpace(contentText[fenceStartIndex+len(yamlFenceStartConstant) : fenceEndIndex])
}

func TestReadmeConfigurationUsesKnownPublishKeys(testInstance *testing.T) {
	snippetContent := readReadmeConfigurationSnippet(testInstance)

	var document struct {
		Tools struct {
			Publish map[string]any `yaml:"publish"`
		} `yaml:"tools"`
	}
	require.NoError(testInstance, yaml.Unmarshal([]byte(snippetContent), &document))
	require.NotEmpty(testInstance, document.Tools.Publish)

	knownKeys := docpublish.DefaultConfigurationValues("")
	for key := range document.Tools.Publish {
		_, known := knownKeys[key]
		require.Truef(testInstance, known, unexpectedKeyMessageTemplate, key)
	}
}

func TestReadmeConfigurationLoads(testInstance *testing.T) {
	snippetContent := readReadmeConfigurationSnippet(testInstance)

	configurationPath := filepath.Join(testInstance.TempDir(), readmeSnippetFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(snippetContent), 0o600))

	loader := utils.NewConfigurationLoader("config", "yaml", readmeEnvironmentPrefixConstant, nil)
	loader.SetDecodeHooks(utils.SecondsDurationDecodeHook())

	var configuration cli.ApplicationConfiguration
	loadedConfiguration, loadError := loader.LoadConfiguration(configurationPath, docpublish.DefaultConfigurationValues(publishConfigurationPrefix), &configuration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, configurationPath, loadedConfiguration.ConfigFileUsed)

	publishConfiguration := configuration.Tools.Publish.Sanitize()
	require.Equal(testInstance, "com.example", publishConfiguration.Subpackages)
	require.Equal(testInstance, 2*time.Minute, publishConfiguration.Timeout)
	require.Equal(testInstance, "origin", publishConfiguration.RemoteName)
	require.True(testInstance, publishConfiguration.SkipUnchanged)
	require.Equal(testInstance, "console", configuration.Common.LogFormat)
}
