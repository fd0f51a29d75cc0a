package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/temirov/docpush/internal/utils"
)

const (
	configurationCommandUseConstant              = "config"
	configurationCommandShortDescriptionConstant = "Print the effective configuration as YAML"
	configurationCommandLongDescriptionConstant  = "config prints the configuration publish would use after merging embedded defaults, the configuration file, DOCPUSH_* environment variables, and global flags."
	configurationSourceHeaderTemplateConstant    = "# configuration file: %s\n"
	embeddedDefaultsSourceConstant               = "none (embedded defaults)"
	configurationEncodeErrorTemplateConstant     = "unable to render configuration: %w"
	yamlIndentationConstant                      = 2
)

// ConfigurationCommandBuilder assembles the command that prints the effective configuration.
type ConfigurationCommandBuilder struct {
	ConfigurationProvider func() ApplicationConfiguration
}

// Build constructs the config command.
func (builder ConfigurationCommandBuilder) Build() *cobra.Command {
	return &cobra.Command{
		Use:   configurationCommandUseConstant,
		Short: configurationCommandShortDescriptionConstant,
		Long:  configurationCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
}

func (builder ConfigurationCommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := ApplicationConfiguration{}
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	configuration.Tools.Publish = configuration.Tools.Publish.Sanitize()

	configurationSource := embeddedDefaultsSourceConstant
	if configurationFilePath, available := utils.NewCommandContextAccessor().ConfigurationFilePath(command.Context()); available {
		configurationSource = configurationFilePath
	}

	outputWriter := command.OutOrStdout()
	fmt.Fprintf(outputWriter, configurationSourceHeaderTemplateConstant, configurationSource)

	encoder := yaml.NewEncoder(outputWriter)
	encoder.SetIndent(yamlIndentationConstant)
	if encodeError := encoder.Encode(configuration); encodeError != nil {
		return fmt.Errorf(configurationEncodeErrorTemplateConstant, encodeError)
	}
	return encoder.Close()
}
