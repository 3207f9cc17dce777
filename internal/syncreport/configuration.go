package syncreport

import (
	"fmt"
	"strings"
)

const (
	outputConfigurationKeyConstant           = "output"
	compareOrphansConfigurationKeyConstant   = "compare_orphans"
	includeUntrackedConfigurationKeyConstant = "include_untracked"
	configurationKeySeparatorConstant        = "."
	unsupportedOutputFormatTemplateConstant  = "unsupported output format %q (expected one of text|yaml|toml)"
)

// OutputFormat selects how a collected report is rendered.
type OutputFormat string

// Supported output formats.
const (
	OutputFormatText OutputFormat = "text"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatTOML OutputFormat = "toml"
)

// OutputFormatChoices lists the accepted output format values.
func OutputFormatChoices() []string {
	return []string{string(OutputFormatText), string(OutputFormatYAML), string(OutputFormatTOML)}
}

// ParseOutputFormat normalizes and validates an output format value.
func ParseOutputFormat(value string) (OutputFormat, error) {
	normalized := OutputFormat(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case OutputFormatText, OutputFormatYAML, OutputFormatTOML:
		return normalized, nil
	default:
		return "", fmt.Errorf(unsupportedOutputFormatTemplateConstant, value)
	}
}

// UnmarshalText validates the textual configuration value.
func (format *OutputFormat) UnmarshalText(text []byte) error {
	parsed, parseError := ParseOutputFormat(string(text))
	if parseError != nil {
		return parseError
	}
	*format = parsed
	return nil
}

// CommandConfiguration captures persistent settings for report collection and rendering.
type CommandConfiguration struct {
	Output           OutputFormat `mapstructure:"output"`
	CompareOrphans   bool         `mapstructure:"compare_orphans"`
	IncludeUntracked bool         `mapstructure:"include_untracked"`
}

// DefaultCommandConfiguration returns baseline configuration values.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Output:           OutputFormatText,
		CompareOrphans:   true,
		IncludeUntracked: true,
	}
}

// DefaultConfigurationValues returns the default configuration keyed under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefixedKey(prefix, outputConfigurationKeyConstant):           string(defaults.Output),
		prefixedKey(prefix, compareOrphansConfigurationKeyConstant):   defaults.CompareOrphans,
		prefixedKey(prefix, includeUntrackedConfigurationKeyConstant): defaults.IncludeUntracked,
	}
}

func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	if len(sanitized.Output) == 0 {
		sanitized.Output = OutputFormatText
	}
	return sanitized
}

func prefixedKey(prefix string, key string) string {
	trimmedPrefix := strings.TrimSpace(prefix)
	if len(trimmedPrefix) == 0 {
		return key
	}
	return trimmedPrefix + configurationKeySeparatorConstant + key
}
