package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(testInstance *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "default_first_choice",
			defaultChoice:  "text",
			choices:        []string{"text", "yaml"},
			description:    "Report format",
			expectedOutput: "`<TEXT|yaml>` Report format",
		},
		{
			name:           "default_second_choice",
			defaultChoice:  "console",
			choices:        []string{"structured", "console"},
			description:    "Diagnostic log format",
			expectedOutput: "`<structured|CONSOLE>` Diagnostic log format",
		},
		{
			name:           "empty_description",
			defaultChoice:  "info",
			choices:        []string{"debug", "info"},
			description:    "  ",
			expectedOutput: "`<debug|INFO>`",
		},
		{
			name:           "duplicates_and_blanks_ignored",
			defaultChoice:  "yaml",
			choices:        []string{"yaml", "YAML", " ", "text"},
			description:    "Report format",
			expectedOutput: "`<YAML|text>` Report format",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			actual := FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description)
			require.Equal(subTest, testCase.expectedOutput, actual)
		})
	}
}
