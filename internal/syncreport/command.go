package syncreport

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitsync/internal/execshell"
	"github.com/temirov/gitsync/internal/gitrepo"
	"github.com/temirov/gitsync/internal/utils/flags"
	pathutils "github.com/temirov/gitsync/internal/utils/path"
)

const (
	commandUseConstant               = "gitsync <path>"
	commandShortDescriptionConstant  = "Report branch synchronization and working tree status of a repository"
	commandLongDescriptionConstant   = "gitsync opens the repository at <path>, lists its remotes, compares every local branch with its upstream (or with every remote-tracking branch when it has none) and summarizes the working tree status. Remote state is read from the cached remote-tracking refs; nothing is fetched or modified."
	outputFlagNameConstant           = "output"
	outputFlagDescriptionConstant    = "Report format"
	maximumArgumentCountConstant     = 1
	reportCollectedMessageConstant   = "repository report collected"
	logFieldRepositoryConstant       = "repository"
	logFieldRunIdentifierConstant    = "run_id"
	logFieldBranchCountConstant      = "branch_count"
	logFieldStatusEntryCountConstant = "status_entry_count"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current report configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the report cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ReportLoggerProvider  LoggerProvider
	ConfigurationProvider ConfigurationProvider
	GitExecutor           gitrepo.GitExecutor
	Inspector             RepositoryInspector
	CommandEventsObserver execshell.CommandEventObserver
	IdentifierGenerator   IdentifierGenerator
	HomeExpander          *pathutils.HomeExpander
}

// Build constructs the cobra command that collects and renders a repository report.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(maximumArgumentCountConstant),
		RunE:  builder.run,
	}

	outputUsage := flags.FormatChoiceUsage(string(OutputFormatText), OutputFormatChoices(), outputFlagDescriptionConstant)
	command.Flags().String(outputFlagNameConstant, "", outputUsage)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) == 0 {
		return builder.displayCommandHelp(command)
	}

	configuration, configurationError := builder.resolveConfiguration(command)
	if configurationError != nil {
		return configurationError
	}

	logger := builder.resolveLogger()
	inspector, inspectorError := builder.resolveInspector(logger)
	if inspectorError != nil {
		return inspectorError
	}

	service, serviceError := NewService(ServiceDependencies{
		Inspector:           inspector,
		IdentifierGenerator: builder.IdentifierGenerator,
	})
	if serviceError != nil {
		return serviceError
	}

	report, collectError := service.Collect(command.Context(), Options{
		RepositoryPath:   builder.resolveHomeExpander().Expand(arguments[0]),
		CompareOrphans:   configuration.CompareOrphans,
		IncludeUntracked: configuration.IncludeUntracked,
	})
	if collectError != nil {
		return collectError
	}

	logger.Debug(
		reportCollectedMessageConstant,
		zap.String(logFieldRepositoryConstant, report.RepositoryPath),
		zap.String(logFieldRunIdentifierConstant, report.RunID),
		zap.Int(logFieldBranchCountConstant, len(report.Branches)),
		zap.Int(logFieldStatusEntryCountConstant, len(report.Status.Entries)),
	)

	switch configuration.Output {
	case OutputFormatYAML:
		return WriteYAML(command.OutOrStdout(), report)
	case OutputFormatTOML:
		return WriteTOML(command.OutOrStdout(), report)
	default:
		TextReporter{}.Render(report, NewZapSink(builder.resolveReportLogger()))
		return nil
	}
}

// displayCommandHelp prints help to standard error and reports the missing path.
func (builder *CommandBuilder) displayCommandHelp(command *cobra.Command) error {
	command.SetOut(command.ErrOrStderr())
	if helpError := command.Help(); helpError != nil {
		return helpError
	}
	return ErrRepositoryPathRequired
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) (CommandConfiguration, error) {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	configuration = configuration.sanitize()

	if command.Flags().Changed(outputFlagNameConstant) {
		outputValue, _ := command.Flags().GetString(outputFlagNameConstant)
		outputFormat, parseError := ParseOutputFormat(outputValue)
		if parseError != nil {
			return CommandConfiguration{}, parseError
		}
		configuration.Output = outputFormat
	}
	return configuration, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	return resolveProvidedLogger(builder.LoggerProvider)
}

func (builder *CommandBuilder) resolveReportLogger() *zap.Logger {
	return resolveProvidedLogger(builder.ReportLoggerProvider)
}

func (builder *CommandBuilder) resolveInspector(logger *zap.Logger) (RepositoryInspector, error) {
	if builder.Inspector != nil {
		return builder.Inspector, nil
	}

	gitExecutor := builder.GitExecutor
	if gitExecutor == nil {
		commandRunner := execshell.NewOSCommandRunner()
		shellExecutor, creationError := execshell.NewShellExecutorWithObserver(logger, commandRunner, builder.CommandEventsObserver)
		if creationError != nil {
			return nil, creationError
		}
		gitExecutor = shellExecutor
	}

	return gitrepo.NewRepositoryManager(gitExecutor)
}

func (builder *CommandBuilder) resolveHomeExpander() *pathutils.HomeExpander {
	if builder.HomeExpander != nil {
		return builder.HomeExpander
	}
	return pathutils.NewHomeExpander()
}

func resolveProvidedLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
