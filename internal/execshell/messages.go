package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitRevParseSubcommandNameConstant     = "rev-parse"
	gitRemoteSubcommandNameConstant       = "remote"
	gitRemoteGetURLSubcommandNameConstant = "get-url"
	gitForEachRefSubcommandNameConstant   = "for-each-ref"
	gitRevListSubcommandNameConstant      = "rev-list"
	gitStatusSubcommandNameConstant       = "status"
	gitLocalReferencesNamespaceConstant   = "refs/heads"
	gitRemoteReferencesNamespaceConstant  = "refs/remotes"
)

const (
	gitRepositoryStartTemplateConstant               = "Opening repository at %s"
	gitRepositorySuccessTemplateConstant             = "%s is a Git repository"
	gitRepositoryFailureTemplateConstant             = "%s is not a Git repository (exit code %d%s)"
	gitRepositoryExecutionFailureTemplateConstant    = "Unable to open repository at %s: %s"
	gitRemoteListStartTemplateConstant               = "Listing remotes in %s"
	gitRemoteListSuccessTemplateConstant             = "Listed remotes in %s"
	gitRemoteListFailureTemplateConstant             = "Failed to list remotes in %s (exit code %d%s)"
	gitRemoteListExecutionFailureTemplateConstant    = "Unable to list remotes in %s: %s"
	gitRemoteLookupStartTemplateConstant             = "Checking %s remote for %s"
	gitRemoteLookupSuccessTemplateConstant           = "%s remote for %s points to %s"
	gitRemoteLookupFailureTemplateConstant           = "Failed to read %s remote for %s (exit code %d%s)"
	gitRemoteLookupExecutionFailureTemplateConstant  = "Unable to read %s remote for %s: %s"
	gitReferenceListStartTemplateConstant            = "Listing %s in %s"
	gitReferenceListSuccessTemplateConstant          = "Listed %s in %s"
	gitReferenceListFailureTemplateConstant          = "Failed to list %s in %s (exit code %d%s)"
	gitReferenceListExecutionFailureTemplateConstant = "Unable to list %s in %s: %s"
	gitLocalBranchesLabelConstant                    = "local branches"
	gitRemoteBranchesLabelConstant                   = "remote-tracking branches"
	gitUpstreamReferencesStartTemplateConstant       = "Resolving upstream references %s in %s"
	gitUpstreamReferencesSuccessTemplateConstant     = "Resolved upstream references %s in %s"
	gitUpstreamReferencesFailureTemplateConstant     = "Failed to resolve upstream references %s in %s (exit code %d%s)"
	gitUpstreamReferencesExecutionFailureTemplate    = "Unable to resolve upstream references %s in %s: %s"
	referenceNamesJoinSeparatorConstant              = ", "
	gitFormatArgumentPrefixConstant                  = "--format="
	gitDivergenceStartTemplateConstant               = "Counting commits between %s in %s"
	gitDivergenceSuccessTemplateConstant             = "Counted commits between %s in %s"
	gitDivergenceFailureTemplateConstant             = "Failed to count commits between %s in %s (exit code %d%s)"
	gitDivergenceExecutionFailureTemplateConstant    = "Unable to count commits between %s in %s: %s"
	gitStatusStartTemplateConstant                   = "Reviewing working tree status in %s"
	gitStatusSuccessTemplateConstant                 = "Collected working tree status for %s"
	gitStatusFailureTemplateConstant                 = "Failed to review working tree status in %s (exit code %d%s)"
	gitStatusExecutionFailureTemplateConstant        = "Unable to review working tree status in %s: %s"
)

// stageTemplates holds the four lifecycle templates of a recognised git command.
// Start and success templates receive the subject and working directory; failure
// templates additionally receive the exit code and standard error suffix.
type stageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
// The result supplies values such as the URL reported by a remote lookup.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch strings.TrimSpace(arguments[0]) {
	case gitRevParseSubcommandNameConstant:
		return formatter.renderDirectoryOnly(stageTemplates{
			start:            gitRepositoryStartTemplateConstant,
			success:          gitRepositorySuccessTemplateConstant,
			failure:          gitRepositoryFailureTemplateConstant,
			executionFailure: gitRepositoryExecutionFailureTemplateConstant,
		}, workingDirectory, result, failure, stage)
	case gitRemoteSubcommandNameConstant:
		if strings.TrimSpace(formatter.argumentAtIndex(arguments, 1)) == gitRemoteGetURLSubcommandNameConstant {
			return formatter.describeRemoteLookup(command, result, failure, stage)
		}
		return formatter.renderDirectoryOnly(stageTemplates{
			start:            gitRemoteListStartTemplateConstant,
			success:          gitRemoteListSuccessTemplateConstant,
			failure:          gitRemoteListFailureTemplateConstant,
			executionFailure: gitRemoteListExecutionFailureTemplateConstant,
		}, workingDirectory, result, failure, stage)
	case gitForEachRefSubcommandNameConstant:
		return formatter.describeReferenceListing(arguments, workingDirectory, result, failure, stage)
	case gitRevListSubcommandNameConstant:
		return formatter.renderWithSubject(stageTemplates{
			start:            gitDivergenceStartTemplateConstant,
			success:          gitDivergenceSuccessTemplateConstant,
			failure:          gitDivergenceFailureTemplateConstant,
			executionFailure: gitDivergenceExecutionFailureTemplateConstant,
		}, formatter.ensureValue(formatter.lastArgument(arguments)), workingDirectory, result, failure, stage)
	case gitStatusSubcommandNameConstant:
		return formatter.renderDirectoryOnly(stageTemplates{
			start:            gitStatusStartTemplateConstant,
			success:          gitStatusSuccessTemplateConstant,
			failure:          gitStatusFailureTemplateConstant,
			executionFailure: gitStatusExecutionFailureTemplateConstant,
		}, workingDirectory, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeRemoteLookup(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	remoteName := formatter.ensureValue(formatter.argumentAtIndex(command.Details.Arguments, 2))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitRemoteLookupStartTemplateConstant, remoteName, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitRemoteLookupSuccessTemplateConstant, remoteName, workingDirectory, formatter.ensureValue(result.StandardOutput))
	case messageStageFailure:
		return fmt.Sprintf(gitRemoteLookupFailureTemplateConstant, remoteName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitRemoteLookupExecutionFailureTemplateConstant, remoteName, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

// describeReferenceListing distinguishes namespace listings from lookups of explicit upstream refs.
func (formatter CommandMessageFormatter) describeReferenceListing(arguments []string, workingDirectory string, result ExecutionResult, failure error, stage messageStage) string {
	switch formatter.lastArgument(arguments) {
	case gitLocalReferencesNamespaceConstant:
		return formatter.renderWithSubject(referenceListTemplates(), gitLocalBranchesLabelConstant, workingDirectory, result, failure, stage)
	case gitRemoteReferencesNamespaceConstant:
		return formatter.renderWithSubject(referenceListTemplates(), gitRemoteBranchesLabelConstant, workingDirectory, result, failure, stage)
	}

	referenceNames := []string{}
	for _, argument := range arguments[1:] {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, gitFormatArgumentPrefixConstant) {
			continue
		}
		referenceNames = append(referenceNames, trimmed)
	}
	return formatter.renderWithSubject(stageTemplates{
		start:            gitUpstreamReferencesStartTemplateConstant,
		success:          gitUpstreamReferencesSuccessTemplateConstant,
		failure:          gitUpstreamReferencesFailureTemplateConstant,
		executionFailure: gitUpstreamReferencesExecutionFailureTemplate,
	}, formatter.ensureValue(strings.Join(referenceNames, referenceNamesJoinSeparatorConstant)), workingDirectory, result, failure, stage)
}

func referenceListTemplates() stageTemplates {
	return stageTemplates{
		start:            gitReferenceListStartTemplateConstant,
		success:          gitReferenceListSuccessTemplateConstant,
		failure:          gitReferenceListFailureTemplateConstant,
		executionFailure: gitReferenceListExecutionFailureTemplateConstant,
	}
}

func (formatter CommandMessageFormatter) renderDirectoryOnly(templates stageTemplates, workingDirectory string, result ExecutionResult, failure error, stage messageStage) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, workingDirectory, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) renderWithSubject(templates stageTemplates, subject string, workingDirectory string, result ExecutionResult, failure error, stage messageStage) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, subject, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, subject, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, subject, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, subject, workingDirectory, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := emptyStringConstant
	if trimmed := strings.TrimSpace(command.Details.WorkingDirectory); len(trimmed) > 0 {
		workingDirectorySuffix = fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmed)
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return arguments[index]
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) lastArgument(arguments []string) string {
	if len(arguments) == 0 {
		return emptyStringConstant
	}
	return strings.TrimSpace(arguments[len(arguments)-1])
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}
