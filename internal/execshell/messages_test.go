package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildStartedMessageForRemoteLookupIncludesRemoteName(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"remote", "get-url", "origin"},
			WorkingDirectory: "/workspace/repo",
		},
	}

	require.Equal(t, "Checking origin remote for /workspace/repo", formatter.BuildStartedMessage(command))
}

func TestBuildSuccessMessageDistinguishesReferenceNamespaces(t *testing.T) {
	formatter := CommandMessageFormatter{}
	localCommand := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"for-each-ref", "--format=%(refname)", "refs/heads"}, WorkingDirectory: "/workspace/repo"},
	}
	remoteCommand := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"for-each-ref", "--format=%(refname)", "refs/remotes"}, WorkingDirectory: "/workspace/repo"},
	}

	upstreamCommand := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"for-each-ref", "--format=%(refname)%00%(objectname)", "refs/remotes/origin/main", "refs/heads/base"},
			WorkingDirectory: "/workspace/repo",
		},
	}

	require.Equal(t, "Listed local branches in /workspace/repo", formatter.BuildSuccessMessage(localCommand, ExecutionResult{}))
	require.Equal(t, "Listed remote-tracking branches in /workspace/repo", formatter.BuildSuccessMessage(remoteCommand, ExecutionResult{}))
	require.Equal(t, "Resolving upstream references refs/remotes/origin/main, refs/heads/base in /workspace/repo", formatter.BuildStartedMessage(upstreamCommand))
	require.Equal(t, "Resolved upstream references refs/remotes/origin/main, refs/heads/base in /workspace/repo", formatter.BuildSuccessMessage(upstreamCommand, ExecutionResult{}))
}

func TestBuildSuccessMessageForRemoteLookupIncludesURL(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"remote", "get-url", "origin"},
			WorkingDirectory: "/workspace/repo",
		},
	}

	message := formatter.BuildSuccessMessage(command, ExecutionResult{StandardOutput: "https://example.com/team/project.git\n"})

	require.Equal(t, "origin remote for /workspace/repo points to https://example.com/team/project.git", message)
}

func TestBuildFailureMessageForRepositoryOpen(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"rev-parse", "--absolute-git-dir"}, WorkingDirectory: "/tmp/plain"},
	}

	message := formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 128, StandardError: "fatal: not a git repository"})

	require.Equal(t, "/tmp/plain is not a Git repository (exit code 128: fatal: not a git repository)", message)
}

func TestBuildExecutionFailureMessageFallsBackToGenericLabel(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"gc"}},
	}

	require.Equal(t, "git gc failed: boom", formatter.BuildExecutionFailureMessage(command, errors.New("boom")))
}
