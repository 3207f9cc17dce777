package gitrepo_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitsync/internal/execshell"
	"github.com/temirov/gitsync/internal/gitrepo"
)

const (
	testRepositoryPathConstant = "/tmp/repository"
	testLocalCommitConstant    = "1111111111111111111111111111111111111111"
	testRemoteCommitConstant   = "2222222222222222222222222222222222222222"
)

type scriptedGitExecutor struct {
	responses map[string]scriptedResponse
	recorded  []execshell.CommandDetails
}

type scriptedResponse struct {
	output string
	err    error
}

func newScriptedGitExecutor() *scriptedGitExecutor {
	return &scriptedGitExecutor{responses: map[string]scriptedResponse{}}
}

func (executor *scriptedGitExecutor) respond(output string, arguments ...string) {
	executor.responses[strings.Join(arguments, " ")] = scriptedResponse{output: output}
}

func (executor *scriptedGitExecutor) fail(err error, arguments ...string) {
	executor.responses[strings.Join(arguments, " ")] = scriptedResponse{err: err}
}

func (executor *scriptedGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recorded = append(executor.recorded, details)
	response, exists := executor.responses[strings.Join(details.Arguments, " ")]
	if !exists {
		return execshell.ExecutionResult{}, nil
	}
	if response.err != nil {
		return execshell.ExecutionResult{}, response.err
	}
	return execshell.ExecutionResult{StandardOutput: response.output}, nil
}

func testRepository() gitrepo.Repository {
	return gitrepo.Repository{Path: testRepositoryPathConstant}
}

func TestNewRepositoryManagerRequiresExecutor(testInstance *testing.T) {
	manager, creationError := gitrepo.NewRepositoryManager(nil)
	require.Nil(testInstance, manager)
	require.ErrorIs(testInstance, creationError, gitrepo.ErrGitExecutorNotConfigured)
}

func TestOpenValidatesPath(testInstance *testing.T) {
	manager, creationError := gitrepo.NewRepositoryManager(newScriptedGitExecutor())
	require.NoError(testInstance, creationError)

	_, openError := manager.Open(context.Background(), "  ")
	require.ErrorIs(testInstance, openError, gitrepo.ErrRepositoryPathRequired)

	_, openError = manager.Open(context.Background(), testInstance.TempDir()+"/missing")
	require.Error(testInstance, openError)
}

func TestOpenReportsNonRepository(testInstance *testing.T) {
	executor := newScriptedGitExecutor()
	executor.fail(execshell.CommandFailedError{Result: execshell.ExecutionResult{ExitCode: 128}}, "rev-parse", "--absolute-git-dir")
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	_, openError := manager.Open(context.Background(), testInstance.TempDir())
	require.ErrorIs(testInstance, openError, gitrepo.ErrNotRepository)
}

func TestOpenResolvesRepositoryLocation(testInstance *testing.T) {
	const (
		workTreeCaseNameConstant     = "work_tree_root"
		gitDirectoryCaseNameConstant = "git_directory"
		nestedCaseNameConstant       = "nested_directory"
	)

	repositoryPath := testInstance.TempDir()
	nestedPath := filepath.Join(repositoryPath, "sub")
	require.NoError(testInstance, os.MkdirAll(nestedPath, 0o755))
	gitDirectoryPath := filepath.Join(repositoryPath, ".git")
	require.NoError(testInstance, os.MkdirAll(gitDirectoryPath, 0o755))

	testCases := []struct {
		name                 string
		openPath             string
		gitDirectoryOutput   string
		topLevelOutput       string
		expectedError        error
		expectedGitDirectory string
		expectedInvocations  int
	}{
		{
			name:                 workTreeCaseNameConstant,
			openPath:             repositoryPath,
			gitDirectoryOutput:   gitDirectoryPath + "\n",
			topLevelOutput:       repositoryPath + "\n",
			expectedGitDirectory: gitDirectoryPath,
			expectedInvocations:  2,
		},
		{
			name:                 gitDirectoryCaseNameConstant,
			openPath:             gitDirectoryPath,
			gitDirectoryOutput:   gitDirectoryPath + "\n",
			expectedGitDirectory: gitDirectoryPath,
			expectedInvocations:  1,
		},
		{
			name:                nestedCaseNameConstant,
			openPath:            nestedPath,
			gitDirectoryOutput:  gitDirectoryPath + "\n",
			topLevelOutput:      repositoryPath + "\n",
			expectedError:       gitrepo.ErrNotRepository,
			expectedInvocations: 2,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := newScriptedGitExecutor()
			executor.respond(testCase.gitDirectoryOutput, "rev-parse", "--absolute-git-dir")
			executor.respond(testCase.topLevelOutput, "rev-parse", "--show-toplevel")
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			repository, openError := manager.Open(context.Background(), testCase.openPath)
			require.Len(testInstance, executor.recorded, testCase.expectedInvocations)
			require.Equal(testInstance, testCase.openPath, executor.recorded[0].WorkingDirectory)
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, openError, testCase.expectedError)
				return
			}
			require.NoError(testInstance, openError)
			require.Equal(testInstance, testCase.openPath, repository.Path)
			require.Equal(testInstance, testCase.expectedGitDirectory, repository.GitDirectory)
		})
	}
}

func TestListRemoteNamesPreservesOrder(testInstance *testing.T) {
	executor := newScriptedGitExecutor()
	executor.respond("origin\nupstream\n", "remote")
	manager, _ := gitrepo.NewRepositoryManager(executor)

	remoteNames, listError := manager.ListRemoteNames(context.Background(), testRepository())
	require.NoError(testInstance, listError)
	require.Equal(testInstance, []string{"origin", "upstream"}, remoteNames)
}

func TestResolveRemoteURLWrapsFailures(testInstance *testing.T) {
	executor := newScriptedGitExecutor()
	executor.respond("git@github.com:temirov/gitsync.git\n", "remote", "get-url", "origin")
	executor.fail(errors.New("no such remote"), "remote", "get-url", "missing")
	manager, _ := gitrepo.NewRepositoryManager(executor)

	remoteURL, resolveError := manager.ResolveRemoteURL(context.Background(), testRepository(), "origin")
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, "git@github.com:temirov/gitsync.git", remoteURL)

	_, resolveError = manager.ResolveRemoteURL(context.Background(), testRepository(), "missing")
	require.ErrorContains(testInstance, resolveError, `remote "missing"`)

	_, resolveError = manager.ResolveRemoteURL(context.Background(), testRepository(), "")
	require.ErrorIs(testInstance, resolveError, gitrepo.ErrRemoteNameRequired)
}

func TestListLocalBranchesResolvesUpstreams(testInstance *testing.T) {
	executor := newScriptedGitExecutor()
	executor.respond(
		"refs/heads/feature\x00"+testLocalCommitConstant+"\x00\n"+
			"refs/heads/gone\x00"+testLocalCommitConstant+"\x00refs/remotes/origin/gone\n"+
			"refs/heads/main\x00"+testLocalCommitConstant+"\x00refs/remotes/origin/main\n",
		"for-each-ref", "--format=%(refname)%00%(objectname)%00%(upstream)", "refs/heads",
	)
	executor.respond(
		"refs/remotes/origin/main\x00"+testRemoteCommitConstant+"\n",
		"for-each-ref", "--format=%(refname)%00%(objectname)", "refs/remotes/origin/gone", "refs/remotes/origin/main",
	)
	manager, _ := gitrepo.NewRepositoryManager(executor)

	branches, listError := manager.ListLocalBranches(context.Background(), testRepository())
	require.NoError(testInstance, listError)
	require.Equal(testInstance, []gitrepo.Branch{
		{Name: "feature", ReferenceName: "refs/heads/feature", TargetID: testLocalCommitConstant},
		{Name: "gone", ReferenceName: "refs/heads/gone", TargetID: testLocalCommitConstant},
		{
			Name:          "main",
			ReferenceName: "refs/heads/main",
			TargetID:      testLocalCommitConstant,
			Upstream:      &gitrepo.BranchReference{Name: "origin/main", ReferenceName: "refs/remotes/origin/main", TargetID: testRemoteCommitConstant},
		},
	}, branches)
}

func TestListLocalBranchesRejectsMalformedOutput(testInstance *testing.T) {
	executor := newScriptedGitExecutor()
	executor.respond("refs/heads/main\n", "for-each-ref", "--format=%(refname)%00%(objectname)%00%(upstream)", "refs/heads")
	manager, _ := gitrepo.NewRepositoryManager(executor)

	_, listError := manager.ListLocalBranches(context.Background(), testRepository())
	require.ErrorContains(testInstance, listError, "malformed reference line")
}

func TestListRemoteBranchesResolvesSymbolicReferences(testInstance *testing.T) {
	executor := newScriptedGitExecutor()
	executor.respond(
		"refs/remotes/origin/HEAD\x00"+testRemoteCommitConstant+"\x00refs/remotes/origin/main\n"+
			"refs/remotes/origin/main\x00"+testRemoteCommitConstant+"\x00\n",
		"for-each-ref", "--format=%(refname)%00%(objectname)%00%(symref)", "refs/remotes",
	)
	manager, _ := gitrepo.NewRepositoryManager(executor)

	remoteBranches, listError := manager.ListRemoteBranches(context.Background(), testRepository())
	require.NoError(testInstance, listError)
	require.Equal(testInstance, []gitrepo.RemoteBranch{
		{Name: "origin/HEAD", ReferenceName: "refs/remotes/origin/HEAD", ResolvedReferenceName: "refs/remotes/origin/main", TargetID: testRemoteCommitConstant},
		{Name: "origin/main", ReferenceName: "refs/remotes/origin/main", ResolvedReferenceName: "refs/remotes/origin/main", TargetID: testRemoteCommitConstant},
	}, remoteBranches)
}

func TestAheadBehindParsesCounts(testInstance *testing.T) {
	executor := newScriptedGitExecutor()
	executor.respond("2\t5\n", "rev-list", "--left-right", "--count", testLocalCommitConstant+"..."+testRemoteCommitConstant)
	manager, _ := gitrepo.NewRepositoryManager(executor)

	counts, countError := manager.AheadBehind(context.Background(), testRepository(), testLocalCommitConstant, testRemoteCommitConstant)
	require.NoError(testInstance, countError)
	require.Equal(testInstance, gitrepo.AheadBehind{Ahead: 2, Behind: 5}, counts)

	_, countError = manager.AheadBehind(context.Background(), testRepository(), "", testRemoteCommitConstant)
	require.ErrorIs(testInstance, countError, gitrepo.ErrCommitIdentifierRequired)
}

func TestAheadBehindRejectsUnexpectedOutput(testInstance *testing.T) {
	executor := newScriptedGitExecutor()
	executor.respond("two five\n", "rev-list", "--left-right", "--count", testLocalCommitConstant+"..."+testRemoteCommitConstant)
	manager, _ := gitrepo.NewRepositoryManager(executor)

	_, countError := manager.AheadBehind(context.Background(), testRepository(), testLocalCommitConstant, testRemoteCommitConstant)
	require.ErrorContains(testInstance, countError, "malformed commit count output")
}

func TestListStatusSelectsUntrackedMode(testInstance *testing.T) {
	executor := newScriptedGitExecutor()
	manager, _ := gitrepo.NewRepositoryManager(executor)

	_, statusError := manager.ListStatus(context.Background(), testRepository(), gitrepo.StatusOptions{IncludeUntracked: true})
	require.NoError(testInstance, statusError)
	_, statusError = manager.ListStatus(context.Background(), testRepository(), gitrepo.StatusOptions{})
	require.NoError(testInstance, statusError)

	require.Len(testInstance, executor.recorded, 2)
	require.Equal(testInstance, []string{"status", "--porcelain=v1", "-z", "--no-renames", "--untracked-files=normal"}, executor.recorded[0].Arguments)
	require.Equal(testInstance, []string{"status", "--porcelain=v1", "-z", "--no-renames", "--untracked-files=no"}, executor.recorded[1].Arguments)
}
