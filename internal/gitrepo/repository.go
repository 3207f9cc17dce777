package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/gitsync/internal/execshell"
)

const (
	gitRevParseSubcommandConstant          = "rev-parse"
	gitAbsoluteDirectoryFlagConstant       = "--absolute-git-dir"
	gitShowTopLevelFlagConstant            = "--show-toplevel"
	repositoryPathRequiredMessageConstant  = "repository path must be provided"
	gitExecutorMissingMessageConstant      = "git executor not configured"
	notRepositoryMessageConstant           = "not a git repository"
	repositoryPathErrorTemplateConstant    = "%s: %w"
	repositoryInspectErrorTemplateConstant = "unable to inspect %s: %w"
	nestedPathErrorTemplateConstant        = "%s: %w (inside repository at %s)"
	requiredValueMessageConstant           = "value required"
)

// ErrRepositoryPathRequired indicates an empty repository path.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrGitExecutorNotConfigured indicates the repository manager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrNotRepository indicates the path exists but is not inside a git repository.
var ErrNotRepository = errors.New(notRepositoryMessageConstant)

// GitExecutor runs git commands on behalf of the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Repository is an opened repository handle.
type Repository struct {
	Path         string
	GitDirectory string
}

// RepositoryManager exposes read-only repository queries backed by the git executable.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager around executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// Open validates that repositoryPath is a git repository and returns its handle.
func (manager *RepositoryManager) Open(executionContext context.Context, repositoryPath string) (Repository, error) {
	trimmedPath := strings.TrimSpace(repositoryPath)
	if len(trimmedPath) == 0 {
		return Repository{}, ErrRepositoryPathRequired
	}

	absolutePath, absoluteError := filepath.Abs(trimmedPath)
	if absoluteError != nil {
		return Repository{}, fmt.Errorf(repositoryInspectErrorTemplateConstant, trimmedPath, absoluteError)
	}

	pathInfo, statError := os.Stat(absolutePath)
	if statError != nil {
		return Repository{}, fmt.Errorf(repositoryInspectErrorTemplateConstant, absolutePath, statError)
	}
	if !pathInfo.IsDir() {
		return Repository{}, fmt.Errorf(repositoryPathErrorTemplateConstant, absolutePath, ErrNotRepository)
	}

	gitDirectory, gitDirectoryError := manager.revParse(executionContext, absolutePath, gitAbsoluteDirectoryFlagConstant)
	if gitDirectoryError != nil {
		return Repository{}, gitDirectoryError
	}

	// A git directory opened directly (bare repository or a .git path) has no work tree to compare.
	if samePath(gitDirectory, absolutePath) {
		return Repository{Path: absolutePath, GitDirectory: gitDirectory}, nil
	}

	topLevel, topLevelError := manager.revParse(executionContext, absolutePath, gitShowTopLevelFlagConstant)
	if topLevelError != nil {
		return Repository{}, topLevelError
	}
	if !samePath(topLevel, absolutePath) {
		return Repository{}, fmt.Errorf(nestedPathErrorTemplateConstant, absolutePath, ErrNotRepository, topLevel)
	}

	return Repository{Path: absolutePath, GitDirectory: gitDirectory}, nil
}

// revParse runs rev-parse with a single query flag and returns its trimmed output.
// A non-zero exit code maps to ErrNotRepository.
func (manager *RepositoryManager) revParse(executionContext context.Context, absolutePath string, queryFlag string) (string, error) {
	result, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, queryFlag},
		WorkingDirectory: absolutePath,
	})
	if executionError != nil {
		failedError := execshell.CommandFailedError{}
		if errors.As(executionError, &failedError) {
			return "", fmt.Errorf(repositoryPathErrorTemplateConstant, absolutePath, errors.Join(ErrNotRepository, executionError))
		}
		return "", fmt.Errorf(repositoryInspectErrorTemplateConstant, absolutePath, executionError)
	}

	output := strings.TrimSpace(result.StandardOutput)
	if len(output) > 0 && !filepath.IsAbs(output) {
		output = filepath.Join(absolutePath, output)
	}
	return output, nil
}

// samePath compares two paths with symbolic links resolved; git reports resolved paths.
func samePath(first string, second string) bool {
	return resolvePath(first) == resolvePath(second)
}

func resolvePath(candidate string) string {
	resolved, resolveError := filepath.EvalSymlinks(candidate)
	if resolveError != nil {
		return filepath.Clean(candidate)
	}
	return resolved
}

func (manager *RepositoryManager) run(executionContext context.Context, repository Repository, arguments ...string) (string, error) {
	result, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repository.Path,
	})
	if executionError != nil {
		return "", executionError
	}
	return result.StandardOutput, nil
}
