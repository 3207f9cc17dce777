package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	gitRemoteSubcommandConstant       = "remote"
	gitRemoteGetURLSubcommandConstant = "get-url"
	remoteListErrorTemplateConstant   = "unable to list remotes: %w"
	remoteURLErrorTemplateConstant    = "unable to resolve URL of remote %q: %w"
	remoteNameRequiredMessageConstant = "remote name must be provided"
)

// ErrRemoteNameRequired indicates an empty remote name.
var ErrRemoteNameRequired = errors.New(remoteNameRequiredMessageConstant)

// ListRemoteNames returns configured remote names in git's enumeration order.
func (manager *RepositoryManager) ListRemoteNames(executionContext context.Context, repository Repository) ([]string, error) {
	output, executionError := manager.run(executionContext, repository, gitRemoteSubcommandConstant)
	if executionError != nil {
		return nil, fmt.Errorf(remoteListErrorTemplateConstant, executionError)
	}

	remoteNames := []string{}
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		remoteNames = append(remoteNames, trimmed)
	}
	return remoteNames, nil
}

// ResolveRemoteURL returns the fetch URL configured for remoteName.
func (manager *RepositoryManager) ResolveRemoteURL(executionContext context.Context, repository Repository, remoteName string) (string, error) {
	trimmedName := strings.TrimSpace(remoteName)
	if len(trimmedName) == 0 {
		return "", ErrRemoteNameRequired
	}

	output, executionError := manager.run(executionContext, repository, gitRemoteSubcommandConstant, gitRemoteGetURLSubcommandConstant, trimmedName)
	if executionError != nil {
		return "", fmt.Errorf(remoteURLErrorTemplateConstant, trimmedName, executionError)
	}
	return strings.TrimSpace(output), nil
}
