package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	gitForEachRefSubcommandConstant      = "for-each-ref"
	gitRevListSubcommandConstant         = "rev-list"
	gitLeftRightFlagConstant             = "--left-right"
	gitCountFlagConstant                 = "--count"
	localBranchesNamespaceConstant       = "refs/heads"
	remoteBranchesNamespaceConstant      = "refs/remotes"
	referenceNamespaceSeparatorConstant  = "/"
	fieldSeparatorConstant               = "\x00"
	localBranchFormatConstant            = "--format=%(refname)%00%(objectname)%00%(upstream)"
	remoteBranchFormatConstant           = "--format=%(refname)%00%(objectname)%00%(symref)"
	referenceTargetFormatConstant        = "--format=%(refname)%00%(objectname)"
	symmetricDifferenceTemplateConstant  = "%s...%s"
	localBranchFieldCountConstant        = 3
	remoteBranchFieldCountConstant       = 3
	referenceTargetFieldCountConstant    = 2
	localBranchListErrorTemplateConstant = "unable to list local branches: %w"
	remoteBranchListErrorTemplate        = "unable to list remote-tracking branches: %w"
	upstreamResolveErrorTemplateConstant = "unable to resolve upstream references: %w"
	aheadBehindErrorTemplateConstant     = "unable to count commits between %s and %s: %w"
	malformedReferenceTemplateConstant   = "malformed reference line %q"
	malformedCountTemplateConstant       = "malformed commit count output %q"
	commitIdentifierRequiredMessage      = "commit identifiers must be provided"
)

// ErrCommitIdentifierRequired indicates an ahead/behind request with an empty commit identifier.
var ErrCommitIdentifierRequired = errors.New(commitIdentifierRequiredMessage)

// BranchReference names a ref and the commit it resolves to.
type BranchReference struct {
	Name          string
	ReferenceName string
	TargetID      string
}

// Branch is a local branch with its optional upstream.
// Upstream is nil when no upstream is configured or the configured upstream ref no longer exists.
type Branch struct {
	Name          string
	ReferenceName string
	TargetID      string
	Upstream      *BranchReference
}

// RemoteBranch is a remote-tracking branch. ResolvedReferenceName differs from
// ReferenceName for symbolic refs such as refs/remotes/origin/HEAD.
type RemoteBranch struct {
	Name                  string
	ReferenceName         string
	ResolvedReferenceName string
	TargetID              string
}

// AheadBehind counts commits reachable from one tip but not the other.
type AheadBehind struct {
	Ahead  int
	Behind int
}

// ListLocalBranches returns local branches in ref order with their resolved upstreams.
func (manager *RepositoryManager) ListLocalBranches(executionContext context.Context, repository Repository) ([]Branch, error) {
	output, executionError := manager.run(executionContext, repository, gitForEachRefSubcommandConstant, localBranchFormatConstant, localBranchesNamespaceConstant)
	if executionError != nil {
		return nil, fmt.Errorf(localBranchListErrorTemplateConstant, executionError)
	}

	branches := []Branch{}
	upstreamReferenceNames := []string{}
	for _, line := range splitOutputLines(output) {
		fields := strings.Split(line, fieldSeparatorConstant)
		if len(fields) != localBranchFieldCountConstant {
			return nil, fmt.Errorf(localBranchListErrorTemplateConstant, fmt.Errorf(malformedReferenceTemplateConstant, line))
		}

		branch := Branch{
			Name:          shortReferenceName(fields[0], localBranchesNamespaceConstant),
			ReferenceName: fields[0],
			TargetID:      fields[1],
		}
		if upstreamReferenceName := strings.TrimSpace(fields[2]); len(upstreamReferenceName) > 0 {
			branch.Upstream = &BranchReference{ReferenceName: upstreamReferenceName}
			upstreamReferenceNames = append(upstreamReferenceNames, upstreamReferenceName)
		}
		branches = append(branches, branch)
	}

	if len(upstreamReferenceNames) == 0 {
		return branches, nil
	}

	upstreamTargets, resolveError := manager.resolveReferenceTargets(executionContext, repository, upstreamReferenceNames)
	if resolveError != nil {
		return nil, fmt.Errorf(upstreamResolveErrorTemplateConstant, resolveError)
	}

	for branchIndex := range branches {
		upstream := branches[branchIndex].Upstream
		if upstream == nil {
			continue
		}
		targetID, resolved := upstreamTargets[upstream.ReferenceName]
		if !resolved {
			branches[branchIndex].Upstream = nil
			continue
		}
		upstream.TargetID = targetID
		upstream.Name = displayReferenceName(upstream.ReferenceName)
	}

	return branches, nil
}

// ListRemoteBranches returns remote-tracking branches that resolve to a commit.
// Dangling symbolic refs are omitted by git itself.
func (manager *RepositoryManager) ListRemoteBranches(executionContext context.Context, repository Repository) ([]RemoteBranch, error) {
	output, executionError := manager.run(executionContext, repository, gitForEachRefSubcommandConstant, remoteBranchFormatConstant, remoteBranchesNamespaceConstant)
	if executionError != nil {
		return nil, fmt.Errorf(remoteBranchListErrorTemplate, executionError)
	}

	remoteBranches := []RemoteBranch{}
	for _, line := range splitOutputLines(output) {
		fields := strings.Split(line, fieldSeparatorConstant)
		if len(fields) != remoteBranchFieldCountConstant {
			return nil, fmt.Errorf(remoteBranchListErrorTemplate, fmt.Errorf(malformedReferenceTemplateConstant, line))
		}
		if len(strings.TrimSpace(fields[1])) == 0 {
			continue
		}

		resolvedReferenceName := fields[0]
		if symbolicTarget := strings.TrimSpace(fields[2]); len(symbolicTarget) > 0 {
			resolvedReferenceName = symbolicTarget
		}

		remoteBranches = append(remoteBranches, RemoteBranch{
			Name:                  shortReferenceName(fields[0], remoteBranchesNamespaceConstant),
			ReferenceName:         fields[0],
			ResolvedReferenceName: resolvedReferenceName,
			TargetID:              fields[1],
		})
	}
	return remoteBranches, nil
}

// AheadBehind counts commits reachable from localID but not otherID (ahead) and the reverse (behind).
func (manager *RepositoryManager) AheadBehind(executionContext context.Context, repository Repository, localID string, otherID string) (AheadBehind, error) {
	trimmedLocal := strings.TrimSpace(localID)
	trimmedOther := strings.TrimSpace(otherID)
	if len(trimmedLocal) == 0 || len(trimmedOther) == 0 {
		return AheadBehind{}, ErrCommitIdentifierRequired
	}

	output, executionError := manager.run(
		executionContext,
		repository,
		gitRevListSubcommandConstant,
		gitLeftRightFlagConstant,
		gitCountFlagConstant,
		fmt.Sprintf(symmetricDifferenceTemplateConstant, trimmedLocal, trimmedOther),
	)
	if executionError != nil {
		return AheadBehind{}, fmt.Errorf(aheadBehindErrorTemplateConstant, trimmedLocal, trimmedOther, executionError)
	}

	counts, parseError := parseAheadBehind(output)
	if parseError != nil {
		return AheadBehind{}, fmt.Errorf(aheadBehindErrorTemplateConstant, trimmedLocal, trimmedOther, parseError)
	}
	return counts, nil
}

func (manager *RepositoryManager) resolveReferenceTargets(executionContext context.Context, repository Repository, referenceNames []string) (map[string]string, error) {
	arguments := append([]string{gitForEachRefSubcommandConstant, referenceTargetFormatConstant}, referenceNames...)
	output, executionError := manager.run(executionContext, repository, arguments...)
	if executionError != nil {
		return nil, executionError
	}

	targets := make(map[string]string, len(referenceNames))
	for _, line := range splitOutputLines(output) {
		fields := strings.Split(line, fieldSeparatorConstant)
		if len(fields) != referenceTargetFieldCountConstant {
			return nil, fmt.Errorf(malformedReferenceTemplateConstant, line)
		}
		targets[fields[0]] = fields[1]
	}
	return targets, nil
}

func parseAheadBehind(output string) (AheadBehind, error) {
	fields := strings.Fields(output)
	if len(fields) != 2 {
		return AheadBehind{}, fmt.Errorf(malformedCountTemplateConstant, strings.TrimSpace(output))
	}
	ahead, aheadError := strconv.Atoi(fields[0])
	if aheadError != nil {
		return AheadBehind{}, fmt.Errorf(malformedCountTemplateConstant, strings.TrimSpace(output))
	}
	behind, behindError := strconv.Atoi(fields[1])
	if behindError != nil {
		return AheadBehind{}, fmt.Errorf(malformedCountTemplateConstant, strings.TrimSpace(output))
	}
	return AheadBehind{Ahead: ahead, Behind: behind}, nil
}

func splitOutputLines(output string) []string {
	lines := []string{}
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimRight(line, "\r")
		if len(strings.TrimSpace(trimmed)) == 0 {
			continue
		}
		lines = append(lines, trimmed)
	}
	return lines
}

func shortReferenceName(referenceName string, namespace string) string {
	return strings.TrimPrefix(referenceName, namespace+referenceNamespaceSeparatorConstant)
}

// displayReferenceName shortens local and remote-tracking refs; other refs are returned unchanged.
func displayReferenceName(referenceName string) string {
	for _, namespace := range []string{localBranchesNamespaceConstant, remoteBranchesNamespaceConstant} {
		if strings.HasPrefix(referenceName, namespace+referenceNamespaceSeparatorConstant) {
			return shortReferenceName(referenceName, namespace)
		}
	}
	return referenceName
}
