package syncreport

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/temirov/gitsync/internal/gitrepo"
)

const (
	openRepositoryErrorTemplateConstant     = "open repository: %w"
	listRemotesErrorTemplateConstant        = "list remotes: %w"
	listLocalBranchesErrorTemplateConstant  = "list local branches: %w"
	listRemoteBranchesErrorTemplateConstant = "list remote-tracking branches: %w"
	upstreamDivergenceErrorTemplateConstant = "compare branch %q with upstream %q: %w"
	listStatusErrorTemplateConstant         = "list status: %w"
	inspectorNotConfiguredMessageConstant   = "repository inspector not configured"
	repositoryPathRequiredMessageConstant   = "repository path required"
)

// ErrInspectorNotConfigured indicates the service was constructed without a repository inspector.
var ErrInspectorNotConfigured = errors.New(inspectorNotConfiguredMessageConstant)

// ErrRepositoryPathRequired indicates a collection request without a repository path.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// RepositoryInspector exposes the read-only repository queries the report is built from.
type RepositoryInspector interface {
	Open(executionContext context.Context, repositoryPath string) (gitrepo.Repository, error)
	ListRemoteNames(executionContext context.Context, repository gitrepo.Repository) ([]string, error)
	ResolveRemoteURL(executionContext context.Context, repository gitrepo.Repository, remoteName string) (string, error)
	ListLocalBranches(executionContext context.Context, repository gitrepo.Repository) ([]gitrepo.Branch, error)
	ListRemoteBranches(executionContext context.Context, repository gitrepo.Repository) ([]gitrepo.RemoteBranch, error)
	AheadBehind(executionContext context.Context, repository gitrepo.Repository, localID string, otherID string) (gitrepo.AheadBehind, error)
	ListStatus(executionContext context.Context, repository gitrepo.Repository, options gitrepo.StatusOptions) ([]gitrepo.StatusEntry, error)
}

// IdentifierGenerator produces run identifiers.
type IdentifierGenerator func() string

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	Inspector           RepositoryInspector
	IdentifierGenerator IdentifierGenerator
}

// Options controls a single collection run.
type Options struct {
	RepositoryPath   string
	CompareOrphans   bool
	IncludeUntracked bool
}

// Service collects synchronization reports.
type Service struct {
	inspector           RepositoryInspector
	identifierGenerator IdentifierGenerator
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Inspector == nil {
		return nil, ErrInspectorNotConfigured
	}
	identifierGenerator := dependencies.IdentifierGenerator
	if identifierGenerator == nil {
		identifierGenerator = uuid.NewString
	}
	return &Service{inspector: dependencies.Inspector, identifierGenerator: identifierGenerator}, nil
}

// Collect opens the repository and gathers remotes, branch divergences and status in that order.
// Any collaborator failure aborts the run and no report is returned.
func (service *Service) Collect(executionContext context.Context, options Options) (Report, error) {
	if len(options.RepositoryPath) == 0 {
		return Report{}, ErrRepositoryPathRequired
	}

	repository, openError := service.inspector.Open(executionContext, options.RepositoryPath)
	if openError != nil {
		return Report{}, fmt.Errorf(openRepositoryErrorTemplateConstant, openError)
	}

	remotes, remotesError := service.collectRemotes(executionContext, repository)
	if remotesError != nil {
		return Report{}, remotesError
	}

	branches, branchesError := service.collectBranches(executionContext, repository, options.CompareOrphans)
	if branchesError != nil {
		return Report{}, branchesError
	}

	status, statusError := service.collectStatus(executionContext, repository, options.IncludeUntracked)
	if statusError != nil {
		return Report{}, statusError
	}

	return Report{
		RunID:          service.identifierGenerator(),
		RepositoryPath: repository.Path,
		Remotes:        remotes,
		Branches:       branches,
		Status:         status,
	}, nil
}

func (service *Service) collectRemotes(executionContext context.Context, repository gitrepo.Repository) ([]RemoteSummary, error) {
	remoteNames, listError := service.inspector.ListRemoteNames(executionContext, repository)
	if listError != nil {
		return nil, fmt.Errorf(listRemotesErrorTemplateConstant, listError)
	}

	remotes := make([]RemoteSummary, 0, len(remoteNames))
	for _, remoteName := range remoteNames {
		remoteURL, resolveError := service.inspector.ResolveRemoteURL(executionContext, repository, remoteName)
		if resolveError != nil {
			return nil, fmt.Errorf(listRemotesErrorTemplateConstant, resolveError)
		}
		summary := RemoteSummary{Name: remoteName, URL: remoteURL}
		if endpoint, parseError := gitrepo.ParseRemoteURL(remoteURL); parseError == nil {
			summary.Endpoint = &endpoint
		}
		remotes = append(remotes, summary)
	}
	return remotes, nil
}

func (service *Service) collectBranches(executionContext context.Context, repository gitrepo.Repository, compareOrphans bool) ([]BranchSummary, error) {
	localBranches, localError := service.inspector.ListLocalBranches(executionContext, repository)
	if localError != nil {
		return nil, fmt.Errorf(listLocalBranchesErrorTemplateConstant, localError)
	}

	var remoteBranches []gitrepo.RemoteBranch
	remoteBranchesLoaded := false

	summaries := make([]BranchSummary, 0, len(localBranches))
	for _, localBranch := range localBranches {
		if localBranch.Upstream != nil {
			counts, countError := service.inspector.AheadBehind(executionContext, repository, localBranch.TargetID, localBranch.Upstream.TargetID)
			if countError != nil {
				return nil, fmt.Errorf(upstreamDivergenceErrorTemplateConstant, localBranch.Name, localBranch.Upstream.Name, countError)
			}
			summaries = append(summaries, BranchSummary{
				Name:     localBranch.Name,
				Upstream: newDivergence(localBranch.Upstream.Name, "", counts),
			})
			continue
		}

		summary := BranchSummary{Name: localBranch.Name, Orphan: true}
		if compareOrphans {
			if !remoteBranchesLoaded {
				loadedBranches, remoteError := service.inspector.ListRemoteBranches(executionContext, repository)
				if remoteError != nil {
					return nil, fmt.Errorf(listRemoteBranchesErrorTemplateConstant, remoteError)
				}
				remoteBranches = loadedBranches
				remoteBranchesLoaded = true
			}
			summary.RemoteComparisons = service.compareWithRemoteBranches(executionContext, repository, localBranch, remoteBranches)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// compareWithRemoteBranches skips remote branches without a resolvable target and
// comparisons git cannot compute.
func (service *Service) compareWithRemoteBranches(executionContext context.Context, repository gitrepo.Repository, localBranch gitrepo.Branch, remoteBranches []gitrepo.RemoteBranch) []Divergence {
	comparisons := make([]Divergence, 0, len(remoteBranches))
	for _, remoteBranch := range remoteBranches {
		if len(remoteBranch.TargetID) == 0 || len(remoteBranch.ResolvedReferenceName) == 0 {
			continue
		}
		counts, countError := service.inspector.AheadBehind(executionContext, repository, localBranch.TargetID, remoteBranch.TargetID)
		if countError != nil {
			continue
		}
		comparisons = append(comparisons, *newDivergence(remoteBranch.Name, remoteBranch.ResolvedReferenceName, counts))
	}
	return comparisons
}

func (service *Service) collectStatus(executionContext context.Context, repository gitrepo.Repository, includeUntracked bool) (StatusSummary, error) {
	entries, statusError := service.inspector.ListStatus(executionContext, repository, gitrepo.StatusOptions{IncludeUntracked: includeUntracked})
	if statusError != nil {
		return StatusSummary{}, fmt.Errorf(listStatusErrorTemplateConstant, statusError)
	}

	lines := make([]StatusLine, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, StatusLine{Path: entry.Path, Flags: entry.Flags, Bucket: ClassifyStatus(entry.Flags)})
	}
	counts := SummarizeStatus(entries)
	return StatusSummary{Entries: lines, Counts: counts, Severity: ClassifySeverity(counts.Total())}, nil
}

func newDivergence(target string, resolvedTarget string, counts gitrepo.AheadBehind) *Divergence {
	return &Divergence{
		Target:         target,
		ResolvedTarget: resolvedTarget,
		Ahead:          counts.Ahead,
		Behind:         counts.Behind,
		Severity:       ClassifySeverity(counts.Ahead),
	}
}
