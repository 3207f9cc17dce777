package syncreport_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/temirov/gitsync/internal/gitrepo"
	"github.com/temirov/gitsync/internal/syncreport"
)

const (
	fakeRepositoryPathConstant      = "/tmp/project"
	fakeRunIdentifierConstant       = "run-0001"
	fakeAheadBehindKeyTemplate      = "%s...%s"
	fakeMissingComparisonMessage    = "no merge base"
	fakeOriginRemoteNameConstant    = "origin"
	fakeUpstreamRemoteNameConstant  = "upstream"
	fakeOriginURLConstant           = "git@github.com:example/project.git"
	fakeUpstreamURLConstant         = "https://github.com/upstream/project.git"
	fakeMainCommitConstant          = "1111111111111111111111111111111111111111"
	fakeOriginMainCommitConstant    = "2222222222222222222222222222222222222222"
	fakeFeatureCommitConstant       = "3333333333333333333333333333333333333333"
	fakeOriginFeatureCommitConstant = "4444444444444444444444444444444444444444"
)

var errFakeComparisonUnavailable = errors.New(fakeMissingComparisonMessage)

// fakeInspector serves canned repository state and records calls.
type fakeInspector struct {
	openError             error
	remoteNames           []string
	remoteURLs            map[string]string
	remoteURLError        error
	localBranches         []gitrepo.Branch
	remoteBranches        []gitrepo.RemoteBranch
	aheadBehind           map[string]gitrepo.AheadBehind
	statusEntries         []gitrepo.StatusEntry
	statusError           error
	statusOptions         []gitrepo.StatusOptions
	remoteBranchListCalls int
	comparisons           []string
}

func (inspector *fakeInspector) Open(_ context.Context, repositoryPath string) (gitrepo.Repository, error) {
	if inspector.openError != nil {
		return gitrepo.Repository{}, inspector.openError
	}
	return gitrepo.Repository{Path: repositoryPath, GitDirectory: repositoryPath + "/.git"}, nil
}

func (inspector *fakeInspector) ListRemoteNames(context.Context, gitrepo.Repository) ([]string, error) {
	return append([]string(nil), inspector.remoteNames...), nil
}

func (inspector *fakeInspector) ResolveRemoteURL(_ context.Context, _ gitrepo.Repository, remoteName string) (string, error) {
	if inspector.remoteURLError != nil {
		return "", inspector.remoteURLError
	}
	return inspector.remoteURLs[remoteName], nil
}

func (inspector *fakeInspector) ListLocalBranches(context.Context, gitrepo.Repository) ([]gitrepo.Branch, error) {
	return append([]gitrepo.Branch(nil), inspector.localBranches...), nil
}

func (inspector *fakeInspector) ListRemoteBranches(context.Context, gitrepo.Repository) ([]gitrepo.RemoteBranch, error) {
	inspector.remoteBranchListCalls++
	return append([]gitrepo.RemoteBranch(nil), inspector.remoteBranches...), nil
}

func (inspector *fakeInspector) AheadBehind(_ context.Context, _ gitrepo.Repository, localID string, otherID string) (gitrepo.AheadBehind, error) {
	key := fmt.Sprintf(fakeAheadBehindKeyTemplate, localID, otherID)
	inspector.comparisons = append(inspector.comparisons, key)
	counts, exists := inspector.aheadBehind[key]
	if !exists {
		return gitrepo.AheadBehind{}, errFakeComparisonUnavailable
	}
	return counts, nil
}

func (inspector *fakeInspector) ListStatus(_ context.Context, _ gitrepo.Repository, options gitrepo.StatusOptions) ([]gitrepo.StatusEntry, error) {
	inspector.statusOptions = append(inspector.statusOptions, options)
	if inspector.statusError != nil {
		return nil, inspector.statusError
	}
	return append([]gitrepo.StatusEntry(nil), inspector.statusEntries...), nil
}

// recordedLine is one line captured by recordingSink.
type recordedLine struct {
	severity syncreport.Severity
	message  string
}

// recordingSink captures emitted report lines in order.
type recordingSink struct {
	lines []recordedLine
}

func (sink *recordingSink) Emit(severity syncreport.Severity, message string) {
	sink.lines = append(sink.lines, recordedLine{severity: severity, message: message})
}

func (sink *recordingSink) messagesAt(severity syncreport.Severity) []string {
	messages := []string{}
	for _, line := range sink.lines {
		if line.severity == severity {
			messages = append(messages, line.message)
		}
	}
	return messages
}

func aheadBehindKey(localID string, otherID string) string {
	return fmt.Sprintf(fakeAheadBehindKeyTemplate, localID, otherID)
}

// newSynchronizedInspector describes a repository with two remotes, main tracking
// origin/main and an orphan feature branch.
func newSynchronizedInspector() *fakeInspector {
	return &fakeInspector{
		remoteNames: []string{fakeOriginRemoteNameConstant, fakeUpstreamRemoteNameConstant},
		remoteURLs: map[string]string{
			fakeOriginRemoteNameConstant:   fakeOriginURLConstant,
			fakeUpstreamRemoteNameConstant: fakeUpstreamURLConstant,
		},
		localBranches: []gitrepo.Branch{
			{
				Name:          "main",
				ReferenceName: "refs/heads/main",
				TargetID:      fakeMainCommitConstant,
				Upstream: &gitrepo.BranchReference{
					Name:          "origin/main",
					ReferenceName: "refs/remotes/origin/main",
					TargetID:      fakeOriginMainCommitConstant,
				},
			},
			{
				Name:          "feature",
				ReferenceName: "refs/heads/feature",
				TargetID:      fakeFeatureCommitConstant,
			},
		},
		remoteBranches: []gitrepo.RemoteBranch{
			{
				Name:                  "origin/feature",
				ReferenceName:         "refs/remotes/origin/feature",
				ResolvedReferenceName: "refs/remotes/origin/feature",
				TargetID:              fakeOriginFeatureCommitConstant,
			},
			{
				Name:                  "origin/stale",
				ReferenceName:         "refs/remotes/origin/stale",
				ResolvedReferenceName: "",
				TargetID:              "",
			},
		},
		aheadBehind: map[string]gitrepo.AheadBehind{
			aheadBehindKey(fakeMainCommitConstant, fakeOriginMainCommitConstant):       {Ahead: 2, Behind: 0},
			aheadBehindKey(fakeFeatureCommitConstant, fakeOriginFeatureCommitConstant): {Ahead: 0, Behind: 1},
		},
		statusEntries: []gitrepo.StatusEntry{
			{Path: "README.md", Flags: gitrepo.StatusWorktreeModified},
			{Path: "notes.txt", Flags: gitrepo.StatusWorktreeNew},
		},
	}
}

func staticIdentifier() string {
	return fakeRunIdentifierConstant
}
