package syncreport

import "github.com/temirov/gitsync/internal/gitrepo"

// Report is a complete synchronization snapshot of one repository.
type Report struct {
	RunID          string          `yaml:"run_id" toml:"run_id"`
	RepositoryPath string          `yaml:"repository" toml:"repository"`
	Remotes        []RemoteSummary `yaml:"remotes" toml:"remotes"`
	Branches       []BranchSummary `yaml:"branches" toml:"branches"`
	Status         StatusSummary   `yaml:"status" toml:"status"`
}

// RemoteSummary describes one configured remote.
// Endpoint is nil when the URL is not a recognisable remote address.
type RemoteSummary struct {
	Name     string             `yaml:"name" toml:"name"`
	URL      string             `yaml:"url" toml:"url"`
	Endpoint *gitrepo.RemoteURL `yaml:"endpoint,omitempty" toml:"endpoint,omitempty"`
}

// BranchSummary describes one local branch. Exactly one of Upstream or Orphan applies:
// branches with an upstream carry its Divergence, orphans carry zero or more RemoteComparisons.
type BranchSummary struct {
	Name              string       `yaml:"name" toml:"name"`
	Orphan            bool         `yaml:"orphan" toml:"orphan"`
	Upstream          *Divergence  `yaml:"upstream,omitempty" toml:"upstream,omitempty"`
	RemoteComparisons []Divergence `yaml:"remote_comparisons,omitempty" toml:"remote_comparisons,omitempty"`
}

// Divergence is the ahead/behind count of a local branch against one target.
type Divergence struct {
	Target         string   `yaml:"target" toml:"target"`
	ResolvedTarget string   `yaml:"resolved_target,omitempty" toml:"resolved_target,omitempty"`
	Ahead          int      `yaml:"ahead" toml:"ahead"`
	Behind         int      `yaml:"behind" toml:"behind"`
	Severity       Severity `yaml:"severity" toml:"severity"`
}

// StatusSummary lists every status entry and the per-bucket counts.
type StatusSummary struct {
	Entries  []StatusLine `yaml:"entries" toml:"entries"`
	Counts   StatusCounts `yaml:"counts" toml:"counts"`
	Severity Severity     `yaml:"severity" toml:"severity"`
}

// StatusLine is one classified status entry.
type StatusLine struct {
	Path   string              `yaml:"path" toml:"path"`
	Flags  gitrepo.StatusFlags `yaml:"flags" toml:"flags"`
	Bucket StatusBucket        `yaml:"bucket" toml:"bucket"`
}
