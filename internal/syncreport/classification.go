package syncreport

import "github.com/temirov/gitsync/internal/gitrepo"

// StatusBucket is the summary counter a status entry contributes to.
type StatusBucket string

// Status buckets.
const (
	StatusBucketDeleted     StatusBucket = "deleted"
	StatusBucketModified    StatusBucket = "modified"
	StatusBucketUntracked   StatusBucket = "untracked"
	StatusBucketUnspecified StatusBucket = "unspecified"
)

// ClassifyStatus assigns an entry to exactly one bucket by its exact flag set.
// Entries carrying more than one flag, such as INDEX_MODIFIED|WT_MODIFIED, are unspecified.
func ClassifyStatus(flags gitrepo.StatusFlags) StatusBucket {
	switch flags {
	case gitrepo.StatusWorktreeDeleted, gitrepo.StatusIndexDeleted:
		return StatusBucketDeleted
	case gitrepo.StatusWorktreeModified, gitrepo.StatusIndexModified:
		return StatusBucketModified
	case gitrepo.StatusWorktreeNew, gitrepo.StatusIndexNew:
		return StatusBucketUntracked
	default:
		return StatusBucketUnspecified
	}
}

// StatusCounts aggregates status entries per bucket.
type StatusCounts struct {
	Modified    int `yaml:"modified" toml:"modified"`
	Deleted     int `yaml:"deleted" toml:"deleted"`
	Untracked   int `yaml:"untracked" toml:"untracked"`
	Unspecified int `yaml:"unspecified" toml:"unspecified"`
}

// Total returns the number of counted entries.
func (counts StatusCounts) Total() int {
	return counts.Modified + counts.Deleted + counts.Untracked + counts.Unspecified
}

// SummarizeStatus counts entries per bucket.
func SummarizeStatus(entries []gitrepo.StatusEntry) StatusCounts {
	counts := StatusCounts{}
	for _, entry := range entries {
		switch ClassifyStatus(entry.Flags) {
		case StatusBucketDeleted:
			counts.Deleted++
		case StatusBucketModified:
			counts.Modified++
		case StatusBucketUntracked:
			counts.Untracked++
		default:
			counts.Unspecified++
		}
	}
	return counts
}
