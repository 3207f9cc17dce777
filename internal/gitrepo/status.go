package gitrepo

import (
	"context"
	"fmt"
	"strings"
)

const (
	gitStatusSubcommandConstant       = "status"
	gitPorcelainV1FlagConstant        = "--porcelain=v1"
	gitNullTerminatedFlagConstant     = "-z"
	gitNoRenamesFlagConstant          = "--no-renames"
	gitUntrackedNormalFlagConstant    = "--untracked-files=normal"
	gitUntrackedNoneFlagConstant      = "--untracked-files=no"
	statusListErrorTemplateConstant   = "unable to list status: %w"
	malformedStatusRecordTemplate     = "malformed status record %q"
	statusFlagSeparatorConstant       = "|"
	statusCurrentFlagNameConstant     = "CURRENT"
	statusRecordMinimumLengthConstant = 4
	statusUntrackedCodeConstant       = "??"
	statusIgnoredCodeConstant         = "!!"
)

// StatusFlags is a bit set describing how a path differs between HEAD, the index and the working tree.
type StatusFlags uint16

// Status flags reported for a path.
const (
	StatusIndexNew StatusFlags = 1 << iota
	StatusIndexModified
	StatusIndexDeleted
	StatusIndexRenamed
	StatusIndexTypeChange
	StatusWorktreeNew
	StatusWorktreeModified
	StatusWorktreeDeleted
	StatusWorktreeTypeChange
	StatusWorktreeRenamed
	StatusIgnored
	StatusConflicted
)

var statusFlagNames = []struct {
	flag StatusFlags
	name string
}{
	{StatusIndexNew, "INDEX_NEW"},
	{StatusIndexModified, "INDEX_MODIFIED"},
	{StatusIndexDeleted, "INDEX_DELETED"},
	{StatusIndexRenamed, "INDEX_RENAMED"},
	{StatusIndexTypeChange, "INDEX_TYPECHANGE"},
	{StatusWorktreeNew, "WT_NEW"},
	{StatusWorktreeModified, "WT_MODIFIED"},
	{StatusWorktreeDeleted, "WT_DELETED"},
	{StatusWorktreeTypeChange, "WT_TYPECHANGE"},
	{StatusWorktreeRenamed, "WT_RENAMED"},
	{StatusIgnored, "IGNORED"},
	{StatusConflicted, "CONFLICTED"},
}

// unmerged porcelain codes; see git-status(1) "Short Format".
var conflictedStatusCodes = map[string]struct{}{
	"DD": {}, "AU": {}, "UD": {}, "UA": {}, "DU": {}, "AA": {}, "UU": {},
}

// String renders the set flags joined by "|", e.g. "INDEX_MODIFIED|WT_MODIFIED".
func (flags StatusFlags) String() string {
	if flags == 0 {
		return statusCurrentFlagNameConstant
	}
	names := []string{}
	for _, candidate := range statusFlagNames {
		if flags&candidate.flag != 0 {
			names = append(names, candidate.name)
		}
	}
	return strings.Join(names, statusFlagSeparatorConstant)
}

// MarshalText implements encoding.TextMarshaler so serialized reports carry flag names.
func (flags StatusFlags) MarshalText() ([]byte, error) {
	return []byte(flags.String()), nil
}

// StatusEntry is one path reported by git status.
type StatusEntry struct {
	Path  string
	Flags StatusFlags
}

// StatusOptions tunes status collection.
type StatusOptions struct {
	IncludeUntracked bool
}

// ListStatus returns combined index and working tree status for every changed path.
// Rename detection is disabled, so a rename surfaces as a deletion and an addition.
func (manager *RepositoryManager) ListStatus(executionContext context.Context, repository Repository, options StatusOptions) ([]StatusEntry, error) {
	untrackedFlag := gitUntrackedNoneFlagConstant
	if options.IncludeUntracked {
		untrackedFlag = gitUntrackedNormalFlagConstant
	}

	output, executionError := manager.run(
		executionContext,
		repository,
		gitStatusSubcommandConstant,
		gitPorcelainV1FlagConstant,
		gitNullTerminatedFlagConstant,
		gitNoRenamesFlagConstant,
		untrackedFlag,
	)
	if executionError != nil {
		return nil, fmt.Errorf(statusListErrorTemplateConstant, executionError)
	}

	entries, parseError := ParsePorcelainStatus(output)
	if parseError != nil {
		return nil, fmt.Errorf(statusListErrorTemplateConstant, parseError)
	}
	return entries, nil
}

// ParsePorcelainStatus decodes NUL-terminated `git status --porcelain=v1 -z` output.
func ParsePorcelainStatus(output string) ([]StatusEntry, error) {
	records := strings.Split(output, fieldSeparatorConstant)
	entries := []StatusEntry{}
	for recordIndex := 0; recordIndex < len(records); recordIndex++ {
		record := records[recordIndex]
		if len(record) == 0 {
			continue
		}
		if len(record) < statusRecordMinimumLengthConstant || record[2] != ' ' {
			return nil, fmt.Errorf(malformedStatusRecordTemplate, record)
		}

		statusCode := record[:2]
		entries = append(entries, StatusEntry{Path: record[3:], Flags: decodeStatusCode(statusCode)})

		// Rename and copy records carry the original path as the following record.
		if statusCode[0] == 'R' || statusCode[0] == 'C' || statusCode[1] == 'R' || statusCode[1] == 'C' {
			recordIndex++
		}
	}
	return entries, nil
}

func decodeStatusCode(statusCode string) StatusFlags {
	switch statusCode {
	case statusUntrackedCodeConstant:
		return StatusWorktreeNew
	case statusIgnoredCodeConstant:
		return StatusIgnored
	}
	if _, conflicted := conflictedStatusCodes[statusCode]; conflicted {
		return StatusConflicted
	}

	var flags StatusFlags
	switch statusCode[0] {
	case 'M':
		flags |= StatusIndexModified
	case 'T':
		flags |= StatusIndexTypeChange
	case 'A', 'C':
		flags |= StatusIndexNew
	case 'D':
		flags |= StatusIndexDeleted
	case 'R':
		flags |= StatusIndexRenamed
	}
	switch statusCode[1] {
	case 'M':
		flags |= StatusWorktreeModified
	case 'T':
		flags |= StatusWorktreeTypeChange
	case 'A':
		flags |= StatusWorktreeNew
	case 'D':
		flags |= StatusWorktreeDeleted
	case 'R':
		flags |= StatusWorktreeRenamed
	}
	return flags
}
