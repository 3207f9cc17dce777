package syncreport_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/gitsync/internal/gitrepo"
	"github.com/temirov/gitsync/internal/syncreport"
)

func TestClassifySeverity(testInstance *testing.T) {
	require.Equal(testInstance, syncreport.SeverityInfo, syncreport.ClassifySeverity(0))
	require.Equal(testInstance, syncreport.SeverityInfo, syncreport.ClassifySeverity(-1))
	require.Equal(testInstance, syncreport.SeverityWarn, syncreport.ClassifySeverity(1))
	require.Equal(testInstance, syncreport.SeverityWarn, syncreport.ClassifySeverity(2))

	require.Equal(testInstance, zapcore.InfoLevel, syncreport.SeverityInfo.ZapLevel())
	require.Equal(testInstance, zapcore.WarnLevel, syncreport.SeverityWarn.ZapLevel())
}

func TestClassifyStatus(testInstance *testing.T) {
	testCases := []struct {
		name           string
		flags          gitrepo.StatusFlags
		expectedBucket syncreport.StatusBucket
	}{
		{name: "worktree_deleted", flags: gitrepo.StatusWorktreeDeleted, expectedBucket: syncreport.StatusBucketDeleted},
		{name: "index_deleted", flags: gitrepo.StatusIndexDeleted, expectedBucket: syncreport.StatusBucketDeleted},
		{name: "worktree_modified", flags: gitrepo.StatusWorktreeModified, expectedBucket: syncreport.StatusBucketModified},
		{name: "index_modified", flags: gitrepo.StatusIndexModified, expectedBucket: syncreport.StatusBucketModified},
		{name: "worktree_new", flags: gitrepo.StatusWorktreeNew, expectedBucket: syncreport.StatusBucketUntracked},
		{name: "index_new", flags: gitrepo.StatusIndexNew, expectedBucket: syncreport.StatusBucketUntracked},
		{name: "modified_in_both", flags: gitrepo.StatusIndexModified | gitrepo.StatusWorktreeModified, expectedBucket: syncreport.StatusBucketUnspecified},
		{name: "added_then_modified", flags: gitrepo.StatusIndexNew | gitrepo.StatusWorktreeModified, expectedBucket: syncreport.StatusBucketUnspecified},
		{name: "conflicted", flags: gitrepo.StatusConflicted, expectedBucket: syncreport.StatusBucketUnspecified},
		{name: "type_change", flags: gitrepo.StatusWorktreeTypeChange, expectedBucket: syncreport.StatusBucketUnspecified},
		{name: "renamed", flags: gitrepo.StatusIndexRenamed, expectedBucket: syncreport.StatusBucketUnspecified},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			require.Equal(subTest, testCase.expectedBucket, syncreport.ClassifyStatus(testCase.flags))
		})
	}
}

func TestSummarizeStatus(testInstance *testing.T) {
	counts := syncreport.SummarizeStatus([]gitrepo.StatusEntry{
		{Path: "a.txt", Flags: gitrepo.StatusWorktreeModified},
		{Path: "b.txt", Flags: gitrepo.StatusIndexDeleted},
		{Path: "c.txt", Flags: gitrepo.StatusWorktreeNew},
		{Path: "d.txt", Flags: gitrepo.StatusIndexModified | gitrepo.StatusWorktreeModified},
		{Path: "e.txt", Flags: gitrepo.StatusIndexNew},
	})

	require.Equal(testInstance, syncreport.StatusCounts{Modified: 1, Deleted: 1, Untracked: 2, Unspecified: 1}, counts)
	require.Equal(testInstance, 5, counts.Total())
}
