// Package gitrepo contains read-only helpers for interrogating Git repositories.
//
// RepositoryManager drives the git executable through execshell to open a
// repository, enumerate remotes and branches, count commits between two tips,
// and list combined index and working tree status. ParseRemoteURL turns remote
// URLs into structured endpoints.
package gitrepo
