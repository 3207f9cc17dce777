// Package syncreport collects and renders the synchronization report of a
// single repository: configured remotes, ahead/behind counts of every local
// branch against its upstream (or against every remote-tracking branch when no
// upstream exists), and a classified working tree status summary.
//
// Collection (Service) and rendering (TextReporter, WriteYAML) are separate so
// that a report is only rendered once it has been collected completely.
package syncreport
