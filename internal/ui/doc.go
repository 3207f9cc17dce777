// Package ui provides helpers for formatting human-readable console output.
//
// ConsoleCommandEventLogger turns git command lifecycle events into short
// sentences when the diagnostic log runs in console format, while structured
// runs keep the executor's field-based entries.
package ui
