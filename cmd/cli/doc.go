// Package cli constructs the gitsync command-line interface. It wires the
// Cobra root command, the layered configuration loader and the diagnostic and
// report loggers around the repository report command.
package cli
