// Package utils exposes the configuration and logging helpers shared by the CLI.
//
// ConfigurationLoader layers embedded defaults, an optional configuration file
// and prefixed environment variables through Viper. LoggerFactory builds the
// diagnostic zap logger and the plain console logger that carries report lines.
package utils
