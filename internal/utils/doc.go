// Package utils exposes reusable helpers consumed by the CLI commands.
//
// It houses ConfigurationLoader, which layers embedded defaults, configuration
// files, and environment variables through Viper, and LoggerFactory, which
// builds zap loggers that flush every write.
package utils
