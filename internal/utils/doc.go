// Package utils exposes the ambient helpers shared by branchsweep commands.
//
// ConfigurationLoader layers embedded defaults, configuration files, and
// BRANCHSWEEP_* environment overrides through Viper; LoggerFactory builds zap
// loggers; CommandContextAccessor carries execution flags between the root
// command and its subcommands.
package utils
