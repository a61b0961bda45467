// Package flags provides helpers for binding shared flags to Cobra commands.
package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ExecutionDefaults describes default flag values shared across commands.
type ExecutionDefaults struct {
	DryRun    bool
	AssumeYes bool
}

// ExecutionFlagDefinition captures a single flag's configuration.
type ExecutionFlagDefinition struct {
	Name      string
	Usage     string
	Shorthand string
	Enabled   bool
}

// ExecutionFlagDefinitions groups execution flag definitions.
type ExecutionFlagDefinitions struct {
	DryRun    ExecutionFlagDefinition
	AssumeYes ExecutionFlagDefinition
}

// DefaultExecutionFlagDefinitions enables --dry-run and --yes/-y.
func DefaultExecutionFlagDefinitions() ExecutionFlagDefinitions {
	return ExecutionFlagDefinitions{
		DryRun:    ExecutionFlagDefinition{Name: DryRunFlagName, Usage: DryRunFlagUsage, Enabled: true},
		AssumeYes: ExecutionFlagDefinition{Name: AssumeYesFlagName, Usage: AssumeYesFlagUsage, Shorthand: AssumeYesFlagShorthand, Enabled: true},
	}
}

// BindExecutionFlags attaches execution flags to the provided command using persistent scope.
func BindExecutionFlags(command *cobra.Command, defaults ExecutionDefaults, definitions ExecutionFlagDefinitions) {
	if command == nil {
		return
	}

	persistentFlagSet := command.PersistentFlags()
	bindBoolFlag(persistentFlagSet, definitions.DryRun, defaults.DryRun)
	bindBoolFlag(persistentFlagSet, definitions.AssumeYes, defaults.AssumeYes)
}

// LookupBool reports a boolean flag's value and whether the user changed it.
func LookupBool(flagSet *pflag.FlagSet, name string) (bool, bool) {
	if flagSet == nil {
		return false, false
	}
	flag := flagSet.Lookup(name)
	if flag == nil {
		return false, false
	}
	value, parseError := flagSet.GetBool(name)
	if parseError != nil {
		return false, false
	}
	return value, flag.Changed
}

func bindBoolFlag(flagSet *pflag.FlagSet, definition ExecutionFlagDefinition, defaultValue bool) {
	if flagSet == nil || !definition.Enabled || len(definition.Name) == 0 {
		return
	}
	if flagSet.Lookup(definition.Name) != nil {
		return
	}

	if len(definition.Shorthand) > 0 {
		flagSet.BoolP(definition.Name, definition.Shorthand, defaultValue, definition.Usage)
		return
	}
	flagSet.Bool(definition.Name, defaultValue, definition.Usage)
}
