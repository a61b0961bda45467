package branches

import (
	"slices"
	"strings"
	"time"

	"github.com/temirov/branchsweep/internal/gitrepo"
	pathutils "github.com/temirov/branchsweep/internal/utils/path"
)

const (
	defaultBranchTypeConstant         = "both"
	defaultPrivateKeyPathConstant     = "~/.ssh/id_rsa"
	defaultPushTimeoutConstant        = 60 * time.Second
	configurationKeySeparatorConstant = "."
)

// CommandConfiguration captures configuration values for the branch commands.
type CommandConfiguration struct {
	RepositoryPath string        `mapstructure:"repository"`
	BranchType     string        `mapstructure:"type"`
	Skip           []string      `mapstructure:"skip"`
	PrivateKeyPath string        `mapstructure:"private_key"`
	Strict         bool          `mapstructure:"strict"`
	PushTimeout    time.Duration `mapstructure:"push_timeout"`
	DryRun         bool          `mapstructure:"dry_run"`
	AssumeYes      bool          `mapstructure:"assume_yes"`
	OutputFormat   string        `mapstructure:"format"`
}

// DefaultSkipList names the branches protected unless configuration says otherwise.
func DefaultSkipList() []string {
	return []string{"main", "master", "origin/HEAD", "origin/main", "origin/master"}
}

// DefaultCommandConfiguration provides baseline configuration values for the branch commands.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RepositoryPath: "",
		BranchType:     defaultBranchTypeConstant,
		Skip:           DefaultSkipList(),
		PrivateKeyPath: defaultPrivateKeyPathConstant,
		Strict:         false,
		PushTimeout:    defaultPushTimeoutConstant,
		DryRun:         false,
		AssumeYes:      false,
		OutputFormat:   string(OutputFormatTable),
	}
}

// DefaultConfigurationValues returns the default values keyed by their configuration path under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	keyPrefix := strings.TrimSuffix(strings.TrimSpace(prefix), configurationKeySeparatorConstant)
	if len(keyPrefix) > 0 {
		keyPrefix += configurationKeySeparatorConstant
	}
	return map[string]any{
		keyPrefix + "repository":   defaults.RepositoryPath,
		keyPrefix + "type":         defaults.BranchType,
		keyPrefix + "skip":         defaults.Skip,
		keyPrefix + "private_key":  defaults.PrivateKeyPath,
		keyPrefix + "strict":       defaults.Strict,
		keyPrefix + "push_timeout": defaults.PushTimeout.String(),
		keyPrefix + "dry_run":      defaults.DryRun,
		keyPrefix + "assume_yes":   defaults.AssumeYes,
		keyPrefix + "format":       defaults.OutputFormat,
	}
}

// Sanitize trims values, drops empty and duplicate skip entries, and expands "~" in paths.
// The branch type is left as written so unrecognized values keep listing every branch.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	homeExpander := pathutils.NewHomeExpander()

	sanitized := configuration
	sanitized.RepositoryPath = homeExpander.Expand(strings.TrimSpace(configuration.RepositoryPath))
	sanitized.BranchType = strings.TrimSpace(configuration.BranchType)
	sanitized.Skip = sanitizeSkipList(configuration.Skip)
	sanitized.PrivateKeyPath = homeExpander.Expand(strings.TrimSpace(configuration.PrivateKeyPath))
	sanitized.OutputFormat = strings.TrimSpace(configuration.OutputFormat)
	if len(sanitized.OutputFormat) == 0 {
		sanitized.OutputFormat = string(OutputFormatTable)
	}
	if sanitized.PushTimeout < 0 {
		sanitized.PushTimeout = 0
	}
	return sanitized
}

// Filter converts the configured branch type into an enumeration filter.
func (configuration CommandConfiguration) Filter() gitrepo.BranchType {
	return gitrepo.ParseBranchType(configuration.BranchType)
}

func sanitizeSkipList(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for _, candidate := range raw {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 || slices.Contains(sanitized, trimmed) {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}
