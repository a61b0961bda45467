package flags

const (
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagUsage describes the shared dry-run flag purpose.
	DryRunFlagUsage = "Report branches that would be deleted without deleting them"
	// AssumeYesFlagName exposes the shared assume-yes flag name.
	AssumeYesFlagName = "yes"
	// AssumeYesFlagShorthand provides the shorthand for the assume-yes flag.
	AssumeYesFlagShorthand = "y"
	// AssumeYesFlagUsage describes the shared assume-yes flag purpose.
	AssumeYesFlagUsage = "Delete without asking for confirmation"
	// RepositoryFlagName exposes the repository location flag name.
	RepositoryFlagName = "repository"
	// RepositoryFlagShorthand provides the shorthand for the repository flag.
	RepositoryFlagShorthand = "C"
	// RepositoryFlagUsage describes the repository location flag.
	RepositoryFlagUsage = "Repository path (default: discovered from GIT_DIR or the working directory)"
	// BranchTypeFlagName exposes the branch type filter flag name.
	BranchTypeFlagName = "type"
	// BranchTypeFlagUsage describes the branch type filter flag.
	BranchTypeFlagUsage = "Branch kinds to include"
	// SkipFlagName exposes the skip list flag name.
	SkipFlagName = "skip"
	// SkipFlagUsage describes the skip list flag.
	SkipFlagUsage = "Branch names never listed or deleted (repeatable)"
	// PrivateKeyFlagName exposes the SSH private key flag name.
	PrivateKeyFlagName = "private-key"
	// PrivateKeyFlagUsage describes the SSH private key flag.
	PrivateKeyFlagUsage = "SSH private key used for remote deletions"
)
