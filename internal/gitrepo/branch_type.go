package gitrepo

const (
	branchTypeRemoteLiteralConstant  = "remote"
	branchTypeLocalLiteralConstant   = "local"
	branchTypeBothLiteralConstant    = "both"
	branchTypeInvalidLiteralConstant = "invalid"
)

// BranchType classifies branches and doubles as the enumeration filter.
type BranchType int

// Supported branch types. Both and Invalid only appear as filter values.
const (
	BranchTypeInvalid BranchType = iota
	BranchTypeRemote
	BranchTypeLocal
	BranchTypeBoth
)

// ParseBranchType maps the literal filter strings to a BranchType.
// Unrecognized values yield BranchTypeInvalid, which lists every branch.
func ParseBranchType(value string) BranchType {
	switch value {
	case branchTypeRemoteLiteralConstant:
		return BranchTypeRemote
	case branchTypeLocalLiteralConstant:
		return BranchTypeLocal
	case branchTypeBothLiteralConstant:
		return BranchTypeBoth
	default:
		return BranchTypeInvalid
	}
}

// BranchTypeChoices lists the literal filter values accepted by ParseBranchType.
func BranchTypeChoices() []string {
	return []string{branchTypeRemoteLiteralConstant, branchTypeLocalLiteralConstant, branchTypeBothLiteralConstant}
}

// String returns the literal form of the branch type.
func (branchType BranchType) String() string {
	switch branchType {
	case BranchTypeRemote:
		return branchTypeRemoteLiteralConstant
	case BranchTypeLocal:
		return branchTypeLocalLiteralConstant
	case BranchTypeBoth:
		return branchTypeBothLiteralConstant
	default:
		return branchTypeInvalidLiteralConstant
	}
}

// IncludesLocal reports whether the filter admits local branches.
func (branchType BranchType) IncludesLocal() bool {
	return branchType != BranchTypeRemote
}

// IncludesRemote reports whether the filter admits remote-tracking branches.
func (branchType BranchType) IncludesRemote() bool {
	return branchType != BranchTypeLocal
}
