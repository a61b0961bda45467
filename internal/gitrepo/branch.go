package gitrepo

import (
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
)

const (
	remoteBranchSeparatorConstant = "/"
	messageLineSeparatorConstant  = "\n"
)

// Branch describes a branch tip captured during enumeration.
//
// The live reference is not retained; DeleteBranch re-resolves it through the
// recorded repository identifier and reference name.
type Branch struct {
	Name       string
	Message    string
	CommitTime time.Time
	Type       BranchType

	repositoryIdentifier string
	referenceName        plumbing.ReferenceName
}

// NewBranch constructs a Branch detached from any repository.
func NewBranch(name string, message string, commitTime time.Time, branchType BranchType) Branch {
	return Branch{Name: name, Message: message, CommitTime: commitTime, Type: branchType}
}

// ReferenceName returns the full reference name the branch was enumerated from.
func (branch Branch) ReferenceName() plumbing.ReferenceName {
	return branch.referenceName
}

// Subject returns the first line of the commit message.
func (branch Branch) Subject() string {
	subject, _, _ := strings.Cut(branch.Message, messageLineSeparatorConstant)
	return strings.TrimSpace(subject)
}

// Equal reports whether both branches carry the same name. Commit time and type are ignored.
func (branch Branch) Equal(other Branch) bool {
	return branch.Name == other.Name
}

// Before reports whether the branch was committed to strictly earlier than other.
func (branch Branch) Before(other Branch) bool {
	return branch.CommitTime.Before(other.CommitTime)
}

// CompareByCommitTime orders branches by commit time, oldest first.
func CompareByCommitTime(left Branch, right Branch) int {
	return left.CommitTime.Compare(right.CommitTime)
}

// SplitRemoteBranchName splits "<remote>/<branch>" on the first separator.
func SplitRemoteBranchName(name string) (string, string, bool) {
	remoteName, branchName, found := strings.Cut(name, remoteBranchSeparatorConstant)
	if !found || len(remoteName) == 0 || len(branchName) == 0 {
		return "", "", false
	}
	return remoteName, branchName, true
}

// normalizeCommitTime reinterprets a commit timestamp as the committer's local wall clock expressed in UTC.
func normalizeCommitTime(when time.Time) time.Time {
	_, offsetSeconds := when.Zone()
	return time.Unix(when.Unix(), 0).UTC().Add(time.Duration(offsetSeconds) * time.Second)
}
