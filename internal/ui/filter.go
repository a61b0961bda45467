package ui

import (
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/temirov/branchsweep/internal/gitrepo"
)

type branchNameSource []gitrepo.Branch

func (source branchNameSource) String(index int) string {
	return source[index].Name
}

func (source branchNameSource) Len() int {
	return len(source)
}

// filterBranchIndexes returns the indexes of branches whose names fuzzy-match query.
// Matches keep list order so the oldest branch stays on top.
func filterBranchIndexes(branches []gitrepo.Branch, query string) []int {
	trimmedQuery := strings.TrimSpace(query)
	if len(trimmedQuery) == 0 {
		indexes := make([]int, len(branches))
		for index := range branches {
			indexes[index] = index
		}
		return indexes
	}

	matches := fuzzy.FindFrom(trimmedQuery, branchNameSource(branches))
	indexes := make([]int, 0, len(matches))
	for _, match := range matches {
		indexes = append(indexes, match.Index)
	}
	slices.Sort(indexes)
	return indexes
}
