package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/temirov/branchsweep/internal/gitrepo"
)

var pickerTestBaseTime = time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)

func pickerTestBranches() []gitrepo.Branch {
	return []gitrepo.Branch{
		gitrepo.NewBranch("fix-login", "Fix login redirect\n", pickerTestBaseTime, gitrepo.BranchTypeLocal),
		gitrepo.NewBranch("feature-x", "Add feature x\n", pickerTestBaseTime.Add(time.Hour), gitrepo.BranchTypeLocal),
		gitrepo.NewBranch("origin/feature-x", "Add feature x\n", pickerTestBaseTime.Add(2*time.Hour), gitrepo.BranchTypeRemote),
	}
}

func runeKey(value string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(value)}
}

func updatePicker(testInstance *testing.T, model PickerModel, msg tea.Msg) (PickerModel, tea.Cmd) {
	testInstance.Helper()
	updated, cmd := model.Update(msg)
	picker, isPicker := updated.(PickerModel)
	require.True(testInstance, isPicker)
	return picker, cmd
}

func TestPickerTogglesMarksAndMovesCursor(testInstance *testing.T) {
	model := NewPickerModel(context.Background(), pickerTestBranches(), nil, false)

	model, _ = updatePicker(testInstance, model, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	model, _ = updatePicker(testInstance, model, runeKey("j"))
	model, _ = updatePicker(testInstance, model, runeKey("j"))
	model, _ = updatePicker(testInstance, model, runeKey("j"))
	model, _ = updatePicker(testInstance, model, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	require.Equal(testInstance, 2, model.cursor)
	require.Equal(testInstance, []string{"fix-login", "origin/feature-x"}, pickerBranchNames(model.Marked()))

	model, _ = updatePicker(testInstance, model, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	model, _ = updatePicker(testInstance, model, runeKey("k"))
	require.Equal(testInstance, 1, model.cursor)
	require.Equal(testInstance, []string{"fix-login"}, pickerBranchNames(model.Marked()))
}

func TestPickerDeleteRequiresMarksAndConfirmation(testInstance *testing.T) {
	model := NewPickerModel(context.Background(), pickerTestBranches(), nil, false)

	model, _ = updatePicker(testInstance, model, runeKey("d"))
	require.Equal(testInstance, pickerPhaseBrowsing, model.phase)

	model, _ = updatePicker(testInstance, model, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	model, _ = updatePicker(testInstance, model, runeKey("d"))
	require.Equal(testInstance, pickerPhaseConfirming, model.phase)
	require.Contains(testInstance, model.View(), "Delete 1 marked branch(es)? y/n")

	model, _ = updatePicker(testInstance, model, runeKey("n"))
	require.Equal(testInstance, pickerPhaseBrowsing, model.phase)
	require.Len(testInstance, model.Marked(), 1)
}

func TestPickerDeletesMarkedBranchesSequentially(testInstance *testing.T) {
	var deletedNames []string
	deleter := func(_ context.Context, branch gitrepo.Branch) error {
		deletedNames = append(deletedNames, branch.Name)
		if branch.Name == "origin/feature-x" {
			return errors.New("push rejected")
		}
		return nil
	}

	model := NewPickerModel(context.Background(), pickerTestBranches(), deleter, false)
	model.marked["fix-login"] = struct{}{}
	model.marked["origin/feature-x"] = struct{}{}

	model, _ = updatePicker(testInstance, model, runeKey("d"))
	model, confirmCmd := updatePicker(testInstance, model, runeKey("y"))
	require.NotNil(testInstance, confirmCmd)
	require.Equal(testInstance, pickerPhaseDeleting, model.phase)
	require.Equal(testInstance, 2, model.deletionTotal)

	firstResult := model.deleteCmd(model.pending[0])()
	model, nextCmd := updatePicker(testInstance, model, firstResult)
	require.NotNil(testInstance, nextCmd)
	require.Equal(testInstance, pickerPhaseDeleting, model.phase)

	model, finalCmd := updatePicker(testInstance, model, nextCmd())
	require.Nil(testInstance, finalCmd)
	require.Equal(testInstance, pickerPhaseBrowsing, model.phase)

	require.Equal(testInstance, []string{"fix-login", "origin/feature-x"}, deletedNames)
	outcome := model.Outcome()
	require.Equal(testInstance, []string{"fix-login"}, pickerBranchNames(outcome.Deleted))
	require.Len(testInstance, outcome.Failed, 1)
	require.Equal(testInstance, "origin/feature-x", outcome.Failed[0].Branch.Name)

	require.Equal(testInstance, []string{"feature-x", "origin/feature-x"}, pickerBranchNames(model.branches))
	require.Empty(testInstance, model.marked)

	view := model.View()
	require.Contains(testInstance, view, "Deleted 1, failed 1")
	require.Contains(testInstance, view, "push rejected")
	require.NotContains(testInstance, view, "fix-login")
}

func TestPickerDryRunKeepsBranchesListed(testInstance *testing.T) {
	model := NewPickerModel(context.Background(), pickerTestBranches(), func(context.Context, gitrepo.Branch) error { return nil }, true)
	model.marked["feature-x"] = struct{}{}

	model, _ = updatePicker(testInstance, model, runeKey("d"))
	model, _ = updatePicker(testInstance, model, runeKey("y"))
	model, _ = updatePicker(testInstance, model, model.deleteCmd(model.pending[0])())

	require.Len(testInstance, model.branches, 3)
	require.Equal(testInstance, []string{"feature-x"}, pickerBranchNames(model.Outcome().Deleted))
	require.Contains(testInstance, model.View(), "Would delete 1, failed 0")
	require.Contains(testInstance, model.View(), "(dry run)")
}

func TestPickerFiltersWithFuzzyQuery(testInstance *testing.T) {
	model := NewPickerModel(context.Background(), pickerTestBranches(), nil, false)

	model, _ = updatePicker(testInstance, model, runeKey("/"))
	require.Equal(testInstance, pickerPhaseFiltering, model.phase)

	model, _ = updatePicker(testInstance, model, runeKey("f"))
	model, _ = updatePicker(testInstance, model, runeKey("e"))
	model, _ = updatePicker(testInstance, model, runeKey("x"))
	require.Equal(testInstance, []int{1, 2}, model.visible)

	model, _ = updatePicker(testInstance, model, runeKey("q"))
	require.Equal(testInstance, pickerPhaseFiltering, model.phase)

	model, _ = updatePicker(testInstance, model, tea.KeyMsg{Type: tea.KeyBackspace})
	model, _ = updatePicker(testInstance, model, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(testInstance, pickerPhaseBrowsing, model.phase)
	require.Equal(testInstance, []int{1, 2}, model.visible)

	model, _ = updatePicker(testInstance, model, runeKey("/"))
	model, _ = updatePicker(testInstance, model, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(testInstance, []int{0, 1, 2}, model.visible)
}

func TestPickerQuitsAndRendersEmptyList(testInstance *testing.T) {
	model := NewPickerModel(context.Background(), nil, nil, false)
	require.Contains(testInstance, model.View(), "No branches to clean up.")

	_, quitCmd := updatePicker(testInstance, model, runeKey("q"))
	require.NotNil(testInstance, quitCmd)
	require.IsType(testInstance, tea.QuitMsg{}, quitCmd())
}

func TestFilterBranchIndexes(testInstance *testing.T) {
	branches := pickerTestBranches()

	testCases := []struct {
		name            string
		query           string
		expectedIndexes []int
	}{
		{name: "EmptyQuery", query: "", expectedIndexes: []int{0, 1, 2}},
		{name: "WhitespaceQuery", query: "  ", expectedIndexes: []int{0, 1, 2}},
		{name: "Subsequence", query: "fex", expectedIndexes: []int{1, 2}},
		{name: "RemotePrefix", query: "origin", expectedIndexes: []int{2}},
		{name: "NoMatch", query: "zzz", expectedIndexes: []int{}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedIndexes, filterBranchIndexes(branches, testCase.query))
		})
	}
}

func pickerBranchNames(branches []gitrepo.Branch) []string {
	names := make([]string, 0, len(branches))
	for _, branch := range branches {
		names = append(names, branch.Name)
	}
	return names
}

func TestPickerScrollsLongListsWithinWindowHeight(testInstance *testing.T) {
	branches := make([]gitrepo.Branch, 0, 20)
	for index := 0; index < 20; index++ {
		branches = append(branches, gitrepo.NewBranch(fmt.Sprintf("branch-%02d", index), "Work\n", pickerTestBaseTime.Add(time.Duration(index)*time.Hour), gitrepo.BranchTypeLocal))
	}
	model := NewPickerModel(context.Background(), branches, nil, false)
	require.Contains(testInstance, model.View(), "branch-19")

	model, _ = updatePicker(testInstance, model, tea.WindowSizeMsg{Width: 80, Height: 10})
	view := model.View()
	require.Contains(testInstance, view, "branch-00")
	require.Contains(testInstance, view, "branch-02")
	require.NotContains(testInstance, view, "branch-03")
	require.Contains(testInstance, view, "1-3 of 20")
	require.LessOrEqual(testInstance, strings.Count(view, "\n")+1, 10)

	for step := 0; step < 5; step++ {
		model, _ = updatePicker(testInstance, model, runeKey("j"))
	}
	require.Equal(testInstance, 5, model.cursor)
	view = model.View()
	require.Contains(testInstance, view, "branch-05")
	require.NotContains(testInstance, view, "branch-02")
	require.Contains(testInstance, view, "4-6 of 20")

	model, _ = updatePicker(testInstance, model, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.Equal(testInstance, []string{"branch-05"}, pickerBranchNames(model.Marked()))

	for step := 0; step < 5; step++ {
		model, _ = updatePicker(testInstance, model, runeKey("k"))
	}
	require.Equal(testInstance, 0, model.offset)
	require.Contains(testInstance, model.View(), "branch-00")

	model, _ = updatePicker(testInstance, model, tea.WindowSizeMsg{Width: 80, Height: 40})
	require.Contains(testInstance, model.View(), "branch-19")
	require.NotContains(testInstance, model.View(), "of 20")
}
