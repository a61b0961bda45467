package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/temirov/branchsweep/internal/gitrepo"
)

const (
	pickerTitleConstant                 = "Branches, oldest first"
	pickerDryRunTitleSuffixConstant     = " (dry run)"
	pickerEmptyMessageConstant          = "No branches to clean up."
	pickerNoMatchesMessageConstant      = "No branches match the filter."
	pickerFilterPromptConstant          = "/ "
	pickerFilterPlaceholderConstant     = "filter branches"
	pickerFilterCharacterLimitConstant  = 128
	pickerConfirmTemplateConstant       = "Delete %d marked branch(es)? y/n"
	pickerDeletingTemplateConstant      = "%s Deleting %s (%d/%d)"
	pickerSummaryTemplateConstant       = "Deleted %d, failed %d"
	pickerDryRunSummaryTemplateConstant = "Would delete %d, failed %d"
	pickerMarkedTemplateConstant        = "%d marked"
	pickerCommitTimeLayoutConstant      = "2006-01-02 15:04"
	pickerCursorGlyphConstant           = ">"
	pickerMarkedGlyphConstant           = "[x]"
	pickerUnmarkedGlyphConstant         = "[ ]"
	pickerFailureSuffixTemplateConstant = "  ! %s"
	pickerRowTemplateConstant           = "%s %s %s  %s %s"
	pickerWindowTemplateConstant        = "%d-%d of %d"
	// title, blank line, footer margin, status, marked count, window position, help
	pickerReservedLinesConstant = 7
	// the expanded help spans several rows instead of one
	pickerFullHelpExtraLinesConstant = 4
)

type pickerPhase int

const (
	pickerPhaseBrowsing pickerPhase = iota
	pickerPhaseFiltering
	pickerPhaseConfirming
	pickerPhaseDeleting
)

// BranchDeleter deletes one branch on behalf of the picker.
type BranchDeleter func(executionContext context.Context, branch gitrepo.Branch) error

// BranchFailure pairs a branch with the error that prevented its deletion.
type BranchFailure struct {
	Branch  gitrepo.Branch
	Failure error
}

// PickerOutcome summarizes the deletions performed during a picker session.
type PickerOutcome struct {
	Deleted []gitrepo.Branch
	Failed  []BranchFailure
}

type branchDeletionFinishedMsg struct {
	branch  gitrepo.Branch
	failure error
}

// PickerModel is the bubbletea model behind the interactive cleanup command.
type PickerModel struct {
	executionContext context.Context
	deleter          BranchDeleter
	dryRun           bool

	branches []gitrepo.Branch
	visible  []int
	cursor   int
	offset   int
	height   int
	marked   map[string]struct{}
	failures map[string]error

	phase         pickerPhase
	filterInput   textinput.Model
	pending       []gitrepo.Branch
	deletionTotal int
	outcome       PickerOutcome
	statusLine    string

	spinner spinner.Model
	help    help.Model
	keys    KeyMap
}

// NewPickerModel builds a picker over branches, which are expected oldest first.
func NewPickerModel(executionContext context.Context, branches []gitrepo.Branch, deleter BranchDeleter, dryRun bool) PickerModel {
	if executionContext == nil {
		executionContext = context.Background()
	}

	filterInput := textinput.New()
	filterInput.Prompt = pickerFilterPromptConstant
	filterInput.Placeholder = pickerFilterPlaceholderConstant
	filterInput.CharLimit = pickerFilterCharacterLimitConstant

	copiedBranches := append([]gitrepo.Branch(nil), branches...)

	return PickerModel{
		executionContext: executionContext,
		deleter:          deleter,
		dryRun:           dryRun,
		branches:         copiedBranches,
		visible:          filterBranchIndexes(copiedBranches, ""),
		marked:           make(map[string]struct{}),
		failures:         make(map[string]error),
		filterInput:      filterInput,
		spinner:          spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styleSpinner)),
		help:             help.New(),
		keys:             DefaultKeyMap(),
	}
}

// Outcome reports the deletions performed so far.
func (model PickerModel) Outcome() PickerOutcome {
	return model.outcome
}

// Marked returns the marked branches in list order.
func (model PickerModel) Marked() []gitrepo.Branch {
	marked := make([]gitrepo.Branch, 0, len(model.marked))
	for _, branch := range model.branches {
		if _, isMarked := model.marked[branch.Name]; isMarked {
			marked = append(marked, branch)
		}
	}
	return marked
}

func (model PickerModel) Init() tea.Cmd {
	return nil
}

func (model PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typedMsg := msg.(type) {
	case tea.WindowSizeMsg:
		model.help.Width = typedMsg.Width
		model.height = typedMsg.Height
		model.scrollToCursor()
		return model, nil
	case spinner.TickMsg:
		if model.phase != pickerPhaseDeleting {
			return model, nil
		}
		var spinnerCmd tea.Cmd
		model.spinner, spinnerCmd = model.spinner.Update(typedMsg)
		return model, spinnerCmd
	case branchDeletionFinishedMsg:
		return model.handleDeletionFinished(typedMsg)
	case tea.KeyMsg:
		switch model.phase {
		case pickerPhaseFiltering:
			return model.handleFilterKey(typedMsg)
		case pickerPhaseConfirming:
			return model.handleConfirmKey(typedMsg)
		case pickerPhaseDeleting:
			if typedMsg.Type == tea.KeyCtrlC {
				return model, tea.Quit
			}
			return model, nil
		default:
			return model.handleBrowseKey(typedMsg)
		}
	}
	return model, nil
}

func (model PickerModel) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(msg, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}
		model.scrollToCursor()
	case key.Matches(msg, model.keys.Down):
		if model.cursor < len(model.visible)-1 {
			model.cursor++
		}
		model.scrollToCursor()
	case key.Matches(msg, model.keys.Toggle):
		if branch, available := model.currentBranch(); available {
			if _, isMarked := model.marked[branch.Name]; isMarked {
				delete(model.marked, branch.Name)
			} else {
				model.marked[branch.Name] = struct{}{}
			}
		}
	case key.Matches(msg, model.keys.Filter):
		model.phase = pickerPhaseFiltering
		return model, model.filterInput.Focus()
	case key.Matches(msg, model.keys.Delete):
		if len(model.marked) > 0 {
			model.phase = pickerPhaseConfirming
		}
	case key.Matches(msg, model.keys.Help):
		model.help.ShowAll = !model.help.ShowAll
		model.scrollToCursor()
	}
	return model, nil
}

func (model PickerModel) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		model.filterInput.SetValue("")
		model.filterInput.Blur()
		model.phase = pickerPhaseBrowsing
		model.applyFilter()
		return model, nil
	case tea.KeyEnter:
		model.filterInput.Blur()
		model.phase = pickerPhaseBrowsing
		return model, nil
	case tea.KeyCtrlC:
		return model, tea.Quit
	}

	var inputCmd tea.Cmd
	model.filterInput, inputCmd = model.filterInput.Update(msg)
	model.applyFilter()
	return model, inputCmd
}

func (model PickerModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, model.keys.Confirm):
		model.pending = model.Marked()
		model.deletionTotal = len(model.pending)
		if model.deletionTotal == 0 {
			model.phase = pickerPhaseBrowsing
			return model, nil
		}
		model.phase = pickerPhaseDeleting
		model.statusLine = ""
		return model, tea.Batch(model.spinner.Tick, model.deleteCmd(model.pending[0]))
	case key.Matches(msg, model.keys.Cancel):
		model.phase = pickerPhaseBrowsing
	case msg.Type == tea.KeyCtrlC:
		return model, tea.Quit
	}
	return model, nil
}

func (model PickerModel) handleDeletionFinished(msg branchDeletionFinishedMsg) (tea.Model, tea.Cmd) {
	if len(model.pending) > 0 {
		model.pending = model.pending[1:]
	}
	delete(model.marked, msg.branch.Name)

	if msg.failure != nil {
		model.failures[msg.branch.Name] = msg.failure
		model.outcome.Failed = append(model.outcome.Failed, BranchFailure{Branch: msg.branch, Failure: msg.failure})
	} else {
		delete(model.failures, msg.branch.Name)
		model.outcome.Deleted = append(model.outcome.Deleted, msg.branch)
		if !model.dryRun {
			model.removeBranch(msg.branch.Name)
		}
	}

	if len(model.pending) > 0 {
		return model, model.deleteCmd(model.pending[0])
	}

	model.phase = pickerPhaseBrowsing
	summaryTemplate := pickerSummaryTemplateConstant
	if model.dryRun {
		summaryTemplate = pickerDryRunSummaryTemplateConstant
	}
	model.statusLine = fmt.Sprintf(summaryTemplate, len(model.outcome.Deleted), len(model.outcome.Failed))
	return model, nil
}

func (model PickerModel) deleteCmd(branch gitrepo.Branch) tea.Cmd {
	deleter := model.deleter
	executionContext := model.executionContext
	return func() tea.Msg {
		if deleter == nil {
			return branchDeletionFinishedMsg{branch: branch}
		}
		return branchDeletionFinishedMsg{branch: branch, failure: deleter(executionContext, branch)}
	}
}

func (model *PickerModel) removeBranch(name string) {
	remaining := make([]gitrepo.Branch, 0, len(model.branches))
	for _, branch := range model.branches {
		if branch.Name != name {
			remaining = append(remaining, branch)
		}
	}
	model.branches = remaining
	model.applyFilter()
}

func (model *PickerModel) applyFilter() {
	model.visible = filterBranchIndexes(model.branches, model.filterInput.Value())
	if model.cursor >= len(model.visible) {
		model.cursor = max(len(model.visible)-1, 0)
	}
	model.scrollToCursor()
}

// listCapacity is the number of rows that fit the terminal; zero means the height is unknown.
func (model PickerModel) listCapacity() int {
	if model.height <= 0 {
		return 0
	}
	reserved := pickerReservedLinesConstant
	if model.help.ShowAll {
		reserved += pickerFullHelpExtraLinesConstant
	}
	return max(model.height-reserved, 1)
}

// scrollToCursor moves the window just far enough to keep the cursor row on screen.
func (model *PickerModel) scrollToCursor() {
	capacity := model.listCapacity()
	if capacity == 0 || len(model.visible) <= capacity {
		model.offset = 0
		return
	}
	if model.cursor < model.offset {
		model.offset = model.cursor
	}
	if model.cursor >= model.offset+capacity {
		model.offset = model.cursor - capacity + 1
	}
	model.offset = max(min(model.offset, len(model.visible)-capacity), 0)
}

func (model PickerModel) visibleWindow() (int, int) {
	capacity := model.listCapacity()
	if capacity == 0 || len(model.visible) <= capacity {
		return 0, len(model.visible)
	}
	return model.offset, min(model.offset+capacity, len(model.visible))
}

func (model PickerModel) currentBranch() (gitrepo.Branch, bool) {
	if model.cursor < 0 || model.cursor >= len(model.visible) {
		return gitrepo.Branch{}, false
	}
	return model.branches[model.visible[model.cursor]], true
}

func (model PickerModel) View() string {
	var builder strings.Builder

	title := pickerTitleConstant
	if model.dryRun {
		title += pickerDryRunTitleSuffixConstant
	}
	builder.WriteString(styleTitle.Render(title))
	builder.WriteString("\n\n")

	switch {
	case len(model.branches) == 0:
		builder.WriteString(styleEmpty.Render(pickerEmptyMessageConstant))
		builder.WriteString("\n")
	case len(model.visible) == 0:
		builder.WriteString(styleEmpty.Render(pickerNoMatchesMessageConstant))
		builder.WriteString("\n")
	default:
		start, end := model.visibleWindow()
		for visibleIndex := start; visibleIndex < end; visibleIndex++ {
			builder.WriteString(model.renderRow(visibleIndex, model.branches[model.visible[visibleIndex]]))
			builder.WriteString("\n")
		}
	}

	builder.WriteString(styleFooter.Render(model.renderFooter()))
	return builder.String()
}

func (model PickerModel) renderRow(visibleIndex int, branch gitrepo.Branch) string {
	cursorGlyph := " "
	if visibleIndex == model.cursor {
		cursorGlyph = styleCursor.Render(pickerCursorGlyphConstant)
	}

	markGlyph := pickerUnmarkedGlyphConstant
	if _, isMarked := model.marked[branch.Name]; isMarked {
		markGlyph = styleMarked.Render(pickerMarkedGlyphConstant)
	}

	nameStyle := styleLocal
	if branch.Type == gitrepo.BranchTypeRemote {
		nameStyle = styleRemote
	}

	row := fmt.Sprintf(pickerRowTemplateConstant,
		cursorGlyph,
		markGlyph,
		styleTime.Render(branch.CommitTime.Format(pickerCommitTimeLayoutConstant)),
		nameStyle.Render(branch.Name),
		styleSubject.Render(branch.Subject()),
	)
	if failure, failed := model.failures[branch.Name]; failed {
		row += styleFailure.Render(fmt.Sprintf(pickerFailureSuffixTemplateConstant, failure.Error()))
	}
	return row
}

func (model PickerModel) renderFooter() string {
	switch model.phase {
	case pickerPhaseFiltering:
		return model.filterInput.View()
	case pickerPhaseConfirming:
		return styleConfirm.Render(fmt.Sprintf(pickerConfirmTemplateConstant, len(model.marked)))
	case pickerPhaseDeleting:
		current := ""
		if len(model.pending) > 0 {
			current = model.pending[0].Name
		}
		completed := model.deletionTotal - len(model.pending) + 1
		return fmt.Sprintf(pickerDeletingTemplateConstant, model.spinner.View(), current, completed, model.deletionTotal)
	}

	lines := make([]string, 0, 4)
	if len(model.statusLine) > 0 {
		lines = append(lines, styleStatus.Render(model.statusLine))
	}
	if len(model.marked) > 0 {
		lines = append(lines, styleStatus.Render(fmt.Sprintf(pickerMarkedTemplateConstant, len(model.marked))))
	}
	if start, end := model.visibleWindow(); end-start < len(model.visible) {
		lines = append(lines, styleStatus.Render(fmt.Sprintf(pickerWindowTemplateConstant, start+1, end, len(model.visible))))
	}
	lines = append(lines, model.help.View(model.keys))
	return strings.Join(lines, "\n")
}
