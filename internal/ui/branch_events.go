package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/temirov/branchsweep/internal/gitrepo"
)

const (
	branchDeletingMessageTemplateConstant = "Deleting %s"
	branchDeletedMessageTemplateConstant  = "Deleted %s"
	branchFailedMessageTemplateConstant   = "Failed to delete %s: %s"
	branchPlannedMessageTemplateConstant  = "Would delete %s"
	branchDeclinedMessageTemplateConstant = "Kept %s"
	unknownFailureMessageConstant         = "unknown error"
	branchNameLogFieldConstant            = "branch"
	branchTypeLogFieldConstant            = "type"
)

// BranchEventObserver receives branch deletion lifecycle notifications.
type BranchEventObserver interface {
	BranchDeletionStarted(branch gitrepo.Branch)
	BranchDeletionCompleted(branch gitrepo.Branch)
	BranchDeletionFailed(branch gitrepo.Branch, failure error)
	BranchDeletionPlanned(branch gitrepo.Branch)
	BranchDeletionDeclined(branch gitrepo.Branch)
}

// BranchEventFormatter builds human-readable messages for branch deletion events.
type BranchEventFormatter struct{}

// BuildStartedMessage formats the message describing a deletion about to run.
func (formatter BranchEventFormatter) BuildStartedMessage(branch gitrepo.Branch) string {
	return fmt.Sprintf(branchDeletingMessageTemplateConstant, branch.Name)
}

// BuildCompletedMessage formats the message describing a finished deletion.
func (formatter BranchEventFormatter) BuildCompletedMessage(branch gitrepo.Branch) string {
	return fmt.Sprintf(branchDeletedMessageTemplateConstant, branch.Name)
}

// BuildFailureMessage formats the message describing a failed deletion.
func (formatter BranchEventFormatter) BuildFailureMessage(branch gitrepo.Branch, failure error) string {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(branchFailedMessageTemplateConstant, branch.Name, failureMessage)
}

// BuildPlannedMessage formats the dry-run message for a branch.
func (formatter BranchEventFormatter) BuildPlannedMessage(branch gitrepo.Branch) string {
	return fmt.Sprintf(branchPlannedMessageTemplateConstant, branch.Name)
}

// BuildDeclinedMessage formats the message for a branch the operator chose to keep.
func (formatter BranchEventFormatter) BuildDeclinedMessage(branch gitrepo.Branch) string {
	return fmt.Sprintf(branchDeclinedMessageTemplateConstant, branch.Name)
}

// ConsoleBranchEventLogger renders branch events using a zap logger configured for human-readable output.
type ConsoleBranchEventLogger struct {
	logger    *zap.Logger
	formatter BranchEventFormatter
}

// NewConsoleBranchEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleBranchEventLogger(logger *zap.Logger) *ConsoleBranchEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleBranchEventLogger{logger: logger, formatter: BranchEventFormatter{}}
}

func (eventLogger *ConsoleBranchEventLogger) BranchDeletionStarted(branch gitrepo.Branch) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildStartedMessage(branch), branchFields(branch)...)
}

func (eventLogger *ConsoleBranchEventLogger) BranchDeletionCompleted(branch gitrepo.Branch) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildCompletedMessage(branch), branchFields(branch)...)
}

func (eventLogger *ConsoleBranchEventLogger) BranchDeletionFailed(branch gitrepo.Branch, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildFailureMessage(branch, failure), branchFields(branch)...)
}

func (eventLogger *ConsoleBranchEventLogger) BranchDeletionPlanned(branch gitrepo.Branch) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildPlannedMessage(branch), branchFields(branch)...)
}

func (eventLogger *ConsoleBranchEventLogger) BranchDeletionDeclined(branch gitrepo.Branch) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildDeclinedMessage(branch), branchFields(branch)...)
}

func branchFields(branch gitrepo.Branch) []zap.Field {
	return []zap.Field{
		zap.String(branchNameLogFieldConstant, branch.Name),
		zap.Stringer(branchTypeLogFieldConstant, branch.Type),
	}
}

// WriterBranchEventReporter prints branch events as lines on a writer, coloring outcomes when enabled.
type WriterBranchEventReporter struct {
	writer       io.Writer
	formatter    BranchEventFormatter
	successColor *color.Color
	failureColor *color.Color
	mutedColor   *color.Color
}

// NewWriterBranchEventReporter constructs a reporter writing to writer.
func NewWriterBranchEventReporter(writer io.Writer, colorize bool) *WriterBranchEventReporter {
	if writer == nil {
		writer = io.Discard
	}
	reporter := &WriterBranchEventReporter{
		writer:       writer,
		formatter:    BranchEventFormatter{},
		successColor: color.New(color.FgGreen),
		failureColor: color.New(color.FgRed),
		mutedColor:   color.New(color.FgHiBlack),
	}
	for _, outcomeColor := range []*color.Color{reporter.successColor, reporter.failureColor, reporter.mutedColor} {
		if colorize {
			outcomeColor.EnableColor()
		} else {
			outcomeColor.DisableColor()
		}
	}
	return reporter
}

func (reporter *WriterBranchEventReporter) BranchDeletionStarted(branch gitrepo.Branch) {
	fmt.Fprintln(reporter.writer, reporter.formatter.BuildStartedMessage(branch))
}

func (reporter *WriterBranchEventReporter) BranchDeletionCompleted(branch gitrepo.Branch) {
	reporter.successColor.Fprintln(reporter.writer, reporter.formatter.BuildCompletedMessage(branch))
}

func (reporter *WriterBranchEventReporter) BranchDeletionFailed(branch gitrepo.Branch, failure error) {
	reporter.failureColor.Fprintln(reporter.writer, reporter.formatter.BuildFailureMessage(branch, failure))
}

func (reporter *WriterBranchEventReporter) BranchDeletionPlanned(branch gitrepo.Branch) {
	fmt.Fprintln(reporter.writer, reporter.formatter.BuildPlannedMessage(branch))
}

func (reporter *WriterBranchEventReporter) BranchDeletionDeclined(branch gitrepo.Branch) {
	reporter.mutedColor.Fprintln(reporter.writer, reporter.formatter.BuildDeclinedMessage(branch))
}
