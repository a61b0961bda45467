package branches

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/temirov/branchsweep/internal/utils"
)

const (
	spinnerCharacterSetConstant = 14
	spinnerFrameDelayConstant   = 100 * time.Millisecond
	spinnerSuffixPrefixConstant = " "
)

// ProgressIndicator shows activity while a deletion runs.
type ProgressIndicator interface {
	Start(label string)
	Stop()
}

// NoopProgressIndicator discards progress updates.
type NoopProgressIndicator struct{}

func (NoopProgressIndicator) Start(string) {}

func (NoopProgressIndicator) Stop() {}

// SpinnerProgressIndicator renders a terminal spinner through briandowns/spinner.
type SpinnerProgressIndicator struct {
	spinner *spinner.Spinner
}

// NewSpinnerProgressIndicator constructs a spinner writing frames to destination.
func NewSpinnerProgressIndicator(destination io.Writer) *SpinnerProgressIndicator {
	if destination == nil {
		destination = os.Stderr
	}
	progressSpinner := spinner.New(
		spinner.CharSets[spinnerCharacterSetConstant],
		spinnerFrameDelayConstant,
		spinner.WithWriter(utils.NewFlushingWriter(destination)),
		spinner.WithHiddenCursor(true),
	)
	return &SpinnerProgressIndicator{spinner: progressSpinner}
}

func (indicator *SpinnerProgressIndicator) Start(label string) {
	indicator.spinner.Suffix = spinnerSuffixPrefixConstant + label
	indicator.spinner.Start()
}

func (indicator *SpinnerProgressIndicator) Stop() {
	indicator.spinner.Stop()
}
