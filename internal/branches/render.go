package branches

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/temirov/branchsweep/internal/gitrepo"
)

// OutputFormat selects how listings are printed.
type OutputFormat string

// Supported listing formats.
const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
)

const (
	unsupportedOutputFormatMessageConstant = "unsupported output format"
	outputFormatErrorTemplateConstant      = "%w: %q"
	renderErrorTemplateConstant            = "failed to render branches: %w"
	tableCommitTimeLayoutConstant          = "2006-01-02 15:04"
	tableColumnSeparatorConstant           = "  "
	tableCommittedHeaderConstant           = "COMMITTED"
	tableTypeHeaderConstant                = "TYPE"
	tableBranchHeaderConstant              = "BRANCH"
	tableSubjectHeaderConstant             = "SUBJECT"
	jsonIndentConstant                     = "  "
)

// ErrUnsupportedOutputFormat indicates an unknown listing format.
var ErrUnsupportedOutputFormat = errors.New(unsupportedOutputFormatMessageConstant)

// OutputFormatChoices lists the supported listing formats.
func OutputFormatChoices() []string {
	return []string{string(OutputFormatTable), string(OutputFormatJSON), string(OutputFormatYAML)}
}

// ParseOutputFormat validates a listing format name.
func ParseOutputFormat(value string) (OutputFormat, error) {
	switch OutputFormat(value) {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return OutputFormat(value), nil
	default:
		return "", fmt.Errorf(outputFormatErrorTemplateConstant, ErrUnsupportedOutputFormat, value)
	}
}

type branchRecord struct {
	Name       string    `json:"name" yaml:"name"`
	Type       string    `json:"type" yaml:"type"`
	CommitTime time.Time `json:"commit_time" yaml:"commit_time"`
	Subject    string    `json:"subject" yaml:"subject"`
	Message    string    `json:"message" yaml:"message"`
}

// Renderer prints branch listings.
type Renderer struct {
	writer      io.Writer
	headerColor *color.Color
	timeColor   *color.Color
	remoteColor *color.Color
	localColor  *color.Color
}

// NewRenderer constructs a Renderer; colorize controls ANSI colors in table output.
func NewRenderer(writer io.Writer, colorize bool) *Renderer {
	renderer := &Renderer{
		writer:      writer,
		headerColor: color.New(color.Bold),
		timeColor:   color.New(color.FgHiBlack),
		remoteColor: color.New(color.FgCyan),
		localColor:  color.New(color.FgGreen),
	}
	for _, columnColor := range []*color.Color{renderer.headerColor, renderer.timeColor, renderer.remoteColor, renderer.localColor} {
		if colorize {
			columnColor.EnableColor()
		} else {
			columnColor.DisableColor()
		}
	}
	return renderer
}

// Render prints branches in the requested format.
func (renderer *Renderer) Render(branches []gitrepo.Branch, format OutputFormat) error {
	var renderError error
	switch format {
	case OutputFormatTable:
		renderError = renderer.renderTable(branches)
	case OutputFormatJSON:
		encoder := json.NewEncoder(renderer.writer)
		encoder.SetIndent("", jsonIndentConstant)
		renderError = encoder.Encode(buildRecords(branches))
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(renderer.writer)
		encoder.SetIndent(2)
		renderError = encoder.Encode(buildRecords(branches))
		if renderError == nil {
			renderError = encoder.Close()
		}
	default:
		renderError = fmt.Errorf(outputFormatErrorTemplateConstant, ErrUnsupportedOutputFormat, format)
	}
	if renderError != nil {
		return fmt.Errorf(renderErrorTemplateConstant, renderError)
	}
	return nil
}

func (renderer *Renderer) renderTable(branches []gitrepo.Branch) error {
	rows := [][]string{{tableCommittedHeaderConstant, tableTypeHeaderConstant, tableBranchHeaderConstant, tableSubjectHeaderConstant}}
	for _, branch := range branches {
		rows = append(rows, []string{
			branch.CommitTime.Format(tableCommitTimeLayoutConstant),
			branch.Type.String(),
			branch.Name,
			branch.Subject(),
		})
	}

	columnWidths := make([]int, len(rows[0]))
	for _, row := range rows {
		for columnIndex, cell := range row {
			columnWidths[columnIndex] = max(columnWidths[columnIndex], len(cell))
		}
	}

	for rowIndex, row := range rows {
		cells := make([]string, len(row))
		for columnIndex, cell := range row {
			padded := cell
			if columnIndex < len(row)-1 {
				padded = cell + strings.Repeat(" ", columnWidths[columnIndex]-len(cell))
			}
			cells[columnIndex] = renderer.colorCell(rowIndex, columnIndex, branchTypeOfRow(branches, rowIndex), padded)
		}
		if _, writeError := fmt.Fprintln(renderer.writer, strings.Join(cells, tableColumnSeparatorConstant)); writeError != nil {
			return writeError
		}
	}
	return nil
}

func (renderer *Renderer) colorCell(rowIndex int, columnIndex int, branchType gitrepo.BranchType, cell string) string {
	if rowIndex == 0 {
		return renderer.headerColor.Sprint(cell)
	}
	switch columnIndex {
	case 0:
		return renderer.timeColor.Sprint(cell)
	case 2:
		if branchType == gitrepo.BranchTypeRemote {
			return renderer.remoteColor.Sprint(cell)
		}
		return renderer.localColor.Sprint(cell)
	default:
		return cell
	}
}

func branchTypeOfRow(branches []gitrepo.Branch, rowIndex int) gitrepo.BranchType {
	if rowIndex == 0 || rowIndex > len(branches) {
		return gitrepo.BranchTypeInvalid
	}
	return branches[rowIndex-1].Type
}

func buildRecords(branches []gitrepo.Branch) []branchRecord {
	records := make([]branchRecord, 0, len(branches))
	for _, branch := range branches {
		records = append(records, branchRecord{
			Name:       branch.Name,
			Type:       branch.Type.String(),
			CommitTime: branch.CommitTime,
			Subject:    branch.Subject(),
			Message:    branch.Message,
		})
	}
	return records
}
