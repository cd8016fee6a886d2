package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/depfetch/pkg/errors"
	"github.com/matzehuels/depfetch/pkg/resolve"
)

var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorBright = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	StyleDim   = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue = lipgloss.NewStyle().Foreground(colorBright)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleHeader      = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	styleCell        = lipgloss.NewStyle().Padding(0, 1)
)

// notice is the kind of a one-line status message.
type notice int

const (
	noticeInfo notice = iota
	noticeSuccess
	noticeWarning
	noticeFile
)

var notices = map[notice]struct {
	icon  string
	color lipgloss.Color
}{
	noticeInfo:    {"›", colorMuted},
	noticeSuccess: {"✓", colorOK},
	noticeWarning: {"!", colorWarn},
	noticeFile:    {"→", colorFaint},
}

// say writes one status line: a colored icon and the formatted message.
// Warnings color the message too; file notices are indented.
func say(w io.Writer, kind notice, format string, args ...any) {
	n := notices[kind]
	icon := lipgloss.NewStyle().Foreground(n.color).Render(n.icon)
	msg := fmt.Sprintf(format, args...)
	switch kind {
	case noticeWarning:
		msg = lipgloss.NewStyle().Foreground(n.color).Render(msg)
	case noticeFile:
		icon = "  " + icon
		msg = StyleValue.Render(msg)
	}
	fmt.Fprintln(w, icon+" "+msg)
}

// detail writes an indented, dimmed line under a previous notice.
func detail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// summaryTable renders one row per root with its status, artifact count,
// missing attachments and elapsed time.
func summaryTable(outcomes []resolve.Outcome) string {
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		status, artifacts, missing := "✓ ok", "0", "-"
		if o.OK() {
			artifacts = fmt.Sprint(len(o.Result.Artifacts))
			if len(o.Attachments) > 0 {
				missing = fmt.Sprint(o.MissingAttachments())
			}
		} else {
			status = "✗ " + string(errors.GetCode(o.Err))
		}
		rows = append(rows, []string{
			o.Root.Coordinate.String(),
			status,
			artifacts,
			missing,
			o.Duration.Round(time.Millisecond).String(),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Root", "Status", "Artifacts", "Missing attachments", "Time").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col != 1 || row >= len(outcomes):
				return styleCell
			case outcomes[row].OK():
				return styleCell.Foreground(colorOK)
			default:
				return styleCell.Foreground(colorFail)
			}
		}).
		Render()
}
