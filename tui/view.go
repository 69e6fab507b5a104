package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/pagevault/pagevault/color"
	"github.com/pagevault/pagevault/constant"
	"github.com/pagevault/pagevault/icon"
	"github.com/pagevault/pagevault/style"
)

// headerHeight is the number of lines above the snapshot list.
const headerHeight = 5

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case inputState, listState:
		output = b.viewMain()
	case confirmDeleteState:
		output = b.viewConfirmDelete()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) status() string {
	if b.busy() {
		return b.spinnerC.View() + " " + b.progressStatus
	}
	if b.lastResult != "" {
		return b.lastResult
	}
	return style.Faint(b.progressStatus)
}

func (b *statefulBubble) viewMain() string {
	input := b.inputC.View()
	if b.state != inputState {
		input = style.Faint(input)
	}

	header := paddingStyle.Render(strings.Join([]string{
		style.Title(constant.App) + " " + style.Faint(b.options.Dir),
		"",
		input,
		style.Truncate(b.width)(b.status()),
	}, "\n"))

	snapshots := b.snapshotsC.View()
	if b.state != listState {
		snapshots = lipgloss.NewStyle().Faint(true).Render(snapshots)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		listExtraPaddingStyle.Render(snapshots),
		paddingStyle.Render(b.helpC.View(b.keymap)),
	)
}

func (b *statefulBubble) viewConfirmDelete() string {
	var name string
	if b.pending != nil {
		name = b.pending.snapshot.Name
	}

	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Delete"),
			"",
			fmt.Sprintf("%s Delete %s?", icon.Get(icon.Warn), style.Fg(color.Purple)(name)),
		},
	)
}

func (b *statefulBubble) viewError() string {
	var message string
	if b.lastError != nil {
		message = b.lastError.Error()
	}

	errorStyle := lipgloss.NewStyle().Foreground(color.Red).Bold(true)
	errorMsg := wrap.String(errorStyle.Render(message), b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
