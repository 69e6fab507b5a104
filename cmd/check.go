package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pagevault/pagevault/capture"
	"github.com/pagevault/pagevault/icon"
	"github.com/pagevault/pagevault/key"
	"github.com/pagevault/pagevault/log"
	"github.com/pagevault/pagevault/style"
	"github.com/spf13/viper"
)

// requireTool resolves the single-file executable or exits with install instructions.
func requireTool() string {
	tool, err := capture.Locate(viper.GetString(key.CaptureTool))
	if err == nil {
		log.Infof("capture tool: %s", tool)
		return tool
	}

	var missing *capture.ToolMissingError
	if !errors.As(err, &missing) {
		handleErr(err)
	}

	log.Error(err)
	fmt.Println(missingToolBox(missing))
	os.Exit(1)
	return ""
}

func missingToolBox(missing *capture.ToolMissingError) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf(
		"The capture tool was not found in your PATH.\nLooked for: %s",
		strings.Join(missing.Searched, ", "),
	))

	suggestion := fmt.Sprintf(
		"\n\nTo install it, try running:\n  %s\n\nOr point %s at the executable.",
		style.New().Foreground(style.AccentColor).Bold(true).Render(missing.Hint),
		style.New().Foreground(style.AccentColor).Render(key.CaptureTool),
	)

	return box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	)
}
