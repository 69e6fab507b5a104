// Package tui provides the interactive terminal front end.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pagevault/pagevault/capture"
)

// CaptureFunc runs one capture, reporting every state it enters.
type CaptureFunc func(ctx context.Context, url string, onState func(capture.State)) capture.Result

// SyncFunc pushes the archive to its remote.
type SyncFunc func(ctx context.Context) error

// Options wires the interface to the capture pipeline.
type Options struct {
	// Dir is the archive directory listed in the interface.
	Dir     string
	Capture CaptureFunc
	Sync    SyncFunc
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(options *Options) error {
	_, err := tea.NewProgram(newBubble(options), tea.WithAltScreen()).Run()
	return err
}
