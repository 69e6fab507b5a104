package tui

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pagevault/pagevault/capture"
	"github.com/pagevault/pagevault/icon"
	"github.com/pagevault/pagevault/internal/ui"
)

func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, b.loadSnapshots())
}

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := b.notifier.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, cmd
	case spinner.TickMsg:
		if !b.busy() {
			return b, cmd
		}
		var tick tea.Cmd
		b.spinnerC, tick = b.spinnerC.Update(msg)
		return b, tea.Batch(cmd, tick)
	case snapshotsLoadedMsg:
		return b, tea.Batch(cmd, b.setSnapshots(msg))
	case captureStateMsg:
		if b.capturing {
			b.progressStatus = capture.State(msg).String()
		}
		return b, tea.Batch(cmd, waitForCaptureState(b.captureStates))
	case captureDoneMsg:
		return b, tea.Batch(cmd, b.onCaptureDone(msg))
	case syncDoneMsg:
		b.syncing = false
		b.progressStatus = ""
		if msg.err != nil {
			b.raiseError(msg.err)
			return b, cmd
		}
		return b, tea.Batch(cmd, b.loadSnapshots(), ui.Notify(icon.Get(icon.Sync)+" Sync complete"))
	case deletedMsg:
		return b, tea.Batch(cmd, b.loadSnapshots(), ui.Notify("Deleted "+msg.snapshot.Name))
	case errorMsg:
		b.raiseError(msg.err)
		return b, cmd
	case tea.KeyMsg:
		if key.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	var next tea.Cmd
	switch b.state {
	case inputState:
		next = b.updateInput(msg)
	case listState:
		next = b.updateList(msg)
	case confirmDeleteState:
		next = b.updateConfirmDelete(msg)
	case errorState:
		next = b.updateError(msg)
	}

	return b, tea.Batch(cmd, next)
}

func (b *statefulBubble) onCaptureDone(msg captureDoneMsg) tea.Cmd {
	b.setCapturing(false)
	b.progressStatus = ""

	if success, ok := msg.result.(capture.Success); ok {
		b.lastResult = icon.Get(icon.Success) + " Saved " + filepath.Base(success.FinalPath)
		b.inputC.SetValue("")
		return b.loadSnapshots()
	}

	b.lastResult = icon.Get(icon.Fail) + " " + string(msg.result.Outcome()) + ": " + msg.url
	b.raiseError(errors.New(msg.result.String()))
	return nil
}

func (b *statefulBubble) updateInput(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, b.keymap.switchFocus):
			b.setState(listState)
			return nil
		case key.Matches(msg, b.keymap.capture):
			if b.capturing {
				return ui.Notify("A capture is already running")
			}
			url := strings.TrimSpace(b.inputC.Value())
			if url == "" {
				return ui.Notify("Enter a URL first")
			}
			return b.startCapture(url)
		case key.Matches(msg, b.keymap.back):
			b.inputC.SetValue("")
			return nil
		}
	}

	var cmd tea.Cmd
	b.inputC, cmd = b.inputC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateList(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && b.snapshotsC.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, b.keymap.switchFocus):
			b.setState(inputState)
			return textinput.Blink
		case key.Matches(msg, b.keymap.open):
			if item, ok := b.selected(); ok {
				return openSnapshot(item.snapshot)
			}
			return nil
		case key.Matches(msg, b.keymap.remove):
			if item, ok := b.selected(); ok {
				b.pending = item
				b.newState(confirmDeleteState)
			}
			return nil
		case key.Matches(msg, b.keymap.sync):
			if b.syncing {
				return ui.Notify("A sync is already running")
			}
			if b.options.Sync == nil {
				return ui.Notify("Sync is not available")
			}
			b.progressStatus = "syncing"
			return b.startSync()
		case key.Matches(msg, b.keymap.refresh):
			return b.loadSnapshots()
		case key.Matches(msg, b.keymap.quit):
			return tea.Quit
		}
	}

	var cmd tea.Cmd
	b.snapshotsC, cmd = b.snapshotsC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateConfirmDelete(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case key.Matches(keyMsg, b.keymap.confirm):
		pending := b.pending
		b.pending = nil
		b.previousState()
		if pending != nil {
			return deleteSnapshot(pending.snapshot)
		}
	case key.Matches(keyMsg, b.keymap.cancel):
		b.pending = nil
		b.previousState()
	}
	return nil
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case key.Matches(keyMsg, b.keymap.back):
		b.lastError = nil
		b.previousState()
	case key.Matches(keyMsg, b.keymap.quit):
		return tea.Quit
	}
	return nil
}
