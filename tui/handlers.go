package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pagevault/pagevault/archive"
	"github.com/pagevault/pagevault/capture"
	"github.com/pagevault/pagevault/log"
)

type (
	snapshotsLoadedMsg []archive.Snapshot
	captureStateMsg    capture.State
	syncDoneMsg        struct{ err error }
	deletedMsg         struct{ snapshot archive.Snapshot }
	errorMsg           struct{ err error }
)

type captureDoneMsg struct {
	url    string
	result capture.Result
}

func (b *statefulBubble) loadSnapshots() tea.Cmd {
	dir := b.options.Dir
	return func() tea.Msg {
		snapshots, err := archive.List(dir)
		if err != nil {
			return errorMsg{err}
		}
		return snapshotsLoadedMsg(snapshots)
	}
}

func (b *statefulBubble) setSnapshots(snapshots []archive.Snapshot) tea.Cmd {
	items := make([]list.Item, len(snapshots))
	for i, s := range snapshots {
		items[i] = &listItem{snapshot: s}
	}
	return b.snapshotsC.SetItems(items)
}

// startCapture runs the capture in its own goroutine. States are forwarded
// through a channel that waitForCaptureState drains one message at a time.
func (b *statefulBubble) startCapture(url string) tea.Cmd {
	states := make(chan capture.State, int(capture.Failed)+1)
	b.captureStates = states
	b.setCapturing(true)

	run := b.options.Capture
	return tea.Batch(
		b.spinnerC.Tick,
		func() tea.Msg {
			defer close(states)
			result := run(context.Background(), url, func(s capture.State) {
				states <- s
			})
			return captureDoneMsg{url: url, result: result}
		},
		waitForCaptureState(states),
	)
}

func waitForCaptureState(states <-chan capture.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-states
		if !ok {
			return nil
		}
		return captureStateMsg(s)
	}
}

func (b *statefulBubble) startSync() tea.Cmd {
	b.syncing = true
	sync := b.options.Sync
	return tea.Batch(b.spinnerC.Tick, func() tea.Msg {
		return syncDoneMsg{err: sync(context.Background())}
	})
}

func (b *statefulBubble) selected() (*listItem, bool) {
	item, ok := b.snapshotsC.SelectedItem().(*listItem)
	return item, ok && item != nil
}

func openSnapshot(snapshot archive.Snapshot) tea.Cmd {
	return func() tea.Msg {
		if err := archive.Open(snapshot); err != nil {
			log.Warnf("open %s: %v", snapshot.Path, err)
			return errorMsg{err}
		}
		return nil
	}
}

func deleteSnapshot(snapshot archive.Snapshot) tea.Cmd {
	return func() tea.Msg {
		if err := archive.Delete(snapshot); err != nil {
			return errorMsg{err}
		}
		log.Infof("deleted %s", snapshot.Path)
		return deletedMsg{snapshot: snapshot}
	}
}
