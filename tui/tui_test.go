package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pagevault/pagevault/archive"
	"github.com/pagevault/pagevault/capture"
	"github.com/pagevault/pagevault/filesystem"
	"github.com/pagevault/pagevault/internal/ui"
	. "github.com/smartystreets/goconvey/convey"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func newTestBubble() (*statefulBubble, *int) {
	filesystem.SetMemMapFs()
	calls := 0
	b := newBubble(&Options{
		Dir: "/archive",
		Capture: func(_ context.Context, url string, onState func(capture.State)) capture.Result {
			calls++
			onState(capture.Executing)
			return capture.Success{FinalPath: "/archive/Page.html"}
		},
		Sync: func(context.Context) error { return nil },
	})
	return b, &calls
}

func TestCaptureFlow(t *testing.T) {
	Convey("Given the interface with a URL typed in", t, func() {
		b, _ := newTestBubble()
		b.inputC.SetValue("http://example.com")

		Convey("Enter starts a capture and disables further captures", func() {
			_, cmd := b.Update(keyMsg("enter"))
			So(cmd, ShouldNotBeNil)
			So(b.capturing, ShouldBeTrue)
			So(b.keymap.ShortHelp(), ShouldNotContain, b.keymap.capture)

			_, again := b.Update(keyMsg("enter"))
			So(again, ShouldNotBeNil)
			So(again(), ShouldEqual, ui.NotifyMsg("A capture is already running"))

			Convey("Progress states update the status line", func() {
				b.Update(captureStateMsg(capture.Verifying))
				So(b.progressStatus, ShouldEqual, capture.Verifying.String())
			})

			Convey("A successful result re-enables capturing and clears the input", func() {
				b.Update(captureDoneMsg{url: "http://example.com", result: capture.Success{FinalPath: "/archive/Page.html"}})
				So(b.capturing, ShouldBeFalse)
				So(b.inputC.Value(), ShouldBeEmpty)
				So(b.lastResult, ShouldContainSubstring, "Page.html")
				So(b.state, ShouldEqual, inputState)
			})

			Convey("A failed result is shown as an error and esc returns to the input", func() {
				b.Update(captureDoneMsg{url: "http://example.com", result: capture.ToolError{ExitCode: 1, Stderr: "boom"}})
				So(b.capturing, ShouldBeFalse)
				So(b.state, ShouldEqual, errorState)
				So(b.View(), ShouldContainSubstring, "boom")

				b.Update(keyMsg("esc"))
				So(b.state, ShouldEqual, inputState)
				So(b.inputC.Value(), ShouldEqual, "http://example.com")
			})
		})

		Convey("A missing capture tool leaves the list usable", func() {
			b.Update(snapshotsLoadedMsg([]archive.Snapshot{{Name: "A.html", Path: "/archive/A.html", ModTime: time.Now()}}))
			b.Update(keyMsg("enter"))
			missing := &capture.ToolMissingError{Searched: []string{"single-file"}, Hint: "npm install -g single-file-cli"}
			b.Update(captureDoneMsg{url: "http://example.com", result: capture.ProcessSpawnError{Cause: missing}})

			So(b.state, ShouldEqual, errorState)
			So(b.View(), ShouldContainSubstring, "npm install -g single-file-cli")

			b.Update(keyMsg("esc"))
			b.Update(keyMsg("tab"))
			So(b.state, ShouldEqual, listState)
			So(b.capturing, ShouldBeFalse)

			b.Update(keyMsg("d"))
			So(b.state, ShouldEqual, confirmDeleteState)
		})

		Convey("The capture command runs the pipeline and reports states and the result", func() {
			b.options.Capture = func(_ context.Context, url string, onState func(capture.State)) capture.Result {
				onState(capture.TitleResolving)
				return capture.VerificationFailure{ExpectedPath: "/archive/x.html"}
			}
			cmd := b.startCapture("http://example.com")
			So(cmd, ShouldNotBeNil)

			var msgs []tea.Msg
			for _, c := range cmd().(tea.BatchMsg) {
				msgs = append(msgs, c())
			}
			So(msgs, ShouldContain, captureStateMsg(capture.TitleResolving))
			So(msgs, ShouldContain, captureDoneMsg{url: "http://example.com", result: capture.VerificationFailure{ExpectedPath: "/archive/x.html"}})
		})
	})

	Convey("An empty URL does not start a capture", t, func() {
		b, calls := newTestBubble()
		b.Update(keyMsg("enter"))
		So(b.capturing, ShouldBeFalse)
		So(*calls, ShouldEqual, 0)
	})
}

func TestWaitForCaptureState(t *testing.T) {
	Convey("States are drained one message at a time until the channel closes", t, func() {
		states := make(chan capture.State, 1)
		states <- capture.Verifying
		So(waitForCaptureState(states)(), ShouldEqual, captureStateMsg(capture.Verifying))

		close(states)
		So(waitForCaptureState(states)(), ShouldBeNil)
	})
}

func TestListFlow(t *testing.T) {
	Convey("Given the snapshot list", t, func() {
		b, _ := newTestBubble()
		b.Update(snapshotsLoadedMsg([]archive.Snapshot{
			{Name: "A.html", Path: "/archive/A.html", ModTime: time.Now()},
			{Name: "B.html", Path: "/archive/B.html", ModTime: time.Now()},
		}))

		Convey("Tab moves focus between the input and the list", func() {
			b.Update(keyMsg("tab"))
			So(b.state, ShouldEqual, listState)
			b.Update(keyMsg("tab"))
			So(b.state, ShouldEqual, inputState)
		})

		Convey("Typing in the input does not trigger list actions", func() {
			b.Update(keyMsg("d"))
			So(b.state, ShouldEqual, inputState)
			So(b.inputC.Value(), ShouldEqual, "d")
		})

		Convey("Delete asks for confirmation", func() {
			b.Update(keyMsg("tab"))
			b.Update(keyMsg("d"))
			So(b.state, ShouldEqual, confirmDeleteState)
			So(b.View(), ShouldContainSubstring, "A.html")

			Convey("n cancels", func() {
				b.Update(keyMsg("n"))
				So(b.state, ShouldEqual, listState)
				So(b.pending, ShouldBeNil)
			})

			Convey("y deletes", func() {
				_, cmd := b.Update(keyMsg("y"))
				So(cmd, ShouldNotBeNil)
				So(b.state, ShouldEqual, listState)
			})
		})

		Convey("Sync runs once at a time", func() {
			b.Update(keyMsg("tab"))
			_, cmd := b.Update(keyMsg("s"))
			So(cmd, ShouldNotBeNil)
			So(b.syncing, ShouldBeTrue)

			b.Update(syncDoneMsg{err: errors.New("rejected")})
			So(b.syncing, ShouldBeFalse)
			So(b.state, ShouldEqual, errorState)
		})
	})
}
