package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/pagevault/pagevault/capture"
	"github.com/pagevault/pagevault/constant"
	"github.com/pagevault/pagevault/internal/ui"
	"github.com/pagevault/pagevault/style"
	"github.com/pagevault/pagevault/util"
)

// statefulBubble is the whole interface state.
type statefulBubble struct {
	state         state
	previous      state
	keymap        *statefulKeymap
	capturing     bool
	syncing       bool
	captureStates chan capture.State

	spinnerC   spinner.Model
	inputC     textinput.Model
	snapshotsC list.Model
	helpC      help.Model

	// progressStatus describes the running capture or sync.
	progressStatus string
	// lastResult describes the last finished capture.
	lastResult string
	lastError  error
	pending    *listItem

	width, height int
	notifier      *ui.Model

	options *Options
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)

	if s == inputState {
		b.inputC.Focus()
	} else {
		b.inputC.Blur()
	}
}

// newState moves to s, remembering where to return to.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}
	if b.state == inputState || b.state == listState {
		b.previous = b.state
	}
	b.setState(s)
}

func (b *statefulBubble) previousState() {
	b.setState(b.previous)
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

// busy reports whether a background capture or sync is running.
func (b *statefulBubble) busy() bool {
	return b.capturing || b.syncing
}

func (b *statefulBubble) setCapturing(capturing bool) {
	b.capturing = capturing
	b.keymap.busy = capturing
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y

	// Header, input and status lines sit above the list.
	listWidth := width - xx
	listHeight := util.Max(height-yy-headerHeight, 3)

	b.snapshotsC.SetSize(listWidth, listHeight)
	b.snapshotsC.Help.Width = listWidth
	b.inputC.Width = util.Max(b.width-len(b.inputC.Prompt)-1, 10)
	b.helpC.Width = listWidth
}

func newBubble(options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		keymap:   keymap,
		notifier: &ui.Model{},
		options:  options,
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = "https://example.com/article"
	bubble.inputC.Prompt = "URL: "
	bubble.inputC.CharLimit = 2048

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.snapshotsC = list.New([]list.Item{}, delegate, 0, 0)
	bubble.snapshotsC.KeyMap = keymap.forList()
	bubble.snapshotsC.Title = "Snapshots"
	bubble.snapshotsC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(style.Peach).Padding(0, 1)
	bubble.snapshotsC.Styles.NoItems = paddingStyle
	bubble.snapshotsC.SetStatusBarItemName("snapshot", "snapshots")
	bubble.snapshotsC.StatusMessageLifetime = time.Hour * 999
	bubble.snapshotsC.SetShowHelp(false)

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.setState(inputState)
	bubble.progressStatus = "Ready " + style.Faint("v"+constant.Version)

	return &bubble
}
