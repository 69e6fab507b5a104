// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Archive Location - these keys select where snapshots are written.
const (
	ArchivePath = "archive.path"
)

// Capture Pipeline - these keys tune the external capture tool invocation.
const (
	CaptureTool               = "capture.tool"
	CaptureTitleTimeout       = "capture.title_timeout"
	CaptureDeferredImagesIdle = "capture.deferred_images_idle"
	CaptureBrowserWidth       = "capture.browser_width"
	CaptureBrowserHeight      = "capture.browser_height"
	CaptureBrowserArgs        = "capture.browser_args"
	CaptureBlockScripts       = "capture.block_scripts"
	CaptureDefaultScript      = "capture.default_script"
	CaptureReserveFilename    = "capture.reserve_filename"
)

// Handler Registry - these keys manage discovery of capture handlers.
const (
	HandlersDisabled = "handlers.disabled"
)

// History Tracking - these keys configure the persistence of capture outcomes.
const (
	HistorySave = "history.save"
)

// Remote Synchronization - these keys configure pushing snapshots to git.
const (
	SyncCommitMessage = "sync.commit_message"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
