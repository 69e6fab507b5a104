package constant

// External capture tool identifiers.
const (
	// SingleFile is the executable name of the single-file CLI on unix-like systems.
	SingleFile = "single-file"

	// SingleFileWindows is the npm shim name installed on Windows.
	SingleFileWindows = "single-file.cmd"

	// SingleFileInstall is the remediation hint shown when the tool is missing.
	SingleFileInstall = "npm install -g single-file-cli"
)

// Snapshot naming.
const (
	// SnapshotExtension is appended to every resolved snapshot filename.
	SnapshotExtension = ".html"

	// TimestampLayout formats the disambiguation suffix as YYYYMMDD-HHMMSS.
	TimestampLayout = "20060102-150405"

	// UntitledPrefix names snapshots of pages without a usable title.
	UntitledPrefix = "saved-"

	// DefaultScriptName is the fallback browser script looked up in the config directory.
	DefaultScriptName = "local_fix.js"
)
