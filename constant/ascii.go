package constant

import _ "embed"

// AsciiArtLogo is the application's ASCII art banner, loaded at compile time.
//
//go:embed ascii.txt
var AsciiArtLogo string

// DefaultScriptContent is written to the default script location on first use.
//
//go:embed local_fix.js
var DefaultScriptContent string
