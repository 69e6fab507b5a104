// Package handler defines the capture handler contract and the built-in default behavior.
//
// A handler decides how a single URL is captured: which browser script is
// injected, which extra single-file flags are passed and which prefix the
// snapshot filename receives. Exactly one handler decides per capture; when
// no custom handler matches, resolution yields NoCustomHandler and the
// Default handler applies.
package handler

import (
	"github.com/pagevault/pagevault/constant"
	"github.com/pagevault/pagevault/filesystem"
	"github.com/pagevault/pagevault/key"
	"github.com/pagevault/pagevault/where"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// DefaultPriority is the rank reported by the default handler. It is checked last.
const DefaultPriority = 999

// UnitPriority is assigned to handler units that do not declare a priority.
const UnitPriority = 100

// Handler customizes capture for the URLs it matches.
type Handler interface {
	// Name identifies the handler in logs, listings and configuration.
	Name() string

	// Priority orders handlers; lower values are checked first.
	Priority() int

	// Matches reports whether the handler wants to capture url.
	// Implementations must not panic and return false when unsure.
	Matches(url string) bool

	// InjectedScript returns the path of a browser script to run in the page before saving.
	InjectedScript() mo.Option[string]

	// ExtraArguments returns additional capture flags, appended after the base flags.
	ExtraArguments() []string

	// FilenamePrefix returns a prefix for the snapshot filename. Empty means none.
	FilenamePrefix(url, title string) string
}

// Origin describes where a handler came from.
type Origin string

const (
	OriginBuiltin Origin = "builtin"
	OriginLua     Origin = "lua"
	OriginRule    Origin = "rule"
)

// Sourced is implemented by handlers loaded from a file.
type Sourced interface {
	Origin() Origin
	Path() string
}

// Kind tags a Selection.
type Kind int

const (
	// NoCustomHandler means no registered handler matched and Default applies.
	NoCustomHandler Kind = iota
	// Custom means a registered handler matched.
	Custom
)

func (k Kind) String() string {
	if k == Custom {
		return "custom"
	}
	return "none"
}

// Selection is the outcome of resolving a URL against the registry.
type Selection struct {
	kind    Kind
	handler Handler
}

// Select wraps a matched custom handler.
func Select(h Handler) Selection {
	if h == nil {
		return None()
	}
	return Selection{kind: Custom, handler: h}
}

// None is the NoCustomHandler selection.
func None() Selection {
	return Selection{kind: NoCustomHandler}
}

// Kind reports which variant the selection is.
func (s Selection) Kind() Kind {
	return s.kind
}

// Custom returns the matched custom handler, if any.
func (s Selection) Custom() mo.Option[Handler] {
	if s.kind == Custom {
		return mo.Some(s.handler)
	}
	return mo.None[Handler]()
}

// Handler returns the handler deciding the capture: the matched one, or Default.
func (s Selection) Handler() Handler {
	if s.kind == Custom {
		return s.handler
	}
	return Default
}

// Default is the behavior applied when no custom handler matches.
var Default Handler = defaultHandler{}

type defaultHandler struct{}

func (defaultHandler) Name() string { return "default" }

func (defaultHandler) Priority() int { return DefaultPriority }

func (defaultHandler) Matches(string) bool { return true }

// InjectedScript returns the configured default script only when it exists on disk.
func (defaultHandler) InjectedScript() mo.Option[string] {
	path := where.DefaultScript()
	if ScriptExists(path) {
		return mo.Some(path)
	}
	return mo.None[string]()
}

func (defaultHandler) ExtraArguments() []string { return nil }

func (defaultHandler) FilenamePrefix(string, string) string { return "" }

// EnsureDefaultScript writes the bundled script to the default location when
// nothing is there yet. A configured script path is left alone.
func EnsureDefaultScript() error {
	if viper.GetString(key.CaptureDefaultScript) != "" {
		return nil
	}

	path := where.DefaultScript()
	exists, err := filesystem.API().Exists(path)
	if err != nil || exists {
		return err
	}
	return filesystem.API().WriteFile(path, []byte(constant.DefaultScriptContent), 0o644)
}

// ScriptExists reports whether path names an existing regular file.
func ScriptExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := filesystem.API().Stat(path)
	return err == nil && info.Mode().IsRegular()
}
