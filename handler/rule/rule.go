// Package rule loads declarative capture handlers from YAML files.
//
// A file may hold several YAML documents; each becomes one handler:
//
//	name: example
//	priority: 10
//	match: ["*://*.example.com/*"]
//	contains: ["example.com"]
//	script: example.js
//	arguments: ["--load-deferred-images-max-idle-time=5000"]
//	prefix: "[{{ .Host }}]-"
package rule

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/gobwas/glob"
	"github.com/pagevault/pagevault/filesystem"
	"github.com/pagevault/pagevault/handler"
	"github.com/pagevault/pagevault/log"
	"github.com/pagevault/pagevault/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"gopkg.in/yaml.v3"
)

// Spec is the on-disk shape of a rule handler.
type Spec struct {
	Name      string   `yaml:"name" json:"name,omitempty" jsonschema:"description=Handler name; defaults to the file name"`
	Priority  *int     `yaml:"priority" json:"priority,omitempty" jsonschema:"description=Lower values are checked first; defaults to 100"`
	Requires  string   `yaml:"requires" json:"requires,omitempty" jsonschema:"description=Semantic version constraint on the application"`
	Match     []string `yaml:"match" json:"match,omitempty" jsonschema:"description=URL glob patterns"`
	Contains  []string `yaml:"contains" json:"contains,omitempty" jsonschema:"description=URL substrings"`
	Script    string   `yaml:"script" json:"script,omitempty" jsonschema:"description=Browser script path; relative to the rule file"`
	Arguments []string `yaml:"arguments" json:"arguments,omitempty" jsonschema:"description=Extra single-file flags"`
	Prefix    string   `yaml:"prefix" json:"prefix,omitempty" jsonschema:"description=Filename prefix template with .URL .Host and .Title"`
}

// PrefixData is exposed to prefix templates.
type PrefixData struct {
	URL   string
	Host  string
	Title string
}

// Load parses every document in the YAML file at path.
func Load(path string) ([]handler.Handler, error) {
	content, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)

	var handlers []handler.Handler
	for i := 0; ; i++ {
		var spec Spec
		err := decoder.Decode(&spec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}

		h, err := Compile(spec, path, i)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		handlers = append(handlers, h)
	}

	if len(handlers) == 0 {
		return nil, errors.New("no rules defined")
	}
	return handlers, nil
}

// Compile validates spec and builds its handler.
// index distinguishes default names of several rules in one file.
func Compile(spec Spec, path string, index int) (handler.Handler, error) {
	if err := handler.CheckRequires(spec.Requires); err != nil {
		return nil, err
	}

	if len(spec.Match) == 0 && len(spec.Contains) == 0 {
		return nil, errors.New("at least one of match or contains is required")
	}

	globs := make([]glob.Glob, 0, len(spec.Match))
	for _, pattern := range spec.Match {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid match pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}

	var prefix *template.Template
	if spec.Prefix != "" {
		t, err := template.New("prefix").Option("missingkey=error").Parse(spec.Prefix)
		if err != nil {
			return nil, fmt.Errorf("invalid prefix template: %w", err)
		}
		prefix = t
	}

	name := spec.Name
	if name == "" {
		name = util.FileStem(path)
		if index > 0 {
			name = fmt.Sprintf("%s-%d", name, index)
		}
	}

	priority := handler.UnitPriority
	if spec.Priority != nil {
		priority = *spec.Priority
	}

	script := spec.Script
	if script != "" && !filepath.IsAbs(script) {
		script = filepath.Join(filepath.Dir(path), script)
	}

	return &ruleHandler{
		name:      name,
		priority:  priority,
		path:      path,
		globs:     globs,
		contains:  lo.Compact(spec.Contains),
		script:    script,
		arguments: spec.Arguments,
		prefix:    prefix,
	}, nil
}

type ruleHandler struct {
	name      string
	priority  int
	path      string
	globs     []glob.Glob
	contains  []string
	script    string
	arguments []string
	prefix    *template.Template
}

func (h *ruleHandler) Name() string { return h.name }

func (h *ruleHandler) Priority() int { return h.priority }

func (h *ruleHandler) Origin() handler.Origin { return handler.OriginRule }

func (h *ruleHandler) Path() string { return h.path }

// Matches reports whether any glob or substring matches url.
func (h *ruleHandler) Matches(rawURL string) bool {
	for _, g := range h.globs {
		if g.Match(rawURL) {
			return true
		}
	}
	for _, needle := range h.contains {
		if strings.Contains(rawURL, needle) {
			return true
		}
	}
	return false
}

func (h *ruleHandler) InjectedScript() mo.Option[string] {
	if h.script == "" {
		return mo.None[string]()
	}
	return mo.Some(h.script)
}

func (h *ruleHandler) ExtraArguments() []string {
	return append([]string(nil), h.arguments...)
}

// FilenamePrefix renders the prefix template. Render failures yield no prefix.
func (h *ruleHandler) FilenamePrefix(rawURL, title string) string {
	if h.prefix == nil {
		return ""
	}

	data := PrefixData{URL: rawURL, Title: title}
	if parsed, err := url.Parse(rawURL); err == nil {
		data.Host = parsed.Hostname()
	}

	var b strings.Builder
	if err := h.prefix.Execute(&b, data); err != nil {
		log.Warnf("handler %s: render prefix: %v", h.name, err)
		return ""
	}
	return b.String()
}
