package handler

import (
	"strings"

	"github.com/samber/mo"
)

// Static is a compiled-in handler configured entirely by its fields.
// Match defaults to substring matching against Contains.
type Static struct {
	ID       string
	Rank     int
	Contains []string
	Match    func(url string) bool
	Script   string
	Args     []string
	Prefix   string
}

func (s *Static) Name() string { return s.ID }

func (s *Static) Priority() int { return s.Rank }

// Matches reports whether url satisfies Match, or contains one of Contains.
// A panicking Match is reported as no match.
func (s *Static) Matches(url string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	if s.Match != nil {
		return s.Match(url)
	}

	for _, needle := range s.Contains {
		if needle != "" && strings.Contains(url, needle) {
			return true
		}
	}
	return false
}

func (s *Static) InjectedScript() mo.Option[string] {
	if s.Script == "" {
		return mo.None[string]()
	}
	return mo.Some(s.Script)
}

func (s *Static) ExtraArguments() []string {
	return append([]string(nil), s.Args...)
}

func (s *Static) FilenamePrefix(string, string) string { return s.Prefix }

func (s *Static) Origin() Origin { return OriginBuiltin }

func (s *Static) Path() string { return "" }
