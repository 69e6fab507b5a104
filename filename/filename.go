// Package filename derives snapshot filenames from page titles.
package filename

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pagevault/pagevault/constant"
	"github.com/samber/mo"
)

// forbidden lists the characters removed from titles.
const forbidden = `\/*?:"<>|`

// Sanitize removes characters that are invalid in filenames and trims surrounding whitespace.
func Sanitize(name string) string {
	return strings.TrimSpace(Strip(name))
}

// Strip removes characters that are invalid in filenames and keeps everything else.
func Strip(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(forbidden, r) {
			return -1
		}
		return r
	}, name)
}

// Timestamp formats t as YYYYMMDD-HHMMSS.
func Timestamp(t time.Time) string {
	return t.Format(constant.TimestampLayout)
}

// Resolve picks the snapshot filename.
//
// A usable title gives "{title}.html", or "{title}_{timestamp}.html" when
// exists reports the former is taken. Without one, "saved-{timestamp}.html".
func Resolve(title mo.Option[string], at time.Time, exists func(name string) bool) string {
	stamp := Timestamp(at)

	safe := Sanitize(title.OrEmpty())
	if safe == "" {
		return constant.UntitledPrefix + stamp + constant.SnapshotExtension
	}

	name := safe + constant.SnapshotExtension
	if exists != nil && exists(name) {
		name = safe + "_" + stamp + constant.SnapshotExtension
	}
	return name
}

// WithPrefix rewrites the final path component of path to prefix+name.
func WithPrefix(path, prefix string) string {
	if prefix == "" {
		return path
	}
	return filepath.Join(filepath.Dir(path), prefix+filepath.Base(path))
}

// Numbered inserts "-n" before the extension of path's file name.
func Numbered(path string, n int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), n, ext)
}
