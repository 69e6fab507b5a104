// Package archive lists and manages the snapshots in the archive directory.
package archive

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pagevault/pagevault/constant"
	"github.com/pagevault/pagevault/filesystem"
	"github.com/pagevault/pagevault/util"
	"github.com/samber/lo"
)

// Snapshot is a saved page in the archive.
type Snapshot struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modified"`
}

// HumanSize formats the size for display, e.g. "1.2 MB".
func (s Snapshot) HumanSize() string {
	return humanize.Bytes(uint64(util.Max(s.Size, 0)))
}

// Age formats the modification time relative to now, e.g. "3 hours ago".
func (s Snapshot) Age() string {
	return humanize.Time(s.ModTime)
}

func (s Snapshot) String() string {
	return s.Name
}

// IsSnapshot reports whether name has the snapshot extension.
func IsSnapshot(name string) bool {
	return strings.EqualFold(filepath.Ext(name), constant.SnapshotExtension)
}

// List returns the snapshots directly inside dir, newest first.
// A missing directory holds no snapshots.
func List(dir string) ([]Snapshot, error) {
	exists, err := filesystem.API().DirExists(dir)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	entries, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", dir, err)
	}

	var snapshots []Snapshot
	for _, entry := range entries {
		if !entry.Mode().IsRegular() || !IsSnapshot(entry.Name()) {
			continue
		}

		snapshots = append(snapshots, Snapshot{
			Name:    entry.Name(),
			Path:    filepath.Join(dir, entry.Name()),
			Size:    entry.Size(),
			ModTime: entry.ModTime(),
		})
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		if snapshots[i].ModTime.Equal(snapshots[j].ModTime) {
			return snapshots[i].Name < snapshots[j].Name
		}
		return snapshots[i].ModTime.After(snapshots[j].ModTime)
	})

	return snapshots, nil
}

// Filter keeps the snapshots whose name fuzzily matches query, best matches first.
// An empty query keeps everything in order.
func Filter(snapshots []Snapshot, query string) []Snapshot {
	query = strings.TrimSpace(query)
	if query == "" {
		return snapshots
	}

	names := lo.Map(snapshots, func(s Snapshot, _ int) string { return s.Name })
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Stable(ranks)

	return lo.Map(ranks, func(r fuzzy.Rank, _ int) Snapshot {
		return snapshots[r.OriginalIndex]
	})
}

// Select returns the snapshots named by patterns, in list order.
// A pattern is an exact name or a doublestar glob such as "saved-2024*".
func Select(snapshots []Snapshot, patterns []string) ([]Snapshot, error) {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}
	}

	return lo.Filter(snapshots, func(s Snapshot, _ int) bool {
		return lo.SomeBy(patterns, func(pattern string) bool {
			if pattern == s.Name {
				return true
			}
			ok, _ := doublestar.Match(pattern, s.Name)
			return ok
		})
	}), nil
}

// Delete removes a snapshot file.
func Delete(snapshot Snapshot) error {
	if err := util.Delete(snapshot.Path); err != nil {
		return fmt.Errorf("delete %s: %w", snapshot.Name, err)
	}
	return nil
}

// TotalSize sums the size of snapshots.
func TotalSize(snapshots []Snapshot) int64 {
	return lo.SumBy(snapshots, func(s Snapshot) int64 { return s.Size })
}
