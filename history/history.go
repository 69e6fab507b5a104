// Package history persists the outcome of every capture attempt.
package history

import (
	"errors"
	"sort"

	"github.com/metafates/gache"
	"github.com/pagevault/pagevault/filesystem"
	"github.com/pagevault/pagevault/where"
	"github.com/samber/lo"
)

var cacher = gache.New[map[string]*Record](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

func load() (map[string]*Record, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Record), nil
	}
	return cached, nil
}

// Get returns every record, newest first.
func Get() ([]*Record, error) {
	saved, err := load()
	if err != nil {
		return nil, err
	}

	records := lo.Values(saved)
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].At.Equal(records[j].At) {
			return records[i].ID < records[j].ID
		}
		return records[i].At.After(records[j].At)
	})
	return records, nil
}

// Save stores record, replacing any record with the same ID.
func Save(record *Record) error {
	if record == nil || record.ID == "" {
		return errors.New("history record without id")
	}

	saved, err := load()
	if err != nil {
		return err
	}

	saved[record.ID] = record
	return cacher.Set(saved)
}

// Remove deletes the record with the given ID. Unknown IDs are ignored.
func Remove(id string) error {
	saved, err := load()
	if err != nil {
		return err
	}

	delete(saved, id)
	return cacher.Set(saved)
}

// Clear deletes every record.
func Clear() error {
	return cacher.Set(make(map[string]*Record))
}
