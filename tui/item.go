package tui

import (
	"fmt"

	"github.com/pagevault/pagevault/archive"
	"github.com/pagevault/pagevault/icon"
)

// listItem wraps a snapshot for the list component.
type listItem struct {
	snapshot archive.Snapshot
}

func (t *listItem) Title() string {
	return fmt.Sprintf("%s %s", icon.Get(icon.Snapshot), t.snapshot.Name)
}

func (t *listItem) Description() string {
	return fmt.Sprintf("%s · %s", t.snapshot.HumanSize(), t.snapshot.Age())
}

func (t *listItem) FilterValue() string {
	return t.snapshot.Name
}
