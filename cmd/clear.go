package cmd

import (
	"fmt"
	"os"

	"github.com/pagevault/pagevault/filesystem"
	"github.com/pagevault/pagevault/history"
	"github.com/pagevault/pagevault/icon"
	"github.com/pagevault/pagevault/util"
	"github.com/pagevault/pagevault/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// clearTarget defines an application artifact that can be cleared.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	clear    func() error
}

// removeAll clears a directory by deleting it with everything inside.
func removeAll(location func() string) func() error {
	return func() error {
		err := filesystem.API().RemoveAll(location())
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
}

// clearTargets registry of all application artifacts that can be selectively cleared.
// Snapshots are never touched here, use delete for those.
var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), removeAll(where.Cache)},
	{"capture history", "history", mo.None[string](), history.Clear},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			clearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

// clearCmd removes cached data and capture history.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached data and capture history",
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool

		doClear := func(what string) bool {
			return lo.Must(cmd.Flags().GetBool(what))
		}

		for _, target := range clearTargets {
			if doClear(target.argLong) {
				anyCleared = true
				e := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
				err := target.clear()
				e()
				handleErr(err)
				fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
			}
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}
