package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/dustin/go-humanize"
	"github.com/pagevault/pagevault/archive"
	"github.com/pagevault/pagevault/color"
	"github.com/pagevault/pagevault/icon"
	"github.com/pagevault/pagevault/style"
	"github.com/pagevault/pagevault/util"
	"github.com/pagevault/pagevault/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

// deleteCmd removes snapshots selected by name or glob.
var deleteCmd = &cobra.Command{
	Use:               "delete [name or glob]...",
	Short:             "Delete snapshots by name or glob",
	Aliases:           []string{"rm"},
	Args:              cobra.MinimumNArgs(1),
	Example:           "  pagevault delete 'saved-2024*'",
	ValidArgsFunction: completionSnapshots,
	Run: func(cmd *cobra.Command, args []string) {
		snapshots, err := archive.List(where.Archive())
		handleErr(err)

		selected, err := archive.Select(snapshots, args)
		handleErr(err)

		if len(selected) == 0 {
			fmt.Println(style.Faint("Nothing matched"))
			return
		}

		if !lo.Must(cmd.Flags().GetBool("yes")) {
			for _, s := range selected {
				fmt.Printf("  %s %s\n", icon.Get(icon.Snapshot), s.Name)
			}

			var confirmed bool
			handleErr(survey.AskOne(&survey.Confirm{
				Message: fmt.Sprintf(
					"Delete %s (%s)?",
					util.Quantify(len(selected), "snapshot", "snapshots"),
					humanize.Bytes(uint64(archive.TotalSize(selected))),
				),
			}, &confirmed))

			if !confirmed {
				return
			}
		}

		for _, s := range selected {
			handleErr(archive.Delete(s))
			fmt.Printf("%s deleted %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Yellow)(s.Name))
		}
	},
}
