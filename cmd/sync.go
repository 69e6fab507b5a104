package cmd

import (
	"errors"
	"fmt"

	"github.com/pagevault/pagevault/color"
	"github.com/pagevault/pagevault/gitsync"
	"github.com/pagevault/pagevault/icon"
	"github.com/pagevault/pagevault/style"
	"github.com/pagevault/pagevault/util"
	"github.com/pagevault/pagevault/where"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(syncCmd)
}

// syncCmd commits the archive and pushes it to its git remote.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Commit the archive and push it to its git remote",
	Long: `Stage every change in the archive directory, commit it, rebase onto the remote and push.
The archive directory must be a git repository with an upstream configured.`,
	Run: func(cmd *cobra.Command, args []string) {
		erase := func() {}
		err := syncArchive(cmd.Context(), where.Archive(), func(step gitsync.Step) {
			erase()
			erase = util.PrintErasable(fmt.Sprintf("%s git %s...", icon.Get(icon.Sync), step.Name))
		})
		erase()

		var stepErr *gitsync.StepError
		if errors.As(err, &stepErr) && stepErr.Output != "" {
			fmt.Println(style.Faint(stepErr.Output))
		}
		handleErr(err)

		fmt.Printf("%s archive synced\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}
