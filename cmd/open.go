package cmd

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pagevault/pagevault/archive"
	"github.com/pagevault/pagevault/icon"
	"github.com/pagevault/pagevault/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(openCmd)
	openCmd.Flags().BoolP("latest", "l", false, "Open the most recent snapshot")
}

// completionSnapshots suggests snapshot names from the archive.
func completionSnapshots(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	snapshots, err := archive.List(where.Archive())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return lo.Map(snapshots, func(s archive.Snapshot, _ int) string { return s.Name }), cobra.ShellCompDirectiveNoFileComp
}

// openCmd opens a snapshot with the platform's default application.
var openCmd = &cobra.Command{
	Use:               "open [name or glob]",
	Short:             "Open a snapshot in the default browser",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionSnapshots,
	Run: func(cmd *cobra.Command, args []string) {
		snapshots, err := archive.List(where.Archive())
		handleErr(err)

		if len(snapshots) == 0 {
			handleErr(errors.New("the archive is empty"))
		}

		candidates := snapshots
		switch {
		case lo.Must(cmd.Flags().GetBool("latest")):
			candidates = snapshots[:1]
		case len(args) == 1:
			candidates, err = archive.Select(snapshots, args)
			handleErr(err)
			if len(candidates) == 0 {
				handleErr(fmt.Errorf("no snapshot matches %q", args[0]))
			}
		}

		snapshot := candidates[0]
		if len(candidates) > 1 {
			snapshot = pickSnapshot(candidates)
		}

		handleErr(archive.Open(snapshot))
		fmt.Printf("%s opened %s\n", icon.Get(icon.Success), snapshot.Name)
	},
}

// pickSnapshot asks the user to choose one of snapshots.
func pickSnapshot(snapshots []archive.Snapshot) archive.Snapshot {
	var index int
	handleErr(survey.AskOne(&survey.Select{
		Message: "Snapshot",
		Options: lo.Map(snapshots, func(s archive.Snapshot, _ int) string { return s.Name }),
		Description: func(_ string, i int) string {
			return snapshots[i].Age()
		},
	}, &index))
	return snapshots[index]
}
