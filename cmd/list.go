package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
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
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("filter", "f", "", "Show only snapshots whose name fuzzily matches")
	listCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	listCmd.SetOut(os.Stdout)
}

// listCmd prints the snapshots of the archive, newest first.
var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List saved snapshots, newest first",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		dir := where.Archive()
		snapshots, err := archive.List(dir)
		handleErr(err)

		snapshots = archive.Filter(snapshots, lo.Must(cmd.Flags().GetString("filter")))

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			lo.Must0(encoder.Encode(lo.Ternary(snapshots == nil, []archive.Snapshot{}, snapshots)))
			return
		}

		if len(snapshots) == 0 {
			cmd.Println(style.Faint("No snapshots in " + dir))
			return
		}

		width := 80
		if w, _, err := util.TerminalSize(); err == nil && w > 0 {
			width = w
		}

		for _, s := range snapshots {
			meta := fmt.Sprintf("  %s · %s", s.HumanSize(), s.Age())
			name := truncate.StringWithTail(s.Name, uint(util.Max(width-len(meta)-4, 10)), "…")
			cmd.Printf("%s %s%s\n", icon.Get(icon.Snapshot), name, style.Faint(meta))
		}

		cmd.Println()
		cmd.Println(style.Fg(color.Blue)(fmt.Sprintf(
			"%s, %s in %s",
			util.Quantify(len(snapshots), "snapshot", "snapshots"),
			humanize.Bytes(uint64(archive.TotalSize(snapshots))),
			dir,
		)))
	},
}
