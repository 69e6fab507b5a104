package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pagevault/pagevault/color"
	"github.com/pagevault/pagevault/history"
	"github.com/pagevault/pagevault/icon"
	"github.com/pagevault/pagevault/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 0, "Show at most this many records")
	historyCmd.Flags().BoolP("failed", "f", false, "Show only failed captures")
	historyCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	historyCmd.SetOut(os.Stdout)
}

// historyCmd prints past capture attempts, newest first.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past capture attempts, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		records, err := history.Get()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("failed")) {
			records = lo.Reject(records, func(r *history.Record, _ int) bool { return r.Succeeded() })
		}

		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && len(records) > limit {
			records = records[:limit]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			lo.Must0(encoder.Encode(lo.Ternary(records == nil, []*history.Record{}, records)))
			return
		}

		if len(records) == 0 {
			cmd.Println(style.Faint("No captures recorded"))
			return
		}

		for _, r := range records {
			mark := style.Fg(color.Green)(icon.Get(icon.Success))
			if !r.Succeeded() {
				mark = style.Fg(color.Red)(icon.Get(icon.Fail))
			}

			cmd.Printf(
				"%s %s %s\n  %s\n",
				mark,
				style.Faint(r.At.Local().Format(time.DateTime)),
				style.Bold(r.URL),
				style.Faint(fmt.Sprintf("%s via %s → %s", r.Outcome, r.Handler, r.Path)),
			)
		}
	},
}
