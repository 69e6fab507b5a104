package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pagevault/pagevault/capture"
	"github.com/pagevault/pagevault/color"
	"github.com/pagevault/pagevault/history"
	"github.com/pagevault/pagevault/icon"
	"github.com/pagevault/pagevault/style"
	"github.com/pagevault/pagevault/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(captureCmd)
	captureCmd.Flags().BoolP("json", "j", false, "Print the outcome as JSON")
	captureCmd.SetOut(os.Stdout)
}

var captureCmd = &cobra.Command{
	Use:     "capture [url]",
	Short:   "Save a web page as a self-contained HTML snapshot",
	Long:    "Save a web page as a self-contained HTML snapshot. You are prompted for the URL when it is omitted.",
	Aliases: []string{"save"},
	Args:    cobra.MaximumNArgs(1),
	Example: "  pagevault capture https://example.com/article",
	Run: func(cmd *cobra.Command, args []string) {
		asJson := lo.Must(cmd.Flags().GetBool("json"))

		var url string
		if len(args) == 1 {
			url = args[0]
		} else {
			handleErr(survey.AskOne(&survey.Input{Message: "URL"}, &url, survey.WithValidator(survey.Required)))
		}

		orchestrator := capture.New(requireTool(), loadRegistry())
		if !asJson {
			orchestrator.OnState = progressPrinter()
		}

		result := orchestrator.Capture(cmd.Context(), url)

		if asJson {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			lo.Must0(encoder.Encode(newCaptureReport(url, result)))
		} else if capture.IsSuccess(result) {
			cmd.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), result)
		} else {
			_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", style.Fg(color.Red)(icon.Get(icon.Fail)), result)
		}

		if !capture.IsSuccess(result) {
			os.Exit(1)
		}
	},
}

// progressPrinter shows the current capture state on a single erasable line.
func progressPrinter() func(capture.State) {
	erase := func() {}
	return func(state capture.State) {
		erase()
		if state.Terminal() {
			erase = func() {}
			return
		}
		erase = util.PrintErasable(fmt.Sprintf("%s %s...", icon.Get(icon.Progress), util.Capitalize(state.String())))
	}
}

// captureReport is the JSON form of a capture result.
type captureReport struct {
	URL      string          `json:"url"`
	Outcome  history.Outcome `json:"outcome"`
	Path     string          `json:"path,omitempty"`
	ExitCode *int            `json:"exit_code,omitempty"`
	Output   string          `json:"output,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func newCaptureReport(url string, result capture.Result) captureReport {
	report := captureReport{URL: url, Outcome: result.Outcome()}

	switch r := result.(type) {
	case capture.Success:
		report.Path = r.FinalPath
	case capture.ToolError:
		report.ExitCode = lo.ToPtr(r.ExitCode)
		report.Output = r.Output()
		report.Error = r.String()
	case capture.VerificationFailure:
		report.Path = r.ExpectedPath
		report.Error = r.String()
	case capture.ProcessSpawnError:
		report.Error = r.String()
	}

	return report
}
