// Package cmd implements the command-line interface for pagevault.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/pagevault/pagevault/capture"
	"github.com/pagevault/pagevault/color"
	"github.com/pagevault/pagevault/config"
	"github.com/pagevault/pagevault/constant"
	"github.com/pagevault/pagevault/icon"
	"github.com/pagevault/pagevault/key"
	"github.com/pagevault/pagevault/log"
	"github.com/pagevault/pagevault/style"
	"github.com/pagevault/pagevault/tui"
	"github.com/pagevault/pagevault/version"
	"github.com/pagevault/pagevault/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("archive", "A", "", "Directory snapshots are saved to and listed from")
	lo.Must0(rootCmd.MarkPersistentFlagDirname("archive"))
	lo.Must0(viper.BindPFlag(key.ArchivePath, rootCmd.PersistentFlags().Lookup("archive")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Record capture outcomes in the history file")
	lo.Must0(viper.BindPFlag(key.HistorySave, rootCmd.PersistentFlags().Lookup("write-history")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})
}

// rootCmd opens the interactive interface when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   constant.App,
	Short: "Save web pages as self-contained HTML snapshots",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Save web pages as self-contained HTML snapshots"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		orchestrator := capture.New("", loadRegistry())
		archive := where.Archive()

		options := tui.Options{
			Dir:     archive,
			Capture: captureWith(orchestrator, locateTool),
			Sync: func(ctx context.Context) error {
				return syncArchive(ctx, archive, nil)
			},
		}
		handleErr(tui.Run(&options))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
// An interrupt cancels the running command, which stops any capture tool it started.
func Execute() {
	for _, err := range config.Rejected {
		log.Warn(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s, using the default\n", style.Fg(color.Yellow)(icon.Get(icon.Warn)), err)
	}

	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
