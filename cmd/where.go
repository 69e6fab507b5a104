package cmd

import (
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize/english"
	"github.com/pagevault/pagevault/color"
	"github.com/pagevault/pagevault/constant"
	"github.com/pagevault/pagevault/filesystem"
	"github.com/pagevault/pagevault/style"
	"github.com/pagevault/pagevault/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// whereTarget encapsulates a localized filesystem resource and its CLI representation.
type whereTarget struct {
	name     string
	where    func() string
	argLong  string
	argShort mo.Option[string]
	hidden   bool
	// status describes the resource at path, such as whether it exists yet.
	status func(path string) string
}

// wherePaths registry of all application resources with resolvable filesystem paths.
var wherePaths = []*whereTarget{
	{"Config", where.Config, "config", mo.Some("c"), false, existence},
	{"Handlers", where.Handlers, "handlers", mo.None[string](), false, handlersStatus},
	{"Default script", where.DefaultScript, "script", mo.Some("s"), false, scriptStatus},
	{"Archive", where.Archive, "snapshots", mo.None[string](), false, archiveStatus},
	{"History", where.History, "history", mo.None[string](), false, existence},
	{"Logs", where.Logs, "logs", mo.Some("l"), false, existence},
	{"Cache", where.Cache, "cache", mo.None[string](), true, existence},
}

func exists(path string) bool {
	found, err := filesystem.API().Exists(path)
	return err == nil && found
}

func existence(path string) string {
	if exists(path) {
		return "present"
	}
	return "not created yet"
}

func handlersStatus(path string) string {
	entries, err := filesystem.API().ReadDir(path)
	if err != nil {
		return "not created yet, run a capture or handlers list"
	}

	units := lo.CountBy(entries, func(entry os.FileInfo) bool {
		return entry.Name() != constant.HandlerInitFilename
	})
	return english.Plural(units, "unit", "")
}

func scriptStatus(path string) string {
	content, err := filesystem.API().ReadFile(path)
	switch {
	case err != nil:
		return "missing, captures without a handler inject no script"
	case string(content) == constant.DefaultScriptContent:
		return "bundled"
	default:
		return "customized"
	}
}

func archiveStatus(path string) string {
	if exists(filepath.Join(path, ".git")) {
		return "git repository, sync available"
	}
	return "not a git repository, sync unavailable"
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, n := range wherePaths {
		if n.argShort.IsPresent() {
			whereCmd.Flags().BoolP(n.argLong, n.argShort.MustGet(), false, n.name+" path")
		} else {
			whereCmd.Flags().Bool(n.argLong, false, n.name+" path")
		}

		if n.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(n.argLong))
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(wherePaths, func(t *whereTarget, _ int) string {
		return t.argLong
	})...)

	whereCmd.SetOut(os.Stdout)
}

// whereCmd displays localized filesystem paths for application resources.
var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Display where configuration, handlers and snapshots live",
	Run: func(cmd *cobra.Command, args []string) {
		headerStyle := style.New().Bold(true).Foreground(color.HiPurple).Render

		for _, n := range wherePaths {
			if lo.Must(cmd.Flags().GetBool(n.argLong)) {
				cmd.Println(n.where())
				return
			}
		}

		visible := lo.Reject(wherePaths, func(t *whereTarget, _ int) bool {
			return t.hidden
		})

		for i, n := range visible {
			path := n.where()
			cmd.Printf("%s %s\n", headerStyle(n.name+"?"), style.Fg(color.Yellow)("--"+n.argLong))
			cmd.Printf("%s %s\n", path, style.Faint("("+n.status(path)+")"))

			if i < len(visible)-1 {
				cmd.Println()
			}
		}
	},
}
