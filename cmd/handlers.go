package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/invopop/jsonschema"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/pagevault/pagevault/capture"
	"github.com/pagevault/pagevault/color"
	"github.com/pagevault/pagevault/constant"
	"github.com/pagevault/pagevault/filename"
	"github.com/pagevault/pagevault/filesystem"
	"github.com/pagevault/pagevault/handler"
	"github.com/pagevault/pagevault/handler/rule"
	"github.com/pagevault/pagevault/icon"
	"github.com/pagevault/pagevault/key"
	"github.com/pagevault/pagevault/registry"
	"github.com/pagevault/pagevault/style"
	"github.com/pagevault/pagevault/util"
	"github.com/pagevault/pagevault/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(handlersCmd)
}

// handlersCmd provides a parent command for managing capture handlers.
var handlersCmd = &cobra.Command{
	Use:     "handlers",
	Short:   "Manage the handlers that customize captures per site",
	Aliases: []string{"handler"},
}

// origin reports where h was loaded from.
func origin(h handler.Handler) (handler.Origin, string) {
	if sourced, ok := h.(handler.Sourced); ok {
		return sourced.Origin(), sourced.Path()
	}
	return handler.OriginBuiltin, ""
}

func originIcon(o handler.Origin) string {
	switch o {
	case handler.OriginLua:
		return icon.Get(icon.Lua)
	case handler.OriginRule:
		return icon.Get(icon.Rule)
	default:
		return icon.Get(icon.Snapshot)
	}
}

func errUnknownHandler(name string, r *registry.Registry) error {
	names := lo.Map(r.Handlers(), func(h handler.Handler, _ int) string { return h.Name() })
	if len(names) == 0 {
		return fmt.Errorf("unknown handler %s, no handlers are installed", style.Fg(color.Red)(name))
	}

	closest := lo.MinBy(names, func(a string, b string) bool {
		return levenshtein.Distance(name, a) < levenshtein.Distance(name, b)
	})
	return fmt.Errorf(
		"unknown handler %s, did you mean %s?",
		style.Fg(color.Red)(name),
		style.Fg(color.Yellow)(closest),
	)
}

func completionHandlers(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	r, _ := registry.Load()
	return lo.Map(r.Handlers(), func(h handler.Handler, _ int) string { return h.Name() }), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	handlersCmd.AddCommand(handlersListCmd)
	handlersListCmd.Flags().BoolP("raw", "r", false, "Print only handler names")
	handlersListCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	handlersListCmd.MarkFlagsMutuallyExclusive("raw", "json")
	handlersListCmd.SetOut(os.Stdout)
}

// handlerInfo is the JSON form of a handler.
type handlerInfo struct {
	Name     string         `json:"name"`
	Priority int            `json:"priority"`
	Origin   handler.Origin `json:"origin"`
	Path     string         `json:"path,omitempty"`
}

// handlersListCmd shows the discovered handlers in the order they are consulted.
var handlersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered handlers in the order they are checked",
	Run: func(cmd *cobra.Command, args []string) {
		r := loadRegistry()
		handlers := r.Handlers()

		switch {
		case lo.Must(cmd.Flags().GetBool("json")):
			infos := lo.Map(handlers, func(h handler.Handler, _ int) handlerInfo {
				o, path := origin(h)
				return handlerInfo{Name: h.Name(), Priority: h.Priority(), Origin: o, Path: path}
			})
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			lo.Must0(encoder.Encode(infos))
			return
		case lo.Must(cmd.Flags().GetBool("raw")):
			for _, h := range handlers {
				cmd.Println(h.Name())
			}
			return
		}

		if len(handlers) == 0 {
			cmd.Println(style.Faint("No handlers installed in " + where.Handlers()))
		}

		for _, h := range handlers {
			o, path := origin(h)
			cmd.Printf(
				"%s %s %s %s\n",
				originIcon(o),
				style.Bold(h.Name()),
				style.Fg(color.Blue)(fmt.Sprintf("(%d)", h.Priority())),
				style.Faint(path),
			)
		}

		cmd.Printf(
			"%s %s %s\n",
			style.Faint("·"),
			style.Faint(handler.Default.Name()),
			style.Faint(fmt.Sprintf("(%d) used when nothing else matches", handler.DefaultPriority)),
		)
	},
}

func init() {
	handlersCmd.AddCommand(handlersResolveCmd)
	handlersResolveCmd.Flags().StringP("title", "t", "", "Page title used to preview the filename")
	handlersResolveCmd.SetOut(os.Stdout)
}

// handlersResolveCmd previews the handler and command line a capture of a URL would use.
var handlersResolveCmd = &cobra.Command{
	Use:     "resolve [url]",
	Short:   "Show which handler captures a URL and the resulting command line",
	Args:    cobra.ExactArgs(1),
	Example: "  pagevault handlers resolve https://example.com/article",
	Run: func(cmd *cobra.Command, args []string) {
		url := args[0]
		r := loadRegistry()
		selection := r.Resolve(url)
		h := selection.Handler()

		pageTitle := mo.EmptyableToOption(lo.Must(cmd.Flags().GetString("title")))
		dir := where.Archive()
		name := filename.Resolve(pageTitle, time.Now(), func(name string) bool {
			exists, err := filesystem.API().Exists(filepath.Join(dir, name))
			return err == nil && exists
		})

		plan := capture.Assemble(capture.Invocation{
			Tool:    constant.SingleFile,
			URL:     url,
			Title:   pageTitle.OrEmpty(),
			Output:  filepath.Join(dir, name),
			Handler: h,
			Flags:   capture.FlagsFromConfig(),
		})

		o, path := origin(h)
		field := func(k, v string) {
			cmd.Printf("%s %s\n", style.Fg(color.Blue)(fmt.Sprintf("%-9s", k+":")), v)
		}

		field("Handler", fmt.Sprintf("%s %s", originIcon(o), style.Bold(h.Name())))
		field("Kind", selection.Kind().String())
		field("Priority", fmt.Sprint(h.Priority()))
		if path != "" {
			field("Path", path)
		}
		field("Script", lo.Ternary(plan.Script == "", style.Faint("none"), plan.Script))
		field("Prefix", lo.Ternary(plan.Prefix == "", style.Faint("none"), plan.Prefix))
		field("Output", plan.Output)
		field("Command", strings.Join(plan.Argv, " "))
	},
}

func init() {
	handlersCmd.AddCommand(handlersGenCmd)

	handlersGenCmd.Flags().StringP("name", "n", "", "Name of the new handler")
	handlersGenCmd.Flags().StringP("match", "m", "", "URL substring the handler captures")
	handlersGenCmd.Flags().BoolP("force", "f", false, "Overwrite an existing handler file")

	lo.Must0(handlersGenCmd.MarkFlagRequired("name"))
	lo.Must0(handlersGenCmd.MarkFlagRequired("match"))
	handlersGenCmd.SetOut(os.Stdout)
}

// handlersGenCmd scaffolds a Lua handler from the built-in template.
var handlersGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Scaffold a new Lua handler",
	Long:  `Generate a Lua handler with every supported function stubbed out.`,
	Run: func(cmd *cobra.Command, args []string) {
		author := "Anonymous"
		if usr, err := user.Current(); err == nil {
			author = usr.Username
		}

		name := util.Slugify(lo.Must(cmd.Flags().GetString("name")))
		if name == "" {
			handleErr(errors.New("handler name is empty after removing unsupported characters"))
		}

		s := struct {
			Name, Pattern, Author, Version           string
			NameVar, PriorityVar, RequiresVar        string
			MatchFn, ScriptFn, ArgumentsFn, PrefixFn string
		}{
			Name:        name,
			Pattern:     lo.Must(cmd.Flags().GetString("match")),
			Author:      author,
			Version:     constant.Version,
			NameVar:     constant.HandlerNameVar,
			PriorityVar: constant.HandlerPriorityVar,
			RequiresVar: constant.HandlerRequiresVar,
			MatchFn:     constant.HandlerMatchFn,
			ScriptFn:    constant.HandlerScriptFn,
			ArgumentsFn: constant.HandlerArgumentsFn,
			PrefixFn:    constant.HandlerPrefixFn,
		}

		funcMap := template.FuncMap{
			"repeat": strings.Repeat,
			"plus":   func(a, b int) int { return a + b },
			"max":    util.Max[int],
		}

		tmpl, err := template.New("handler").Funcs(funcMap).Parse(constant.HandlerTemplate)
		handleErr(err)

		handleErr(filesystem.API().MkdirAll(where.Handlers(), os.ModePerm))
		target := filepath.Join(where.Handlers(), name+".lua")

		if exists, _ := filesystem.API().Exists(target); exists && !lo.Must(cmd.Flags().GetBool("force")) {
			handleErr(fmt.Errorf("%s already exists, use --force to overwrite it", target))
		}

		f, err := filesystem.API().Create(target)
		handleErr(err)

		defer util.Ignore(f.Close)

		handleErr(tmpl.Execute(f, s))
		cmd.Println(target)
	},
}

func init() {
	handlersCmd.AddCommand(handlersSchemaCmd)
	handlersSchemaCmd.SetOut(os.Stdout)
}

// handlersSchemaCmd prints the JSON schema of YAML handler files for editor validation.
var handlersSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of YAML handler files",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := jsonschema.Reflector{ExpandedStruct: true}
		schema := reflector.Reflect(&rule.Spec{})
		schema.Title = constant.App + " handler"

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(schema))
	},
}

func init() {
	handlersCmd.AddCommand(handlersRemoveCmd)
}

// handlersRemoveCmd deletes the files of the named handlers.
var handlersRemoveCmd = &cobra.Command{
	Use:               "remove [name]...",
	Short:             "Delete installed handlers",
	Long:              "Delete the files of installed handlers. A file that declares several handlers is removed as a whole.",
	Aliases:           []string{"rm"},
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completionHandlers,
	Run: func(cmd *cobra.Command, args []string) {
		r := loadRegistry()

		for _, name := range args {
			h, ok := r.Get(name)
			if !ok {
				handleErr(errUnknownHandler(name, r))
			}

			o, path := origin(h)
			if o == handler.OriginBuiltin {
				handleErr(fmt.Errorf("%s is built in and cannot be removed, disable it with %s instead", name, key.HandlersDisabled))
			}

			if err := filesystem.API().Remove(path); err != nil && !os.IsNotExist(err) {
				handleErr(err)
			}
			fmt.Printf("%s removed %s %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name), style.Faint(path))
		}
	},
}

func init() {
	handlersCmd.AddCommand(handlersInstallCmd)
}

// handlersInstallCmd downloads handler units into the handlers directory.
var handlersInstallCmd = &cobra.Command{
	Use:     "install [url]...",
	Short:   "Download handler files into the handlers directory",
	Long:    "Download .lua or .yaml handler files. Each file is validated before it replaces the installed copy.",
	Args:    cobra.MinimumNArgs(1),
	Example: "  pagevault handlers install https://example.com/handlers/news.yaml",
	Run: func(cmd *cobra.Command, args []string) {
		r := registry.New()

		for _, source := range args {
			erase := util.PrintErasable(fmt.Sprintf("%s Installing %s...", icon.Get(icon.Progress), source))
			installed, err := r.Install(cmd.Context(), nil, source, where.Handlers())
			erase()
			handleErr(err)

			if installed.Changed {
				fmt.Printf("%s installed %s\n", icon.Get(icon.Success), installed.Path)
			} else {
				fmt.Printf("%s %s is up to date\n", icon.Get(icon.Success), installed.Path)
			}
		}
	},
}
