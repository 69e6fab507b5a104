package capture

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pagevault/pagevault/filename"
	"github.com/pagevault/pagevault/handler"
	"github.com/pagevault/pagevault/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// BaseFlags are the tool flags passed on every capture.
type BaseFlags struct {
	BlockScripts       bool
	DeferredImagesIdle int
	BrowserWidth       int
	BrowserHeight      int
	BrowserArgs        []string

	// Overwrite lets the tool replace an existing file. It is set only for a
	// target this capture reserved itself.
	Overwrite bool
}

// FlagsFromConfig reads the base flags from configuration.
func FlagsFromConfig() BaseFlags {
	return BaseFlags{
		BlockScripts:       viper.GetBool(key.CaptureBlockScripts),
		DeferredImagesIdle: viper.GetInt(key.CaptureDeferredImagesIdle),
		BrowserWidth:       viper.GetInt(key.CaptureBrowserWidth),
		BrowserHeight:      viper.GetInt(key.CaptureBrowserHeight),
		BrowserArgs:        viper.GetStringSlice(key.CaptureBrowserArgs),
	}
}

// Args renders the flags in tool order.
func (f BaseFlags) Args() []string {
	browserArgs := f.BrowserArgs
	if browserArgs == nil {
		browserArgs = []string{}
	}

	args := []string{
		"--block-scripts=" + strconv.FormatBool(f.BlockScripts),
		fmt.Sprintf("--load-deferred-images-max-idle-time=%d", f.DeferredImagesIdle),
		fmt.Sprintf("--browser-width=%d", f.BrowserWidth),
		fmt.Sprintf("--browser-height=%d", f.BrowserHeight),
		"--browser-args=" + string(lo.Must(json.Marshal(browserArgs))),
	}

	if f.Overwrite {
		args = append(args, "--filename-conflict-action=overwrite")
	}

	return args
}

// Invocation is everything needed to build the tool command line.
type Invocation struct {
	Tool    string
	URL     string
	Title   string
	Output  string
	Handler handler.Handler
	Flags   BaseFlags
}

// Plan is an assembled command line and the file it is expected to produce.
type Plan struct {
	Argv   []string
	Output string
	Script string
	Prefix string
}

// Assemble builds the command line:
//
//	tool URL output [--browser-script=path] base-flags... extra-args...
//
// The script flag is included only when the handler's script exists on disk.
// A non-empty handler prefix rewrites the output filename last, after the
// collision check that produced Output.
func Assemble(inv Invocation) Plan {
	h := inv.Handler
	if h == nil {
		h = handler.Default
	}

	plan := Plan{Output: inv.Output}

	if prefix := h.FilenamePrefix(inv.URL, inv.Title); prefix != "" {
		plan.Prefix = filename.Strip(prefix)
		plan.Output = filename.WithPrefix(inv.Output, plan.Prefix)
	}

	plan.Argv = []string{inv.Tool, inv.URL, plan.Output}

	if script, ok := h.InjectedScript().Get(); ok && handler.ScriptExists(script) {
		plan.Script = script
		plan.Argv = append(plan.Argv, "--browser-script="+script)
	}

	plan.Argv = append(plan.Argv, inv.Flags.Args()...)
	plan.Argv = append(plan.Argv, h.ExtraArguments()...)

	return plan
}
