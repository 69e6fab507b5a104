package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pagevault/pagevault/archive"
	"github.com/pagevault/pagevault/capture"
	"github.com/pagevault/pagevault/gitsync"
	"github.com/pagevault/pagevault/icon"
	"github.com/pagevault/pagevault/key"
	"github.com/pagevault/pagevault/log"
	"github.com/pagevault/pagevault/registry"
	"github.com/pagevault/pagevault/style"
	"github.com/pagevault/pagevault/tui"
	"github.com/spf13/viper"
)

// loadRegistry discovers handlers, warning about every unit that failed to load.
func loadRegistry() *registry.Registry {
	r, failures := registry.Load()
	for _, failure := range failures {
		log.Warn(failure)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", style.Fg(style.WarningColor)(icon.Get(icon.Warn)), failure)
	}
	return r
}

// locateTool resolves the configured capture tool.
func locateTool() (string, error) {
	return capture.Locate(viper.GetString(key.CaptureTool))
}

// captureWith adapts the orchestrator to the interactive interface.
// The tool is located for every capture, so installing it while the
// interface is open takes effect on the next attempt. Every capture gets
// its own copy so state callbacks never cross.
func captureWith(o *capture.Orchestrator, locate func() (string, error)) tui.CaptureFunc {
	return func(ctx context.Context, url string, onState func(capture.State)) capture.Result {
		tool, err := locate()
		if err != nil {
			log.With("url", url).Errorf("%v", err)
			onState(capture.Failed)
			return capture.ProcessSpawnError{Cause: err}
		}

		run := *o
		run.Tool = tool
		run.OnState = onState
		return run.Capture(ctx, url)
	}
}

// syncArchive pushes dir to its git remote using the configured commit message.
func syncArchive(ctx context.Context, dir string, onStep func(gitsync.Step)) error {
	snapshots, err := archive.List(dir)
	if err != nil {
		return err
	}

	message, err := gitsync.Message(viper.GetString(key.SyncCommitMessage), time.Now(), len(snapshots))
	if err != nil {
		return err
	}

	syncer := gitsync.New()
	syncer.OnStep = onStep
	return syncer.Sync(ctx, dir, message)
}
