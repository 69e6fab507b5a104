// Package capture turns a URL into a verified snapshot by driving the external single-file tool.
//
// A capture walks through TitleResolving, HandlerResolving,
// ArgumentsAssembling, Executing and Verifying before ending in Succeeded or
// Failed. Success is strict: the tool must exit with 0 and the snapshot must
// exist at the final path. There are no retries.
package capture

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pagevault/pagevault/filename"
	"github.com/pagevault/pagevault/filesystem"
	"github.com/pagevault/pagevault/handler"
	"github.com/pagevault/pagevault/history"
	"github.com/pagevault/pagevault/key"
	"github.com/pagevault/pagevault/log"
	"github.com/pagevault/pagevault/title"
	"github.com/pagevault/pagevault/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Resolver selects the handler for a URL.
type Resolver interface {
	Resolve(url string) handler.Selection
}

// TitleFetcher retrieves a page title on a best-effort basis.
type TitleFetcher interface {
	Fetch(ctx context.Context, url string) mo.Option[string]
}

// Orchestrator runs captures. It holds no per-capture state, so one value
// may serve concurrent captures as long as OnState tolerates that.
type Orchestrator struct {
	// Tool is the resolved capture tool executable.
	Tool string
	// Dir is the archive directory snapshots are written to.
	Dir string

	Registry Resolver
	Titles   TitleFetcher
	Runner   Runner
	Flags    BaseFlags

	// Reserve creates the target file exclusively before running the tool.
	Reserve bool
	// Record saves every outcome to history.
	Record bool

	Now     func() time.Time
	OnState func(State)
}

// New returns an Orchestrator configured from the application settings.
func New(tool string, registry Resolver) *Orchestrator {
	timeout := time.Duration(viper.GetInt(key.CaptureTitleTimeout)) * time.Second

	if err := handler.EnsureDefaultScript(); err != nil {
		log.Warnf("write default script: %v", err)
	}

	return &Orchestrator{
		Tool:     tool,
		Dir:      where.Archive(),
		Registry: registry,
		Titles:   title.New(timeout),
		Runner:   ExecRunner{},
		Flags:    FlagsFromConfig(),
		Reserve:  viper.GetBool(key.CaptureReserveFilename),
		Record:   viper.GetBool(key.HistorySave),
		Now:      time.Now,
	}
}

func (o *Orchestrator) enter(state State) {
	if o.OnState != nil {
		o.OnState(state)
	}
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o *Orchestrator) exists(name string) bool {
	exists, err := filesystem.API().Exists(filepath.Join(o.Dir, name))
	return err == nil && exists
}

// Capture saves url as a snapshot in the archive directory.
func (o *Orchestrator) Capture(ctx context.Context, url string) Result {
	id := uuid.NewString()
	logger := log.With("request", id).With("url", url)
	started := o.now()

	o.enter(TitleResolving)
	pageTitle := mo.None[string]()
	if o.Titles != nil {
		pageTitle = o.Titles.Fetch(ctx, url)
	}

	name := filename.Resolve(pageTitle, started, o.exists)

	o.enter(HandlerResolving)
	selection := handler.None()
	if o.Registry != nil {
		selection = o.Registry.Resolve(url)
	}
	h := selection.Handler()
	logger.Infof("handler %q selected (%s)", h.Name(), selection.Kind())

	o.enter(ArgumentsAssembling)
	invocation := Invocation{
		Tool:    o.Tool,
		URL:     url,
		Title:   pageTitle.OrEmpty(),
		Output:  filepath.Join(o.Dir, name),
		Handler: h,
		Flags:   o.Flags,
	}
	reserved := false
	if o.Reserve {
		invocation, reserved = o.reserve(logger, invocation, pageTitle, started)
	}
	invocation.Flags.Overwrite = reserved

	plan := Assemble(invocation)
	logger.Infof("saving as %s", plan.Output)
	logger.Debugf("command line %q", plan.Argv)

	o.enter(Executing)
	result := o.execute(ctx, plan, reserved)

	if !IsSuccess(result) && reserved {
		if err := filesystem.API().Remove(plan.Output); err != nil && !os.IsNotExist(err) {
			logger.Warnf("remove reserved file: %v", err)
		}
	}

	if IsSuccess(result) {
		logger.Infof("%s", result)
		o.enter(Succeeded)
	} else {
		logger.Errorf("%s", result)
		o.enter(Failed)
	}

	if o.Record {
		o.record(logger, &history.Record{
			ID:      id,
			URL:     url,
			Handler: h.Name(),
			Path:    plan.Output,
			Outcome: result.Outcome(),
			At:      started,
		})
	}

	return result
}

func (o *Orchestrator) execute(ctx context.Context, plan Plan, reserved bool) Result {
	runner := o.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	before, _ := filesystem.API().Stat(plan.Output)

	execution, err := runner.Run(ctx, plan.Argv)
	if err != nil {
		return ProcessSpawnError{Cause: err}
	}

	if execution.ExitCode != 0 {
		return ToolError{
			ExitCode: execution.ExitCode,
			Stderr:   execution.Stderr,
			Stdout:   execution.Stdout,
		}
	}

	o.enter(Verifying)
	if verify(plan.Output, before, reserved) {
		return Success{FinalPath: plan.Output}
	}
	return VerificationFailure{ExpectedPath: plan.Output}
}

// verify reports whether the snapshot exists as a regular file written by this run.
// A file that was already there counts only if the run changed it, and a
// reserved file must also be non-empty.
func verify(path string, before os.FileInfo, reserved bool) bool {
	info, err := filesystem.API().Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	if reserved {
		return info.Size() > 0
	}

	if before != nil && before.Mode().IsRegular() {
		return !info.ModTime().Equal(before.ModTime()) || info.Size() != before.Size()
	}
	return true
}

// reserveAttempts bounds the names tried when reserving.
const reserveAttempts = 10

// reserve creates the target file exclusively. Taken names are followed by
// the timestamped name and then numbered variants of it, so every attempt
// uses a different name. When nothing can be reserved the capture proceeds
// unreserved on the original name.
func (o *Orchestrator) reserve(logger log.Scoped, inv Invocation, pageTitle mo.Option[string], at time.Time) (Invocation, bool) {
	taken := func(string) bool { return true }
	stamped := filepath.Join(o.Dir, filename.Resolve(pageTitle, at, taken))

	candidates := lo.Uniq([]string{inv.Output, stamped})
	for n := 2; len(candidates) < reserveAttempts; n++ {
		candidates = append(candidates, filename.Numbered(stamped, n))
	}

	for _, candidate := range candidates {
		attempt := inv
		attempt.Output = candidate
		target := Assemble(attempt).Output

		err := create(target)
		if err == nil {
			return attempt, true
		}

		if !os.IsExist(err) {
			logger.Warnf("reserve %s: %v", target, err)
			return inv, false
		}
		logger.Debugf("%s is taken", target)
	}

	logger.Warnf("no free name after %d attempts, proceeding unreserved", len(candidates))
	return inv, false
}

func create(path string) error {
	f, err := filesystem.API().OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

func (o *Orchestrator) record(logger log.Scoped, record *history.Record) {
	if err := history.Save(record); err != nil {
		logger.Warnf("save history: %v", err)
	}
}
