package gitsync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pagevault/pagevault/capture"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

type scriptedRunner struct {
	exits map[string]int
	err   error
	calls [][]string
}

func (r *scriptedRunner) Run(_ context.Context, argv []string) (capture.Execution, error) {
	r.calls = append(r.calls, argv)
	if r.err != nil {
		return capture.Execution{}, r.err
	}
	return capture.Execution{ExitCode: r.exits[argv[3]], Stderr: "stderr of " + argv[3]}, nil
}

func commands(r *scriptedRunner) []string {
	return lo.Map(r.calls, func(argv []string, _ int) string { return argv[3] })
}

func TestSync(t *testing.T) {
	Convey("Given a repository where every command succeeds", t, func() {
		runner := &scriptedRunner{}
		var steps []string
		s := &Syncer{Runner: runner, OnStep: func(step Step) { steps = append(steps, step.Name) }}

		So(s.Sync(context.Background(), "/archive", "msg"), ShouldBeNil)

		Convey("All steps run in order inside the archive directory", func() {
			So(commands(runner), ShouldResemble, []string{"rev-parse", "add", "commit", "pull", "push"})
			So(steps, ShouldResemble, []string{"check", "add", "commit", "pull", "push"})
			So(runner.calls[2], ShouldResemble, []string{"git", "-C", "/archive", "commit", "-m", "msg"})
		})
	})

	Convey("Given nothing to commit", t, func() {
		runner := &scriptedRunner{exits: map[string]int{"commit": 1}}

		Convey("The sync still pulls and pushes", func() {
			So((&Syncer{Runner: runner}).Sync(context.Background(), "/archive", "msg"), ShouldBeNil)
			So(commands(runner), ShouldResemble, []string{"rev-parse", "add", "commit", "pull", "push"})
		})
	})

	Convey("Given a failing pull", t, func() {
		runner := &scriptedRunner{exits: map[string]int{"pull": 128}}
		err := (&Syncer{Runner: runner}).Sync(context.Background(), "/archive", "msg")

		Convey("The sync stops before pushing and reports the output", func() {
			var stepErr *StepError
			So(errors.As(err, &stepErr), ShouldBeTrue)
			So(stepErr.Step, ShouldEqual, "pull")
			So(stepErr.ExitCode, ShouldEqual, 128)
			So(stepErr.Output, ShouldEqual, "stderr of pull")
			So(commands(runner), ShouldNotContain, "push")
		})
	})

	Convey("Given git is not installed", t, func() {
		cause := errors.New("executable file not found")
		err := (&Syncer{Runner: &scriptedRunner{err: cause}}).Sync(context.Background(), "/archive", "msg")
		So(errors.Is(err, cause), ShouldBeTrue)
	})
}

func TestMessage(t *testing.T) {
	Convey("Message renders the template", t, func() {
		at := time.Date(2024, time.May, 6, 7, 8, 9, 0, time.UTC)

		msg, err := Message("Local Update {{ .Time }}", at, 3)
		So(err, ShouldBeNil)
		So(msg, ShouldEqual, "Local Update 2024-05-06 07:08:09")

		msg, err = Message("{{ .Count }} snapshots", at, 3)
		So(err, ShouldBeNil)
		So(msg, ShouldEqual, "3 snapshots")

		_, err = Message("{{ .Nope }}", at, 0)
		So(err, ShouldNotBeNil)

		_, err = Message("{{ .Time ", at, 0)
		So(err, ShouldNotBeNil)
	})
}
