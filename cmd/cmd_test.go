package cmd

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pagevault/pagevault/capture"
	"github.com/pagevault/pagevault/constant"
	"github.com/pagevault/pagevault/filesystem"
	"github.com/pagevault/pagevault/handler"
	"github.com/pagevault/pagevault/history"
	"github.com/pagevault/pagevault/registry"
	"github.com/pagevault/pagevault/where"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCaptureReport(t *testing.T) {
	Convey("Given every kind of capture result", t, func() {
		Convey("Success reports the final path", func() {
			r := newCaptureReport("http://x", capture.Success{FinalPath: "/a/x.html"})
			So(r.Outcome, ShouldEqual, history.OutcomeSuccess)
			So(r.Path, ShouldEqual, "/a/x.html")
			So(r.Error, ShouldBeEmpty)
			So(r.ExitCode, ShouldBeNil)
		})

		Convey("A tool error reports the exit code and output", func() {
			r := newCaptureReport("http://x", capture.ToolError{ExitCode: 3, Stderr: "boom", Stdout: "log"})
			So(r.Outcome, ShouldEqual, history.OutcomeToolError)
			So(*r.ExitCode, ShouldEqual, 3)
			So(r.Output, ShouldEqual, "boom\nlog")
		})

		Convey("A verification failure reports the expected path", func() {
			r := newCaptureReport("http://x", capture.VerificationFailure{ExpectedPath: "/a/x.html"})
			So(r.Outcome, ShouldEqual, history.OutcomeVerification)
			So(r.Path, ShouldEqual, "/a/x.html")
			So(r.Error, ShouldContainSubstring, "not created")
		})

		Convey("A spawn error reports its cause", func() {
			r := newCaptureReport("http://x", capture.ProcessSpawnError{Cause: errors.New("permission denied")})
			So(r.Outcome, ShouldEqual, history.OutcomeSpawnError)
			So(r.Error, ShouldContainSubstring, "permission denied")
		})
	})
}

type recordingResolver struct{}

func (recordingResolver) Resolve(string) handler.Selection { return handler.None() }

func TestCaptureWith(t *testing.T) {
	Convey("Given an orchestrator shared by the interface", t, func() {
		base := &capture.Orchestrator{
			Tool:     "single-file",
			Dir:      t.TempDir(),
			Registry: recordingResolver{},
			Runner:   failingRunner{},
		}
		found := func() (string, error) { return "single-file", nil }
		run := captureWith(base, found)

		Convey("Each capture reports its own states and leaves the base untouched", func() {
			var states []capture.State
			result := run(context.Background(), "http://x", func(s capture.State) { states = append(states, s) })

			So(capture.IsSuccess(result), ShouldBeFalse)
			So(states, ShouldNotBeEmpty)
			So(states[len(states)-1], ShouldEqual, capture.Failed)
			So(base.OnState, ShouldBeNil)
		})
	})
}

func TestCaptureWithMissingTool(t *testing.T) {
	Convey("Given a capture tool that cannot be found", t, func() {
		runner := &countingRunner{}
		base := &capture.Orchestrator{Dir: t.TempDir(), Registry: recordingResolver{}, Runner: runner}
		missing := &capture.ToolMissingError{Searched: []string{"single-file"}, Hint: "npm install -g single-file-cli"}
		installed := false
		locate := func() (string, error) {
			if installed {
				return "single-file", nil
			}
			return "", missing
		}
		run := captureWith(base, locate)

		Convey("The capture fails with the install hint instead of exiting", func() {
			var states []capture.State
			result := run(context.Background(), "http://x", func(s capture.State) { states = append(states, s) })

			So(result, ShouldHaveSameTypeAs, capture.ProcessSpawnError{})
			So(result.String(), ShouldContainSubstring, "npm install -g single-file-cli")
			So(states, ShouldResemble, []capture.State{capture.Failed})
			So(runner.calls, ShouldEqual, 0)

			Convey("and the next capture finds a tool installed meanwhile", func() {
				installed = true
				run(context.Background(), "http://x", func(capture.State) {})
				So(runner.calls, ShouldEqual, 1)
			})
		})
	})
}

type countingRunner struct{ calls int }

func (r *countingRunner) Run(context.Context, []string) (capture.Execution, error) {
	r.calls++
	return capture.Execution{}, errors.New("no such file")
}

type failingRunner struct{}

func (failingRunner) Run(context.Context, []string) (capture.Execution, error) {
	return capture.Execution{}, errors.New("no such file")
}

func TestErrUnknownHandler(t *testing.T) {
	Convey("Given a registry with handlers", t, func() {
		r := registry.New()
		r.Register(
			&handler.Static{ID: "news", Contains: []string{"news"}},
			&handler.Static{ID: "wiki", Contains: []string{"wiki"}},
		)

		Convey("The closest name is suggested", func() {
			So(errUnknownHandler("nwes", r).Error(), ShouldContainSubstring, "news")
		})

		Convey("An empty registry says so", func() {
			So(errUnknownHandler("x", registry.New()).Error(), ShouldContainSubstring, "no handlers")
		})
	})
}

func TestMissingToolBox(t *testing.T) {
	Convey("The missing tool box names the install command", t, func() {
		box := missingToolBox(&capture.ToolMissingError{Searched: []string{"single-file"}, Hint: "npm install -g single-file-cli"})
		So(box, ShouldContainSubstring, "npm install -g single-file-cli")
		So(box, ShouldContainSubstring, "single-file")
	})
}

func TestOrigin(t *testing.T) {
	Convey("Compiled-in handlers report the builtin origin", t, func() {
		o, path := origin(handler.Default)
		So(o, ShouldEqual, handler.OriginBuiltin)
		So(path, ShouldBeEmpty)
	})
}

func TestWhereStatus(t *testing.T) {
	Convey("Given an empty filesystem", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()

		Convey("The default script reports whether it is the bundled one", func() {
			So(scriptStatus("/config/local_fix.js"), ShouldStartWith, "missing")

			So(fs.WriteFile("/config/local_fix.js", []byte(constant.DefaultScriptContent), 0o644), ShouldBeNil)
			So(scriptStatus("/config/local_fix.js"), ShouldEqual, "bundled")

			So(fs.WriteFile("/config/local_fix.js", []byte("// mine"), 0o644), ShouldBeNil)
			So(scriptStatus("/config/local_fix.js"), ShouldEqual, "customized")
		})

		Convey("The archive reports whether sync can run", func() {
			So(archiveStatus("/archive"), ShouldStartWith, "not a git repository")
			So(fs.MkdirAll(filepath.Join("/archive", ".git"), 0o755), ShouldBeNil)
			So(archiveStatus("/archive"), ShouldStartWith, "git repository")
		})

		Convey("The handlers directory counts units without the marker", func() {
			So(handlersStatus("/handlers"), ShouldStartWith, "not created yet")

			So(fs.WriteFile(filepath.Join("/handlers", constant.HandlerInitFilename), []byte(""), 0o644), ShouldBeNil)
			So(fs.WriteFile(filepath.Join("/handlers", "news.lua"), []byte(""), 0o644), ShouldBeNil)
			So(fs.WriteFile(filepath.Join("/handlers", "wiki.lua"), []byte(""), 0o644), ShouldBeNil)
			So(handlersStatus("/handlers"), ShouldEqual, "2 units")
		})
	})
}

func TestEnvVariables(t *testing.T) {
	Convey("Supported environment variables", t, func() {
		variables := envVariables()

		Convey("Start with the config directory override", func() {
			So(variables[0].name, ShouldEqual, where.EnvConfigPath)
		})

		Convey("Carry the default each field variable overrides", func() {
			width, ok := lo.Find(variables, func(v envVariable) bool { return v.name == "PAGEVAULT_CAPTURE_BROWSER_WIDTH" })
			So(ok, ShouldBeTrue)
			So(width.fallback, ShouldEqual, "1920")
		})

		Convey("Are listed once however often they are built", func() {
			So(envVariables(), ShouldHaveLength, len(variables))
		})
	})
}
