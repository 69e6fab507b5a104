package capture

import (
	"testing"

	"github.com/pagevault/pagevault/filesystem"
	"github.com/pagevault/pagevault/handler"
	"github.com/pagevault/pagevault/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestBaseFlags(t *testing.T) {
	Convey("Base flags render in tool order", t, func() {
		flags := BaseFlags{
			DeferredImagesIdle: 2000,
			BrowserWidth:       1920,
			BrowserHeight:      1080,
			BrowserArgs:        []string{"--no-sandbox"},
		}
		So(flags.Args(), ShouldResemble, []string{
			"--block-scripts=false",
			"--load-deferred-images-max-idle-time=2000",
			"--browser-width=1920",
			"--browser-height=1080",
			`--browser-args=["--no-sandbox"]`,
		})
	})

	Convey("Empty browser args render as an empty list", t, func() {
		So(BaseFlags{}.Args()[4], ShouldEqual, "--browser-args=[]")
	})

	Convey("Flags are read from configuration", t, func() {
		viper.Set(key.CaptureDeferredImagesIdle, 3000)
		viper.Set(key.CaptureBlockScripts, true)
		defer viper.Set(key.CaptureDeferredImagesIdle, 2000)
		defer viper.Set(key.CaptureBlockScripts, false)

		flags := FlagsFromConfig()
		So(flags.DeferredImagesIdle, ShouldEqual, 3000)
		So(flags.BlockScripts, ShouldBeTrue)
	})
}

func TestAssemble(t *testing.T) {
	Convey("Given an invocation", t, func() {
		filesystem.SetMemMapFs()
		viper.Set(key.CaptureDefaultScript, "/config/local_fix.js")

		inv := Invocation{
			Tool:   "/usr/bin/single-file",
			URL:    "http://example.com",
			Title:  "Example",
			Output: "/archive/Example.html",
			Flags:  BaseFlags{BrowserArgs: []string{"--no-sandbox"}},
		}

		Convey("Without a handler the default applies and nothing is injected", func() {
			plan := Assemble(inv)
			So(plan.Argv[:3], ShouldResemble, []string{"/usr/bin/single-file", "http://example.com", "/archive/Example.html"})
			So(plan.Argv[3], ShouldEqual, "--block-scripts=false")
			So(plan.Script, ShouldBeEmpty)
			So(plan.Output, ShouldEqual, "/archive/Example.html")
		})

		Convey("The default script is injected once it exists", func() {
			So(filesystem.API().MkdirAll("/config", 0o755), ShouldBeNil)
			So(filesystem.API().WriteFile("/config/local_fix.js", []byte("void 0"), 0o644), ShouldBeNil)

			plan := Assemble(inv)
			So(plan.Argv[3], ShouldEqual, "--browser-script=/config/local_fix.js")
			So(plan.Script, ShouldEqual, "/config/local_fix.js")
		})

		Convey("A handler script that does not exist is ignored", func() {
			inv.Handler = &handler.Static{ID: "s", Script: "/missing.js"}
			plan := Assemble(inv)
			So(plan.Script, ShouldBeEmpty)
			for _, arg := range plan.Argv {
				So(arg, ShouldNotStartWith, "--browser-script=")
			}
		})

		Convey("Extra arguments follow the base flags in order", func() {
			inv.Handler = &handler.Static{ID: "s", Args: []string{"--b", "--a"}}
			plan := Assemble(inv)
			n := len(plan.Argv)
			So(plan.Argv[n-2:], ShouldResemble, []string{"--b", "--a"})
			So(plan.Argv[n-3], ShouldStartWith, "--browser-args=")
		})

		Convey("The prefix rewrites only the filename and forbidden characters are dropped", func() {
			inv.Handler = &handler.Static{ID: "s", Prefix: "a/b:"}
			plan := Assemble(inv)
			So(plan.Prefix, ShouldEqual, "ab")
			So(plan.Output, ShouldEqual, "/archive/abExample.html")
			So(plan.Argv[2], ShouldEqual, plan.Output)
		})
	})
}
