package where

import (
	"path/filepath"
	"testing"

	"github.com/pagevault/pagevault/constant"
	"github.com/pagevault/pagevault/filesystem"
	"github.com/pagevault/pagevault/key"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	// Use in-memory filesystem for tests to avoid creating real directories
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Cache()", func() {
			path := Cache()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Logs()", func() {
			path := Logs()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Handlers() lives under Config()", func() {
			So(filepath.Dir(Handlers()), ShouldEqual, Config())
		})

		Convey("DefaultScript()", func() {
			Convey("Defaults to the config directory", func() {
				viper.Set(key.CaptureDefaultScript, "")
				So(DefaultScript(), ShouldEqual, filepath.Join(Config(), constant.DefaultScriptName))
			})

			Convey("Honors the configured override", func() {
				viper.Set(key.CaptureDefaultScript, "/opt/fix.js")
				defer viper.Set(key.CaptureDefaultScript, "")
				So(DefaultScript(), ShouldEqual, "/opt/fix.js")
			})
		})

		Convey("Archive() honors the configured path", func() {
			viper.Set(key.ArchivePath, "/srv/snapshots")
			defer viper.Set(key.ArchivePath, "")
			So(Archive(), ShouldEqual, filepath.Clean("/srv/snapshots"))
			So(lo.Must(filesystem.API().IsDir(Archive())), ShouldBeTrue)
		})
	})
}
