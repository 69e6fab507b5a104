package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/pagevault/pagevault/filesystem"
	"github.com/pagevault/pagevault/handler"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInstall(t *testing.T) {
	Convey("Given a server hosting handler units", t, func() {
		filesystem.SetMemMapFs()

		units := map[string]string{
			"/units/news.yaml":   "contains: [\"news.example\"]\n",
			"/units/broken.lua":  "function Match(url) return (",
			"/units/readme.txt":  "text",
			"/units/_hidden.lua": "function Match(url) return true end",
		}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, ok := units[r.URL.Path]
			if !ok {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte(body))
		}))
		defer server.Close()

		r := New()
		ctx := context.Background()

		Convey("A valid unit is installed and then reported unchanged", func() {
			installed, err := r.Install(ctx, server.Client(), server.URL+"/units/news.yaml", dir)
			So(err, ShouldBeNil)
			So(installed.Changed, ShouldBeTrue)
			So(installed.Path, ShouldEqual, filepath.Join(dir, "news.yaml"))

			again, err := r.Install(ctx, server.Client(), server.URL+"/units/news.yaml", dir)
			So(err, ShouldBeNil)
			So(again.Changed, ShouldBeFalse)

			So(r.Discover(dir), ShouldBeEmpty)
			So(r.Resolve("http://news.example/a").Handler().Name(), ShouldEqual, "news")
		})

		Convey("An invalid unit leaves nothing behind", func() {
			_, err := r.Install(ctx, server.Client(), server.URL+"/units/broken.lua", dir)
			So(err, ShouldNotBeNil)

			entries, err := filesystem.API().ReadDir(dir)
			So(err, ShouldBeNil)
			for _, entry := range entries {
				So(entry.Name(), ShouldNotContainSubstring, "broken")
			}
		})

		Convey("Handlers built only to validate a download are released", func() {
			validated := &closingHandler{Static: &handler.Static{ID: "news", Contains: []string{"news"}}}
			r.RegisterLoader(".yaml", func(string) ([]handler.Handler, error) {
				return []handler.Handler{validated}, nil
			})

			_, err := r.Install(ctx, server.Client(), server.URL+"/units/news.yaml", dir)
			So(err, ShouldBeNil)
			So(validated.closed, ShouldBeTrue)
		})

		Convey("Unknown extensions, reserved names and missing files are rejected", func() {
			_, err := r.Install(ctx, server.Client(), server.URL+"/units/readme.txt", dir)
			So(err, ShouldNotBeNil)
			_, err = r.Install(ctx, server.Client(), server.URL+"/units/_hidden.lua", dir)
			So(err, ShouldNotBeNil)
			_, err = r.Install(ctx, server.Client(), server.URL+"/units/missing.lua", dir)
			So(err, ShouldNotBeNil)
			_, err = r.Install(ctx, server.Client(), "file:///etc/passwd.lua", dir)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestUnitName(t *testing.T) {
	Convey("Unit names come from the last URL path segment", t, func() {
		name, err := unitName("https://example.com/units/news.lua?raw=1")
		So(err, ShouldBeNil)
		So(name, ShouldEqual, "news.lua")

		Convey("Backslashes never reach the file system", func() {
			_, err := unitName(`https://example.com/units/..\..\evil.lua`)
			So(err, ShouldNotBeNil)
			_, err = unitName("https://example.com/units/..%5Cevil.lua")
			So(err, ShouldNotBeNil)
		})

		Convey("Directory names are not units", func() {
			_, err := unitName("https://example.com/units/..")
			So(err, ShouldNotBeNil)
			_, err = unitName("https://example.com/")
			So(err, ShouldNotBeNil)
		})
	})
}
