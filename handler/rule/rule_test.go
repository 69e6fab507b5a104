package rule

import (
	"testing"

	"github.com/pagevault/pagevault/filesystem"
	"github.com/pagevault/pagevault/handler"
	. "github.com/smartystreets/goconvey/convey"
)

func write(path, content string) {
	So(filesystem.API().MkdirAll("/handlers", 0o755), ShouldBeNil)
	So(filesystem.API().WriteFile(path, []byte(content), 0o644), ShouldBeNil)
}

func TestLoad(t *testing.T) {
	Convey("Given an in-memory handlers directory", t, func() {
		filesystem.SetMemMapFs()

		Convey("A rule file with globs, substrings and a prefix template loads", func() {
			write("/handlers/example.yaml", `
name: example
priority: 10
match: ["*://*.example.org/*"]
contains: ["example.com"]
script: example.js
arguments: ["--load-deferred-images-max-idle-time=5000"]
prefix: "[{{ .Host }}]-"
`)
			handlers, err := Load("/handlers/example.yaml")
			So(err, ShouldBeNil)
			So(handlers, ShouldHaveLength, 1)

			h := handlers[0]
			So(h.Name(), ShouldEqual, "example")
			So(h.Priority(), ShouldEqual, 10)
			So(h.Matches("http://example.com/page"), ShouldBeTrue)
			So(h.Matches("https://www.example.org/a/b"), ShouldBeTrue)
			So(h.Matches("https://other.net/"), ShouldBeFalse)
			So(h.InjectedScript().MustGet(), ShouldEqual, "/handlers/example.js")
			So(h.ExtraArguments(), ShouldResemble, []string{"--load-deferred-images-max-idle-time=5000"})
			So(h.FilenamePrefix("http://example.com/page", "T"), ShouldEqual, "[example.com]-")
			So(h.(handler.Sourced).Origin(), ShouldEqual, handler.OriginRule)
		})

		Convey("Several documents become several handlers", func() {
			write("/handlers/multi.yml", `
contains: ["a.com"]
---
contains: ["b.com"]
priority: 5
`)
			handlers, err := Load("/handlers/multi.yml")
			So(err, ShouldBeNil)
			So(handlers, ShouldHaveLength, 2)
			So(handlers[0].Name(), ShouldEqual, "multi")
			So(handlers[0].Priority(), ShouldEqual, handler.UnitPriority)
			So(handlers[1].Name(), ShouldEqual, "multi-1")
			So(handlers[1].Priority(), ShouldEqual, 5)
		})

		Convey("A rule without any matcher is rejected", func() {
			write("/handlers/empty.yaml", `name: empty`)
			_, err := Load("/handlers/empty.yaml")
			So(err, ShouldNotBeNil)
		})

		Convey("Unknown fields are rejected", func() {
			write("/handlers/typo.yaml", `contians: ["x"]`)
			_, err := Load("/handlers/typo.yaml")
			So(err, ShouldNotBeNil)
		})

		Convey("An invalid glob is rejected", func() {
			write("/handlers/glob.yaml", `match: ["[unclosed"]`)
			_, err := Load("/handlers/glob.yaml")
			So(err, ShouldNotBeNil)
		})

		Convey("An invalid prefix template is rejected", func() {
			write("/handlers/tmpl.yaml", `contains: ["x"]
prefix: "{{ .Host "`)
			_, err := Load("/handlers/tmpl.yaml")
			So(err, ShouldNotBeNil)
		})

		Convey("An empty file is rejected", func() {
			write("/handlers/blank.yaml", ``)
			_, err := Load("/handlers/blank.yaml")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestPrefixRendering(t *testing.T) {
	Convey("A prefix referencing an unknown field renders empty", t, func() {
		h, err := Compile(Spec{Contains: []string{"x"}, Prefix: "{{ .Missing }}"}, "/h/r.yaml", 0)
		So(err, ShouldBeNil)
		So(h.FilenamePrefix("http://x", "t"), ShouldBeEmpty)
	})

	Convey("The title is available to the template", t, func() {
		h, err := Compile(Spec{Contains: []string{"x"}, Prefix: "{{ .Title }} - "}, "/h/r.yaml", 0)
		So(err, ShouldBeNil)
		So(h.FilenamePrefix("http://x", "News"), ShouldEqual, "News - ")
	})
}
