package util

import (
	"testing"

	"github.com/pagevault/pagevault/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSlugify(t *testing.T) {
	Convey("Slugify", t, func() {
		Convey("Should replace invalid chars", func() {
			So(Slugify("file:name?.txt"), ShouldEqual, "file_name_.txt")
		})
		Convey("Should collapse underscores", func() {
			So(Slugify("file__name.txt"), ShouldEqual, "file_name.txt")
		})
		Convey("Should trim separators", func() {
			So(Slugify("-file-name-"), ShouldEqual, "file-name")
		})
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "file", "files"), ShouldEqual, "1 file")
		So(Quantify(2, "file", "files"), ShouldEqual, "2 files")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("path/to/file.txt"), ShouldEqual, "file")
		So(FileStem("file"), ShouldEqual, "file")
	})
}

func TestMaxMin(t *testing.T) {
	Convey("Max/Min", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()

		Convey("Should remove a single file", func() {
			So(fs.MkdirAll("/tmp", 0o755), ShouldBeNil)
			So(fs.WriteFile("/tmp/a.html", []byte("x"), 0o644), ShouldBeNil)
			So(Delete("/tmp/a.html"), ShouldBeNil)
			exists, _ := fs.Exists("/tmp/a.html")
			So(exists, ShouldBeFalse)
		})

		Convey("Should remove a directory recursively", func() {
			So(fs.MkdirAll("/tmp/dir", 0o755), ShouldBeNil)
			So(fs.WriteFile("/tmp/dir/b.html", []byte("x"), 0o644), ShouldBeNil)
			So(Delete("/tmp/dir"), ShouldBeNil)
			exists, _ := fs.DirExists("/tmp/dir")
			So(exists, ShouldBeFalse)
		})

		Convey("Should fail for a missing path", func() {
			So(Delete("/tmp/missing"), ShouldNotBeNil)
		})
	})
}
