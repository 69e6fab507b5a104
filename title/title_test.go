package title

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pagevault/pagevault/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func serve(contentType string, body []byte) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		_, _ = w.Write(body)
	}))
}

func TestFetch(t *testing.T) {
	Convey("Given a page with a title", t, func() {
		var userAgent string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userAgent = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><head><TITLE>\n  Hello World \n</TITLE></head></html>"))
		}))
		defer server.Close()

		Convey("The trimmed title is returned with a browser User-Agent", func() {
			got := New(5*time.Second).Fetch(context.Background(), server.URL)
			So(got.MustGet(), ShouldEqual, "Hello World")
			So(userAgent, ShouldEqual, constant.UserAgent)
		})
	})

	Convey("Given a latin-1 page declared in a meta tag", t, func() {
		server := serve("text/html", []byte(`<meta charset="iso-8859-1"><title>Caf`+"\xe9"+`</title>`))
		defer server.Close()

		Convey("The title is decoded with the sniffed charset", func() {
			got := New(5*time.Second).Fetch(context.Background(), server.URL)
			So(got.MustGet(), ShouldEqual, "Café")
		})
	})

	Convey("Given a page that answers too slowly", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
			}
			_, _ = w.Write([]byte("<title>late</title>"))
		}))
		defer server.Close()

		Convey("No title is returned", func() {
			got := New(100*time.Millisecond).Fetch(context.Background(), server.URL)
			So(got.IsAbsent(), ShouldBeTrue)
		})
	})

	Convey("Given a page without a title", t, func() {
		server := serve("text/html", []byte("<html><body>nothing</body></html>"))
		defer server.Close()

		Convey("No title is returned", func() {
			So(New(5*time.Second).Fetch(context.Background(), server.URL).IsAbsent(), ShouldBeTrue)
		})
	})

	Convey("Given an error status", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("<title>Forbidden</title>"))
		}))
		defer server.Close()

		Convey("No title is returned", func() {
			So(New(5*time.Second).Fetch(context.Background(), server.URL).IsAbsent(), ShouldBeTrue)
		})
	})

	Convey("Given an unreachable or malformed URL", t, func() {
		f := New(time.Second)
		So(f.Fetch(context.Background(), "http://127.0.0.1:1/").IsAbsent(), ShouldBeTrue)
		So(f.Fetch(context.Background(), "::not a url").IsAbsent(), ShouldBeTrue)
	})
}

func TestDetectCharset(t *testing.T) {
	Convey("DetectCharset", t, func() {
		Convey("Prefers the Content-Type parameter", func() {
			So(DetectCharset([]byte(`<meta charset="big5">`), "text/html; charset=Shift_JIS"), ShouldEqual, "shift_jis")
		})

		Convey("Falls back to a hint in the first 1024 bytes", func() {
			So(DetectCharset([]byte(`<meta http-equiv="Content-Type" content="text/html; charset=Big5">`), "text/html"), ShouldEqual, "big5")
		})

		Convey("Ignores non-ASCII bytes while sniffing", func() {
			So(DetectCharset([]byte("\xff\xfe<meta charset='gbk'>"), ""), ShouldEqual, "gbk")
		})

		Convey("Ignores hints past the first 1024 bytes", func() {
			body := make([]byte, 2000)
			for i := range body {
				body[i] = ' '
			}
			copy(body[1500:], `charset=big5`)
			So(DetectCharset(body, ""), ShouldEqual, "utf-8")
		})

		Convey("Defaults to utf-8", func() {
			So(DetectCharset([]byte("<html>"), ""), ShouldEqual, "utf-8")
		})
	})
}

func TestDecode(t *testing.T) {
	Convey("Decode", t, func() {
		Convey("Drops invalid utf-8 bytes", func() {
			s, err := Decode([]byte("ok\xffok"), "text/html; charset=utf-8")
			So(err, ShouldBeNil)
			So(s, ShouldEqual, "okok")
		})

		Convey("Rejects unknown charsets", func() {
			_, err := Decode([]byte("x"), "text/html; charset=klingon")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestExtract(t *testing.T) {
	Convey("Extract", t, func() {
		So(Extract("<title>a</title><title>b</title>").MustGet(), ShouldEqual, "a")
		So(Extract("<TiTlE>Multi\nLine</tItLe>").MustGet(), ShouldEqual, "Multi\nLine")
		So(Extract("<title>unterminated").IsAbsent(), ShouldBeTrue)
	})
}
