package network

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBrowserClient(t *testing.T) {
	Convey("Given a plain http server", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, r.Header.Get("X-Probe"))
		}))
		defer server.Close()

		Convey("The browser client should reach it through the regular transport", func() {
			client := BrowserClient(5 * time.Second)
			req, err := http.NewRequest(http.MethodGet, server.URL, nil)
			So(err, ShouldBeNil)
			req.Header.Set("X-Probe", "ok")

			resp, err := client.Do(req)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			So(err, ShouldBeNil)
			So(string(body), ShouldEqual, "ok")
		})

		Convey("The timeout should be honored", func() {
			So(BrowserClient(3*time.Second).Timeout, ShouldEqual, 3*time.Second)
		})
	})
}
