// Package title fetches the <title> of a remote page to name its snapshot.
//
// Fetching is best effort: every failure yields no title, which only costs
// the snapshot a descriptive filename.
package title

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pagevault/pagevault/constant"
	"github.com/pagevault/pagevault/log"
	"github.com/pagevault/pagevault/network"
	"github.com/samber/mo"
	"golang.org/x/net/html/charset"
)

const (
	// sniffLength bounds the prefix scanned for a charset hint.
	sniffLength = 1024

	// maxBody bounds how much of the page is read looking for a title.
	maxBody = 4 << 20
)

var (
	charsetPattern = regexp.MustCompile(`(?i)charset=["']?([\w-]+)`)
	titlePattern   = regexp.MustCompile(`(?is)<title>(.*?)</title>`)
)

// Fetcher retrieves page titles.
type Fetcher struct {
	Client  *http.Client
	Timeout time.Duration
}

// New returns a Fetcher using the browser-fingerprinted client.
func New(timeout time.Duration) *Fetcher {
	return &Fetcher{
		Client:  network.BrowserClient(timeout),
		Timeout: timeout,
	}
}

// Fetch issues a single GET and extracts the first title. It never returns an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) mo.Option[string] {
	t, err := f.fetch(ctx, url)
	if err != nil {
		log.Warnf("title fetch failed for %s, a timestamped name will be used: %v", url, err)
		return mo.None[string]()
	}
	return t
}

func (f *Fetcher) fetch(ctx context.Context, url string) (mo.Option[string], error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return mo.None[string](), err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	client := f.Client
	if client == nil {
		client = network.Client
	}

	resp, err := client.Do(req)
	if err != nil {
		return mo.None[string](), err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return mo.None[string](), fmt.Errorf("unexpected status %s", resp.Status)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return mo.None[string](), err
	}

	html, err := Decode(content, resp.Header.Get("Content-Type"))
	if err != nil {
		return mo.None[string](), err
	}

	return Extract(html), nil
}

// DetectCharset resolves the charset of content: the Content-Type parameter
// first, then a charset= hint in the first 1024 bytes, then utf-8.
func DetectCharset(content []byte, contentType string) string {
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		if cs := strings.TrimSpace(params["charset"]); cs != "" {
			return strings.ToLower(cs)
		}
	}

	head := content
	if len(head) > sniffLength {
		head = head[:sniffLength]
	}

	if match := charsetPattern.FindSubmatch([]byte(asciiOnly(head))); match != nil {
		return strings.ToLower(string(match[1]))
	}

	return "utf-8"
}

// asciiOnly decodes b as ASCII, dropping every byte outside it.
func asciiOnly(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c < utf8.RuneSelf {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// Decode converts content to UTF-8 using the detected charset.
// Undecodable bytes are dropped; an unknown charset is an error.
func Decode(content []byte, contentType string) (string, error) {
	name := DetectCharset(content, contentType)

	enc, canonical := charset.Lookup(name)
	if enc == nil {
		return "", fmt.Errorf("unknown charset %q", name)
	}

	if canonical == "utf-8" {
		return strings.ToValidUTF8(string(content), ""), nil
	}

	decoded, err := enc.NewDecoder().Bytes(content)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", canonical, err)
	}
	return strings.ToValidUTF8(string(decoded), ""), nil
}

// Extract returns the trimmed text of the first <title> element, matched case-insensitively across newlines.
func Extract(html string) mo.Option[string] {
	match := titlePattern.FindStringSubmatch(html)
	if match == nil {
		return mo.None[string]()
	}
	return mo.Some(strings.TrimSpace(match[1]))
}
