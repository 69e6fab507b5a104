// Package network provides pre-configured HTTP clients for talking to the pages being archived.
package network

import (
	"net/http"
	"time"
)

// Client is the shared plain HTTP client.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

// newTransport initializes a tuned http.Transport with pool and timeout parameters.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}

// BrowserClient returns a client whose TLS handshake mimics Chrome, bounded by timeout.
// Plain http:// requests go through the regular transport.
func BrowserClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: FingerprintTransport(),
	}
}
