// Package netclient builds the HTTP clients shared by the data fetchers and
// the Telegram notifier.
package netclient

import (
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds a single request to a data or bot API.
const DefaultTimeout = 30 * time.Second

// New returns a client with the given timeout. A non-empty proxyURL routes
// every request through that proxy; an unparseable one is ignored.
func New(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
