package netclient

import (
	"net/http"
	"testing"
	"time"
)

func TestNew_Proxy(t *testing.T) {
	c := New("http://proxy.local:8080", 5*time.Second)
	if c.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", c.Timeout)
	}
	tr := c.Transport.(*http.Transport)
	req, _ := http.NewRequest(http.MethodGet, "https://api.telegram.org", nil)
	u, err := tr.Proxy(req)
	if err != nil || u == nil || u.Host != "proxy.local:8080" {
		t.Errorf("unexpected proxy %v (%v)", u, err)
	}
}

func TestNew_NoProxy(t *testing.T) {
	c := New("", DefaultTimeout)
	if tr := c.Transport.(*http.Transport); tr.Proxy != nil {
		t.Error("proxy should be unset")
	}
}
