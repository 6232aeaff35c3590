// Package proxyconfig holds the single default-proxy-URL cell described
// in SPEC_FULL.md §4.2. It is backed by atomic.Pointer so dispatch reads
// never block on, or are blocked by, an admin write — stale reads are
// acceptable per SPEC_FULL.md §5.
package proxyconfig

import (
	"fmt"
	"net/url"
	"sync/atomic"

	"github.com/mockbridge/mockd"
)

// Config is the current default proxy URL, or nil when unset.
type Config struct {
	cell atomic.Pointer[string]
}

// New returns an empty Config, optionally seeded with an initial URL
// (used at startup from CLI flag / environment variable, SPEC_FULL.md
// §4.10). An empty initial string leaves the Config unset.
func New(initial string) (*Config, error) {
	c := &Config{}
	if initial == "" {
		return c, nil
	}
	if err := c.Set(initial); err != nil {
		return nil, err
	}
	return c, nil
}

// Set validates and stores a new default proxy URL.
func (c *Config) Set(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return mockd.Invalid(fmt.Errorf("invalid proxy url %q", raw))
	}
	c.cell.Store(&raw)
	return nil
}

// Clear removes the default proxy URL.
func (c *Config) Clear() {
	c.cell.Store(nil)
}

// Get returns the current URL and whether one is set.
func (c *Config) Get() (string, bool) {
	p := c.cell.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}

// Enabled reports whether a default proxy URL is currently set.
func (c *Config) Enabled() bool {
	_, ok := c.Get()
	return ok
}

// Snapshot is the JSON-serializable view returned by GET /__mock/proxy.
type Snapshot struct {
	ProxyURL *string `json:"proxy_url"`
	Enabled  bool    `json:"enabled"`
}

// Snapshot captures the current state for the admin API.
func (c *Config) Snapshot() Snapshot {
	url, ok := c.Get()
	if !ok {
		return Snapshot{ProxyURL: nil, Enabled: false}
	}
	return Snapshot{ProxyURL: &url, Enabled: true}
}
