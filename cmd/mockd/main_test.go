package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(nil, func(string) string { return "" })
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.host)
	assert.Equal(t, 8090, cfg.port)
	assert.Empty(t, cfg.defaultProxyURL)
	assert.Empty(t, cfg.openAPIFile)
}

func TestParseConfigEnvFallback(t *testing.T) {
	env := map[string]string{"DEFAULT_PROXY_URL": "http://env-upstream", "OPENAPI_FILE": "/tmp/spec.yaml"}
	cfg, err := parseConfig(nil, func(k string) string { return env[k] })
	require.NoError(t, err)
	assert.Equal(t, "http://env-upstream", cfg.defaultProxyURL)
	assert.Equal(t, "/tmp/spec.yaml", cfg.openAPIFile)
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	env := map[string]string{"DEFAULT_PROXY_URL": "http://env-upstream"}
	cfg, err := parseConfig([]string{"--default-proxy-url=http://flag-upstream", "--port=9000"}, func(k string) string { return env[k] })
	require.NoError(t, err)
	assert.Equal(t, "http://flag-upstream", cfg.defaultProxyURL)
	assert.Equal(t, 9000, cfg.port)
}
