package ratelimit

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientKeyPrefersFirstForwardedAddress(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/rewrite", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	r.RemoteAddr = "10.0.0.2:5555"

	require.Equal(t, "203.0.113.7", ClientKey(r))
}

func TestClientKeyFallsBackToPeerAddress(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/rewrite", nil)
	r.RemoteAddr = "192.0.2.9:41234"

	require.Equal(t, "192.0.2.9", ClientKey(r))
}

func TestClientKeyUnknownWhenUnattributable(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/rewrite", nil)
	r.RemoteAddr = ""

	require.Equal(t, "unknown", ClientKey(r))
}
