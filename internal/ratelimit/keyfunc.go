package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

// unknownClient buckets all unattributable clients together. Conservative
// on purpose: they share one window rather than each getting a fresh one.
const unknownClient = "unknown"

// ClientKey derives the rate-limit bucket for a request: the first value of
// X-Forwarded-For when present, otherwise the peer address, otherwise the
// shared unknown bucket.
func ClientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			if ip := strings.TrimSpace(parts[0]); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return unknownClient
}
