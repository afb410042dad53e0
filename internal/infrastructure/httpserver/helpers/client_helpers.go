package helpers

import (
	"net/http"
	"strings"
)

// ClientIP resolves the caller's address through the proxy header chain:
// Cloudflare first, then the first hop of X-Forwarded-For, then X-Real-IP.
// Unidentifiable clients share a single "unknown" bucket — availability is
// preferred over rejecting them outright.
func ClientIP(r *http.Request) string {
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		return ip
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, found := strings.Cut(fwd, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return "unknown"
}

// ClientGeo returns the country and city derived at the edge, when the
// request came through Cloudflare.
func ClientGeo(r *http.Request) (country, city string) {
	return r.Header.Get("CF-IPCountry"), r.Header.Get("CF-IPCity")
}
