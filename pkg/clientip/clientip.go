package clientip

import (
	"net/http"
	"strings"
)

// Proxy headers checked in order of trust; the first usable value wins.
var headerKeys = []string{
	"X-Forwarded-For",
	"CF-Connecting-IP",
	"X-Real-IP",
	"Client-IP",
	"Fastly-Client-IP",
	"True-Client-IP",
	"X-Cluster-Client-IP",
	"X-Forwarded",
	"Forwarded-For",
	"Forwarded",
}

const fallback = "127.0.0.1"

// FromRequest resolves the client IP from proxy headers, falling back to the
// connection remote address. Comma-separated lists yield the first entry and
// the literal "unknown" is ignored.
func FromRequest(r *http.Request) string {
	for _, key := range headerKeys {
		value := r.Header.Get(key)
		if value == "" || strings.EqualFold(value, "unknown") {
			continue
		}
		ip := strings.TrimSpace(strings.Split(value, ",")[0])
		if ip != "" {
			return ip
		}
	}

	if r.RemoteAddr != "" {
		host := r.RemoteAddr
		if idx := strings.LastIndex(host, ":"); idx > 0 {
			host = host[:idx]
		}
		host = strings.Trim(host, "[]")
		if host != "" && !strings.EqualFold(host, "unknown") {
			return host
		}
	}

	return fallback
}
