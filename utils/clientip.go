package utils

import (
	"net/http"
	"strings"
)

var forwardedHeaders = []string{
	"X-Forwarded-For",
	"X-Real-IP",
	"Proxy-Client-IP",
	"WL-Proxy-Client-IP",
	"HTTP_X_FORWARDED_FOR",
	"HTTP_X_FORWARDED",
	"HTTP_X_CLUSTER_CLIENT_IP",
	"HTTP_CLIENT_IP",
	"HTTP_FORWARDED_FOR",
	"HTTP_FORWARDED",
}

// ClientIP returns the first address found in the proxy headers, or
// fallback (normally the remote address) when none is set.
func ClientIP(h http.Header, fallback string) string {
	for _, name := range forwardedHeaders {
		ip := h.Get(name)
		if ip == "" || strings.EqualFold(ip, "unknown") {
			continue
		}
		return strings.TrimSpace(strings.Split(ip, ",")[0])
	}
	return fallback
}
