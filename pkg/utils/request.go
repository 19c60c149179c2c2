// Package utils provides small request-handling helpers shared by the HTTP
// boundary and the token service.
package utils

import (
	"net/http"
	"strings"

	"github.com/linegroup/authcore/pkg/constants"
)

// StripBearer removes an optional "Bearer " scheme prefix from a raw
// Authorization value. The comparison is case-insensitive, and surrounding
// whitespace is trimmed either way.
func StripBearer(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= len(constants.BearerPrefix) &&
		strings.EqualFold(raw[:len(constants.BearerPrefix)], constants.BearerPrefix) {
		return strings.TrimSpace(raw[len(constants.BearerPrefix):])
	}
	return raw
}

// proxyHeaders is the resolution order for the originating client address
// when the service sits behind one or more proxies.
var proxyHeaders = []string{"X-Forwarded-For", "Proxy-Client-IP", "WL-Proxy-Client-IP"}

// ClientIP resolves the originating client address of a request. Forwarding
// headers are consulted in order; a comma-separated chain yields its first
// entry. Falls back to the transport peer address.
func ClientIP(r *http.Request) string {
	for _, header := range proxyHeaders {
		ip := strings.TrimSpace(r.Header.Get(header))
		if ip == "" || strings.EqualFold(ip, "unknown") {
			continue
		}
		if idx := strings.IndexByte(ip, ','); idx >= 0 {
			ip = strings.TrimSpace(ip[:idx])
		}
		return ip
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndexByte(addr, ':'); idx >= 0 {
		// Strip the port, tolerating bracketed IPv6 literals.
		host := addr[:idx]
		host = strings.TrimPrefix(host, "[")
		host = strings.TrimSuffix(host, "]")
		return host
	}
	return addr
}
