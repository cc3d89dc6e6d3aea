package mw

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP resolves the caller address. Proxy headers are only honoured
// when trustProxy is set, X-Forwarded-For (left-most) first, then X-Real-IP.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := hostOnly(strings.TrimSpace(first)); ip != "" {
				return ip
			}
		}
		if ip := hostOnly(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != "" {
			return ip
		}
	}
	return hostOnly(r.RemoteAddr)
}

// hostOnly strips the port from "ip:port" and "[v6]:port".
func hostOnly(s string) string {
	if h, _, err := net.SplitHostPort(s); err == nil {
		return h
	}
	return s
}
