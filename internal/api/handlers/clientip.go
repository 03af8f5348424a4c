package handlers

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP извлекает адрес клиента с учетом reverse proxy
// Порядок: X-Forwarded-For (первый адрес), X-Real-IP, RemoteAddr
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
