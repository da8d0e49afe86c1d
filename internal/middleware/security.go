package middleware

import (
	"net/http"
	"strings"
)

// Response headers browsers may read cross-origin: request correlation and
// rate-limit state.
var exposedHeaders = strings.Join([]string{
	RequestIDHeader,
	"X-RateLimit-Limit",
	"X-RateLimit-Remaining",
	"Retry-After",
}, ",")

// corsPolicy is the parsed CORS_ALLOWED_ORIGINS value.
type corsPolicy struct {
	any     bool
	origins map[string]struct{}
}

// parseOrigins reads a comma-separated origin list. Empty or "*" allows any
// origin, without credentials.
func parseOrigins(list string) corsPolicy {
	p := corsPolicy{origins: map[string]struct{}{}}
	for _, origin := range strings.Split(list, ",") {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		switch origin {
		case "":
		case "*":
			p.any = true
		default:
			p.origins[origin] = struct{}{}
		}
	}
	if len(p.origins) == 0 {
		p.any = true
	}
	return p
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin, or
// "" when the origin is not allowed.
func (p corsPolicy) allowOrigin(origin string) string {
	if _, ok := p.origins[origin]; ok {
		return origin
	}
	if p.any {
		return "*"
	}
	return ""
}

// CORSMiddleware lets the web UI call the credential API from configured
// origins. Preflight requests are answered here.
func CORSMiddleware(allowedOrigins string) func(http.Handler) http.Handler {
	policy := parseOrigins(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := ""
			if origin != "" {
				allowed = policy.allowOrigin(origin)
			}
			if allowed == "" {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allowed)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Expose-Headers", exposedHeaders)
			if allowed != "*" {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type,"+RequestIDHeader)
				h.Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders locks down JSON responses. Bodies may carry generated
// passwords and hashes, so nothing is cached or framed.
func SecurityHeaders(enableHSTS bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			if enableHSTS {
				h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
