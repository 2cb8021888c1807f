package httpmiddleware

import "net/http"

// DefaultContentSecurityPolicy allows the storefront's fonts and product
// image hosts.
const DefaultContentSecurityPolicy = "default-src 'self'; " +
	"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; " +
	"font-src 'self' https://fonts.gstatic.com; " +
	"img-src 'self' https://images.pexels.com https://placehold.co data:; " +
	"script-src 'self'; " +
	"connect-src 'self'"

// SecurityHeaders sets conservative browser security headers on every
// response. An empty csp uses DefaultContentSecurityPolicy.
func SecurityHeaders(csp string) Middleware {
	if csp == "" {
		csp = DefaultContentSecurityPolicy
	}
	headers := [][2]string{
		{"Content-Security-Policy", csp},
		{"Cross-Origin-Opener-Policy", "same-origin"},
		{"Cross-Origin-Resource-Policy", "same-origin"},
		{"Origin-Agent-Cluster", "?1"},
		{"Referrer-Policy", "no-referrer"},
		{"Strict-Transport-Security", "max-age=15552000; includeSubDomains"},
		{"X-Content-Type-Options", "nosniff"},
		{"X-DNS-Prefetch-Control", "off"},
		{"X-Download-Options", "noopen"},
		{"X-Frame-Options", "SAMEORIGIN"},
		{"X-Permitted-Cross-Domain-Policies", "none"},
		{"X-XSS-Protection", "0"},
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, kv := range headers {
				h.Set(kv[0], kv[1])
			}
			next.ServeHTTP(w, r)
		})
	}
}
