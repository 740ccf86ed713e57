package httpx

import (
	"net/http"
	"strings"
)

// corsMiddleware answers preflight requests and sets allow headers for the
// configured origins.
func (r *Router) corsMiddleware(next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(r.corsOrigins))
	for _, origin := range r.corsOrigins {
		allowed[origin] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		origin := req.Header.Get("Origin")
		if origin != "" && allowed[origin] {
			headers := w.Header()
			headers.Set("Access-Control-Allow-Origin", origin)
			headers.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			headers.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			headers.Add("Vary", "Origin")
		}
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, req)
	})
}

// parseOrigins splits the comma-separated configured origin list.
func parseOrigins(raw string) []string {
	origins := make([]string, 0, 4)
	for _, origin := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
