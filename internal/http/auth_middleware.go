package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

type authContextKey string

const contextKeyAuth authContextKey = "maintos-auth-info"

// authInfo carries the verified identity of the request.
type authInfo struct {
	Username string
	Token    string
}

// requireAuth ensures the request carries a valid session credential before
// invoking the handler.
func (r *Router) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		token, err := bearerToken(req.Header.Get("Authorization"))
		if err != nil {
			r.logger.Warn("authorization header invalid", "error", err, "path", req.URL.Path)
			writeError(w, http.StatusUnauthorized, "Error: Authentication required.")
			return
		}
		username, err := r.sessions.Verify(token)
		if err != nil {
			r.logger.Warn("session verification failed", "path", req.URL.Path)
			writeError(w, http.StatusUnauthorized, "Error: Authentication failed.")
			return
		}
		ctx := context.WithValue(req.Context(), contextKeyAuth, authInfo{Username: username, Token: token})
		next(w, req.WithContext(ctx))
	}
}

// authInfoFromContext extracts the verified identity from context.
func authInfoFromContext(ctx context.Context) (authInfo, bool) {
	info, ok := ctx.Value(contextKeyAuth).(authInfo)
	return info, ok
}

func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}
	if parts[1] == "" {
		return "", errors.New("empty bearer token")
	}
	return parts[1], nil
}
