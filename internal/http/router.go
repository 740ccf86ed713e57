// Package httpx wires the authorization core to its HTTP endpoints, keeping
// all error-to-status mapping in one place.
package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/metakgp/maintos/internal/domain"
)

// AuthService backs the OAuth callback endpoint.
type AuthService interface {
	Authenticate(ctx context.Context, code string) (*domain.Session, error)
}

// DeploymentService backs the deployment listing and env endpoints.
type DeploymentService interface {
	List(ctx context.Context, username string) ([]domain.Deployment, error)
	Env(ctx context.Context, username, project string) ([]domain.ProjectEnvVar, error)
}

// SessionVerifier validates bearer credentials on protected routes.
type SessionVerifier interface {
	Verify(token string) (string, error)
}

// Router wires HTTP endpoints to services.
type Router struct {
	mux         *http.ServeMux
	handler     http.Handler
	logger      *slog.Logger
	auth        AuthService
	deployments DeploymentService
	sessions    SessionVerifier
	corsOrigins []string
}

// NewRouter assembles routes with dependencies.
func NewRouter(logger *slog.Logger, authSvc AuthService, deploySvc DeploymentService, sessions SessionVerifier, corsOrigins string) *Router {
	r := &Router{
		mux:         http.NewServeMux(),
		logger:      logger,
		auth:        authSvc,
		deployments: deploySvc,
		sessions:    sessions,
		corsOrigins: parseOrigins(corsOrigins),
	}
	r.register()
	r.handler = r.corsMiddleware(r.mux)
	return r
}

// ServeHTTP delegates to the middleware-wrapped mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) register() {
	r.mux.HandleFunc("/healthcheck", r.audit("healthcheck", r.handleHealthcheck))
	r.mux.HandleFunc("/oauth", r.audit("oauth", r.handleOAuth))
	r.mux.HandleFunc("/profile", r.audit("profile", r.requireAuth(r.handleProfile)))
	r.mux.HandleFunc("/deployments", r.audit("deployments", r.requireAuth(r.handleDeployments)))
	r.mux.HandleFunc("/deployments/", r.audit("deployment_env", r.requireAuth(r.handleDeploymentSubroutes)))
	r.mux.Handle("/metrics", promhttp.Handler())
}

func (r *Router) handleHealthcheck(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	writeOK(w, "Hello, World.", nil)
}

func (r *Router) handleOAuth(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(req, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "Error: Invalid request body.")
		return
	}
	session, err := r.auth.Authenticate(req.Context(), payload.Code)
	if err != nil {
		r.writeFailure(w, req, err)
		return
	}
	if session == nil {
		writeError(w, http.StatusUnauthorized, "Error: User unauthorized.")
		return
	}
	writeOK(w, "Successfully authorized the user.", map[string]string{"token": session.Token})
}

// handleProfile echoes the verified identity. The frontend uses it to check
// whether a stored credential is still valid.
func (r *Router) handleProfile(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, genericFailureMessage)
		return
	}
	writeOK(w, "Successfully authorized the user.", map[string]string{
		"token":    info.Token,
		"username": info.Username,
	})
}

func (r *Router) handleDeployments(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, genericFailureMessage)
		return
	}
	deployments, err := r.deployments.List(req.Context(), info.Username)
	if err != nil {
		r.writeFailure(w, req, err)
		return
	}
	writeOK(w, "Successfully fetched deployments.", deployments)
}

func (r *Router) handleDeploymentSubroutes(w http.ResponseWriter, req *http.Request) {
	trimmed := strings.TrimPrefix(req.URL.Path, "/deployments/")
	parts := strings.Split(trimmed, "/")
	if len(parts) == 2 && parts[0] != "" && parts[1] == "env" {
		r.handleDeploymentEnv(w, req, parts[0])
		return
	}
	r.notFound(w)
}

func (r *Router) handleDeploymentEnv(w http.ResponseWriter, req *http.Request, project string) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, genericFailureMessage)
		return
	}
	vars, err := r.deployments.Env(req.Context(), info.Username, project)
	if err != nil {
		r.writeFailure(w, req, err)
		return
	}
	writeOK(w, "Successfully fetched environment variables.", vars)
}

// writeFailure maps a service error to a response. NotFound and
// PermissionDenied collapse to the same 404 so unauthorized users cannot
// probe which deployments exist; everything else is a generic 500 with the
// detail kept in the logs.
func (r *Router) writeFailure(w http.ResponseWriter, req *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrPermissionDenied):
		r.notFound(w)
	case errors.Is(err, domain.ErrInvalidSession):
		writeError(w, http.StatusUnauthorized, "Error: Authentication failed.")
	default:
		r.logger.Error("request failed", "path", req.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, genericFailureMessage)
	}
}

// audit logs every request with a status-classed level and a request id.
func (r *Router) audit(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w}
		start := time.Now()

		requestID := strings.TrimSpace(req.Header.Get("X-Request-ID"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		recorder.Header().Set("X-Request-ID", requestID)

		next(recorder, req)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		recordRequestMetrics(req.Method, route, status, duration)

		fields := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"duration_ms", duration.Milliseconds(),
			"request_id", requestID,
		}
		switch {
		case status >= http.StatusInternalServerError:
			r.logger.Error("http_request", fields...)
		case status >= http.StatusBadRequest:
			r.logger.Warn("http_request", fields...)
		default:
			r.logger.Info("http_request", fields...)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (r *Router) methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "Error: Method not allowed.")
}

func (r *Router) notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "Error: Not found.")
}
