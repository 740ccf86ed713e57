package config

import "time"

// Config holds runtime configuration for the maintos server.
type Config struct {
	Addr string

	// GitHub OAuth app credentials.
	GHClientID     string
	GHClientSecret string
	// Token of an org admin with the read:org permission, used for
	// membership and collaborator lookups.
	GHOrgAdminToken string
	GHOrgName       string

	JWTSecret  string
	SessionTTL time.Duration

	// Directory in which all project deployments are checked out.
	DeploymentsDir string

	GithubTimeout time.Duration

	CORSAllowedOrigins string

	LogLevel string
}

// Load constructs a Config from environment variables.
func Load() Config {
	return Config{
		Addr:               GetString("SERVER_ADDR", ":"+GetString("SERVER_PORT", "8080")),
		GHClientID:         GetString("GH_CLIENT_ID", ""),
		GHClientSecret:     GetString("GH_CLIENT_SECRET", ""),
		GHOrgAdminToken:    GetString("GH_ORG_ADMIN_TOKEN", ""),
		GHOrgName:          GetString("GH_ORG_NAME", ""),
		JWTSecret:          GetString("JWT_SECRET", ""),
		SessionTTL:         time.Duration(GetInt("SESSION_TTL_DAYS", 7)) * 24 * time.Hour,
		DeploymentsDir:     GetString("DEPLOYMENTS_DIR", "/deployments"),
		GithubTimeout:      GetSeconds("GITHUB_TIMEOUT_SECONDS", 10*time.Second),
		CORSAllowedOrigins: GetString("CORS_ALLOWED_ORIGINS", "https://maint.metakgp.org,http://localhost:5173"),
		LogLevel:           GetString("LOG_LEVEL", "info"),
	}
}
