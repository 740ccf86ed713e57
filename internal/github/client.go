// Package github is a thin typed client for the handful of GitHub REST
// operations maintos needs: OAuth code exchange, authenticated user lookup,
// org membership and collaborator permission checks.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"log/slog"

	"github.com/metakgp/maintos/internal/domain"
)

const (
	defaultAPIBaseURL   = "https://api.github.com"
	defaultOAuthBaseURL = "https://github.com"

	// GitHub rejects requests without a User-Agent.
	userAgent = "maintos"

	defaultTimeout = 10 * time.Second
)

// Client talks to the GitHub REST API.
type Client struct {
	httpClient   *http.Client
	apiBaseURL   string
	oauthBaseURL string
	logger       *slog.Logger
}

// Option customises client construction.
type Option func(*Client)

// WithTimeout overrides the outbound request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithBaseURLs points the client at alternate endpoints. Used by tests.
func WithBaseURLs(apiBase, oauthBase string) Option {
	return func(c *Client) {
		if apiBase != "" {
			c.apiBaseURL = strings.TrimRight(apiBase, "/")
		}
		if oauthBase != "" {
			c.oauthBaseURL = strings.TrimRight(oauthBase, "/")
		}
	}
}

// New constructs a Client.
func New(logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		// Redirects are never followed: the membership endpoint answers
		// 302 when the requesting token is from a non-member, and that
		// status must be seen, not chased.
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		apiBaseURL:   defaultAPIBaseURL,
		oauthBaseURL: defaultOAuthBaseURL,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
}

// ExchangeCode trades a GitHub OAuth code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, clientID, clientSecret, code string) (string, error) {
	query := url.Values{
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"code":          {code},
	}
	endpoint := fmt.Sprintf("%s/login/oauth/access_token?%s", c.oauthBaseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	body, status, err := c.do(req, "oauth/access_token")
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", c.upstream("oauth/access_token", status, body)
	}

	var parsed accessTokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if parsed.AccessToken == "" {
		return "", c.upstream("oauth/access_token", status, body)
	}
	return parsed.AccessToken, nil
}

type userResponse struct {
	Login string `json:"login"`
}

// Username fetches the login of the user the access token belongs to.
func (c *Client) Username(ctx context.Context, accessToken string) (string, error) {
	body, status, err := c.get(ctx, accessToken, "user")
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", c.upstream("user", status, body)
	}
	var parsed userResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	return parsed.Login, nil
}

// IsOrgMember reports whether username belongs to the organization. The
// admin token itself must belong to an org member; GitHub answers 302
// otherwise, which is a configuration error here, not a membership answer.
func (c *Client) IsOrgMember(ctx context.Context, adminToken, org, username string) (bool, error) {
	path := fmt.Sprintf("orgs/%s/members/%s", org, username)
	body, status, err := c.get(ctx, adminToken, path)
	if err != nil {
		return false, err
	}
	switch status {
	case http.StatusNoContent:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	case http.StatusFound:
		c.logger.Error("github admin token belongs to a non-member of the org", "org", org)
		return false, c.upstream("org_membership", status, body)
	default:
		return false, c.upstream("org_membership", status, body)
	}
}

type permissionResponse struct {
	RoleName string `json:"role_name"`
}

// CollaboratorRole looks up username's role on org/repo. The second return
// is false when the user is not a collaborator at all, which GitHub reports
// as 404 and which is not an error.
func (c *Client) CollaboratorRole(ctx context.Context, adminToken, org, repo, username string) (domain.Role, bool, error) {
	path := fmt.Sprintf("repos/%s/%s/collaborators/%s/permission", org, repo, username)
	body, status, err := c.get(ctx, adminToken, path)
	if err != nil {
		return "", false, err
	}
	switch status {
	case http.StatusOK:
		var parsed permissionResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", false, err
		}
		return domain.Role(parsed.RoleName), true, nil
	case http.StatusNotFound:
		return "", false, nil
	default:
		return "", false, c.upstream("collaborator_permission", status, body)
	}
}

// get runs an authenticated GET against the REST API.
func (c *Client) get(ctx context.Context, token, path string) ([]byte, int, error) {
	endpoint := fmt.Sprintf("%s/%s", c.apiBaseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	return c.do(req, firstSegment(path))
}

func (c *Client) do(req *http.Request, operation string) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observeRequest(operation, "transport_error")
		return nil, 0, err
	}
	defer resp.Body.Close()
	observeRequest(operation, fmt.Sprintf("%d", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// upstream logs the response body for operators and returns an error that
// carries it no further than the logs.
func (c *Client) upstream(endpoint string, status int, body []byte) error {
	c.logger.Error("unexpected github response",
		"endpoint", endpoint,
		"status", status,
		"body", string(body),
	)
	return &domain.UpstreamError{Endpoint: endpoint, Status: status, Body: string(body)}
}

func firstSegment(path string) string {
	if i := strings.IndexByte(path, '/'); i > 0 {
		return path[:i]
	}
	return path
}
