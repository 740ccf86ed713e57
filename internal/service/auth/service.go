// Package auth turns a GitHub OAuth code into a signed session credential,
// gated on organization membership.
package auth

import (
	"context"

	"log/slog"

	"github.com/metakgp/maintos/internal/domain"
	"github.com/metakgp/maintos/pkg/config"
)

// GithubOAuth is the subset of the GitHub client the login flow consumes.
type GithubOAuth interface {
	ExchangeCode(ctx context.Context, clientID, clientSecret, code string) (string, error)
	Username(ctx context.Context, accessToken string) (string, error)
}

// MembershipResolver is the login eligibility predicate.
type MembershipResolver interface {
	ResolveMember(ctx context.Context, username string) (bool, error)
}

// SessionIssuer signs a credential for an authenticated username.
type SessionIssuer interface {
	Issue(username string) (domain.Session, error)
}

// Service orchestrates the OAuth login flow.
type Service struct {
	gh      GithubOAuth
	members MembershipResolver
	codec   SessionIssuer
	logger  *slog.Logger
	cfg     config.Config
}

// New constructs a Service.
func New(gh GithubOAuth, members MembershipResolver, codec SessionIssuer, logger *slog.Logger, cfg config.Config) Service {
	return Service{gh: gh, members: members, codec: codec, logger: logger, cfg: cfg}
}

// Authenticate exchanges the OAuth code for an access token, resolves the
// username behind it and issues a session when the user belongs to the
// configured organization. A valid code from a non-member returns (nil, nil):
// that is a normal unauthorized outcome, not an upstream failure.
func (s Service) Authenticate(ctx context.Context, code string) (*domain.Session, error) {
	accessToken, err := s.gh.ExchangeCode(ctx, s.cfg.GHClientID, s.cfg.GHClientSecret, code)
	if err != nil {
		return nil, err
	}

	username, err := s.gh.Username(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	member, err := s.members.ResolveMember(ctx, username)
	if err != nil {
		return nil, err
	}
	if !member {
		s.logger.Info("login rejected, not an org member", "username", username)
		return nil, nil
	}

	session, err := s.codec.Issue(username)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user logged in", "username", username)
	return &session, nil
}
