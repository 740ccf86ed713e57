// Package access decides whether a GitHub user may see a deployment or log
// in at all. Both predicates re-query GitHub on every call; permissions are
// always current and nothing is cached.
package access

import (
	"context"

	"log/slog"

	"github.com/metakgp/maintos/internal/domain"
	"github.com/metakgp/maintos/pkg/config"
)

// GithubAPI is the subset of the GitHub client the resolver consumes.
type GithubAPI interface {
	CollaboratorRole(ctx context.Context, adminToken, org, repo, username string) (domain.Role, bool, error)
	IsOrgMember(ctx context.Context, adminToken, org, username string) (bool, error)
}

// Resolver evaluates authorization predicates against GitHub.
type Resolver struct {
	gh     GithubAPI
	logger *slog.Logger
	cfg    config.Config
}

// New constructs a Resolver.
func New(gh GithubAPI, logger *slog.Logger, cfg config.Config) Resolver {
	return Resolver{gh: gh, logger: logger, cfg: cfg}
}

// ResolveRepo reports whether username may see the deployment backed by
// repoOwner/repoName. Repositories outside the configured organization are
// denied without a network round-trip; otherwise access requires a
// collaborator role of maintain or admin. No role at all denies.
func (r Resolver) ResolveRepo(ctx context.Context, repoOwner, repoName, username string) (bool, error) {
	if repoOwner != r.cfg.GHOrgName {
		return false, nil
	}
	role, found, err := r.gh.CollaboratorRole(ctx, r.cfg.GHOrgAdminToken, repoOwner, repoName, username)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	if !role.GrantsAccess() {
		r.logger.Debug("collaborator role too low",
			"repo", repoOwner+"/"+repoName,
			"username", username,
			"role", string(role),
		)
		return false, nil
	}
	return true, nil
}

// ResolveMember reports whether username belongs to the configured
// organization. This is the login gate; it is deliberately a separate
// predicate from ResolveRepo and the two need not coincide.
func (r Resolver) ResolveMember(ctx context.Context, username string) (bool, error) {
	return r.gh.IsOrgMember(ctx, r.cfg.GHOrgAdminToken, r.cfg.GHOrgName, username)
}
