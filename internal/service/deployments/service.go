// Package deployments discovers projects on disk, correlates each with its
// GitHub repository through the git origin remote and filters what a user
// may see by their collaborator role. Nothing is cached; the filesystem and
// GitHub are re-read on every request.
package deployments

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"log/slog"

	"github.com/metakgp/maintos/internal/domain"
	"github.com/metakgp/maintos/internal/git"
	"github.com/metakgp/maintos/pkg/config"
)

// settingsFile is the optional per-project marker naming the deploy
// subdirectory.
const settingsFile = ".maint"

// envFile holds the KEY=VALUE pairs of a project, inside its deploy dir.
const envFile = ".env"

// RemoteReader resolves the origin remote URL of a working copy.
type RemoteReader interface {
	OriginURL(ctx context.Context, dir string) (string, error)
}

// AccessResolver gates deployment visibility per repository and user.
type AccessResolver interface {
	ResolveRepo(ctx context.Context, repoOwner, repoName, username string) (bool, error)
}

// Service enumerates and gates deployments.
type Service struct {
	remotes RemoteReader
	access  AccessResolver
	logger  *slog.Logger
	cfg     config.Config
}

// New constructs a Service. A nil remotes falls back to the git binary.
func New(remotes RemoteReader, access AccessResolver, logger *slog.Logger, cfg config.Config) Service {
	if remotes == nil {
		remotes = git.Reader{}
	}
	return Service{remotes: remotes, access: access, logger: logger, cfg: cfg}
}

// List returns the deployments under the configured root that username may
// see. Directories without git metadata are skipped; a working copy with no
// origin remote fails the whole listing, since deployment directories are
// provisioned by cloning and a missing remote is a setup bug. Order follows
// the directory listing and is not guaranteed sorted.
func (s Service) List(ctx context.Context, username string) ([]domain.Deployment, error) {
	entries, err := os.ReadDir(s.cfg.DeploymentsDir)
	if err != nil {
		return nil, fmt.Errorf("reading deployments dir: %w", err)
	}

	deployments := make([]domain.Deployment, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(s.cfg.DeploymentsDir, entry.Name())
		if !git.IsWorkingCopy(dir) {
			continue
		}
		deployment, err := s.resolve(ctx, entry.Name(), dir)
		if err != nil {
			return nil, err
		}
		granted, err := s.access.ResolveRepo(ctx, deployment.RepoOwner, deployment.RepoName, username)
		if err != nil {
			return nil, err
		}
		if granted {
			deployments = append(deployments, deployment)
		}
	}
	return deployments, nil
}

// CheckAccess resolves a single named project and verifies username may see
// it. A missing directory or missing git metadata is ErrNotFound, distinct
// from ErrPermissionDenied when the project exists but the role is too low.
func (s Service) CheckAccess(ctx context.Context, username, project string) (*domain.Deployment, error) {
	dir, err := s.projectDir(project)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, domain.ErrNotFound
	}
	if !git.IsWorkingCopy(dir) {
		return nil, domain.ErrNotFound
	}
	deployment, err := s.resolve(ctx, project, dir)
	if err != nil {
		return nil, err
	}
	granted, err := s.access.ResolveRepo(ctx, deployment.RepoOwner, deployment.RepoName, username)
	if err != nil {
		return nil, err
	}
	if !granted {
		return nil, domain.ErrPermissionDenied
	}
	return &deployment, nil
}

// Settings reads the project's deploy-directory override, defaulting to ".".
// It never fails: an absent or unreadable marker file only means the default.
func (s Service) Settings(project string) domain.ProjectSettings {
	settings := domain.ProjectSettings{DeployDir: "."}
	dir, err := s.projectDir(project)
	if err != nil {
		return settings
	}
	raw, err := os.ReadFile(filepath.Join(dir, settingsFile))
	if err != nil {
		return settings
	}
	if deployDir := strings.TrimSpace(string(raw)); deployDir != "" {
		settings.DeployDir = deployDir
	}
	return settings
}

// Env returns the project's environment variables after an access check.
// Lines are split on the first '='; lines without one are dropped. This is
// deliberately not a structured .env parser: no quoting, no comments, no
// multi-line values.
func (s Service) Env(ctx context.Context, username, project string) ([]domain.ProjectEnvVar, error) {
	if _, err := s.CheckAccess(ctx, username, project); err != nil {
		return nil, err
	}
	settings := s.Settings(project)
	dir, err := s.projectDir(project)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(filepath.Join(dir, settings.DeployDir, envFile))
	if os.IsNotExist(err) {
		// A project without a .env file simply has no variables.
		return []domain.ProjectEnvVar{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading env file for %s: %w", project, err)
	}
	return parseEnv(string(raw)), nil
}

func parseEnv(contents string) []domain.ProjectEnvVar {
	vars := make([]domain.ProjectEnvVar, 0)
	for _, line := range strings.Split(contents, "\n") {
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		vars = append(vars, domain.ProjectEnvVar{Key: key, Value: value})
	}
	return vars
}

// resolve turns a working copy into a Deployment via its origin remote.
func (s Service) resolve(ctx context.Context, name, dir string) (domain.Deployment, error) {
	remoteURL, err := s.remotes.OriginURL(ctx, dir)
	if err != nil {
		return domain.Deployment{}, err
	}
	owner, repo, err := ParseRemote(remoteURL)
	if err != nil {
		return domain.Deployment{}, err
	}
	return domain.Deployment{
		Name:      name,
		RepoURL:   remoteURL,
		RepoOwner: owner,
		RepoName:  repo,
	}, nil
}

// projectDir validates the project name and joins it under the root. Names
// that escape the root are treated as nonexistent.
func (s Service) projectDir(project string) (string, error) {
	if project == "" || project == "." || project == ".." || project != filepath.Base(project) {
		return "", domain.ErrNotFound
	}
	return filepath.Join(s.cfg.DeploymentsDir, project), nil
}
