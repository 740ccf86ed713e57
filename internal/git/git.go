// Package git reads metadata from the deployment working copies by shelling
// out to the git binary.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/metakgp/maintos/internal/domain"
)

// Reader resolves remote URLs of on-disk working copies.
type Reader struct{}

// IsWorkingCopy reports whether dir contains git metadata. Directories
// without it are not deployments.
func IsWorkingCopy(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	if err != nil {
		return false
	}
	// Submodules and worktrees keep a .git file instead of a directory;
	// both count as working copies.
	return info.IsDir() || info.Mode().IsRegular()
}

// OriginURL returns the URL of the origin remote of the working copy at dir.
// A working copy without an origin remote yields domain.ErrMissingRemote.
func (Reader) OriginURL(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", dir, "remote", "get-url", "origin")
	// Prevent git from prompting for credentials interactively.
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && isNoSuchRemote(exitErr.Stderr) {
			return "", fmt.Errorf("%w: %s", domain.ErrMissingRemote, dir)
		}
		// Any other failure (corrupt working copy, missing binary) is
		// not a missing remote and must not look like one.
		return "", fmt.Errorf("git remote lookup in %s: %w", dir, err)
	}
	url := strings.TrimSpace(string(output))
	if url == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrMissingRemote, dir)
	}
	return url, nil
}

// isNoSuchRemote reports whether git's stderr names a missing remote, e.g.
// "fatal: No such remote 'origin'".
func isNoSuchRemote(stderr []byte) bool {
	return strings.Contains(strings.ToLower(string(stderr)), "no such remote")
}
