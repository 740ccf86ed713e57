package deployments

import (
	"strings"

	"github.com/metakgp/maintos/internal/domain"
)

// ParseRemote recovers the (owner, repo) pair from a git remote URL. It
// accepts https, ssh and scp-like forms and keeps the final two path
// segments; anything shorter cannot identify a repository.
func ParseRemote(remoteURL string) (owner, repo string, err error) {
	trimmed := strings.TrimSpace(remoteURL)
	if trimmed == "" {
		return "", "", &domain.RemoteParseError{URL: remoteURL}
	}

	path := trimmed
	hostQualified := false
	if i := strings.Index(path, "://"); i >= 0 {
		path = path[i+3:]
		hostQualified = true
	}
	// scp-like syntax: git@github.com:owner/repo.git
	if at := strings.Index(path, "@"); at >= 0 {
		path = path[at+1:]
		hostQualified = true
	}
	path = strings.ReplaceAll(path, ":", "/")
	path = strings.Trim(path, "/")

	segments := make([]string, 0, 4)
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	// The first segment is the host for any URL-shaped remote, so a
	// repository needs at least three there; a bare "owner/repo" path
	// needs two. The host must never be mistaken for an owner.
	minSegments := 2
	if hostQualified {
		minSegments = 3
	}
	if len(segments) < minSegments {
		return "", "", &domain.RemoteParseError{URL: remoteURL}
	}

	owner = segments[len(segments)-2]
	repo = strings.TrimSuffix(segments[len(segments)-1], ".git")
	if owner == "" || repo == "" {
		return "", "", &domain.RemoteParseError{URL: remoteURL}
	}
	return owner, repo, nil
}
