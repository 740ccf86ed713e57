package domain

import (
	"errors"
	"fmt"
)

// Closed error kinds shared by services. The HTTP layer maps these to
// response statuses; nothing below it inspects status codes.
var (
	// ErrNotFound indicates the requested project or resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied indicates the project exists but the user's
	// GitHub role does not grant access.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidSession covers every bad-credential case: wrong signature,
	// expired token, malformed or missing claims. Callers get no finer
	// distinction on purpose.
	ErrInvalidSession = errors.New("invalid session credential")

	// ErrMissingRemote indicates a deployment directory holds a git
	// working copy with no origin remote. Deployment directories are
	// provisioned by cloning, so this is a setup bug, not a skippable item.
	ErrMissingRemote = errors.New("origin remote not configured")
)

// UpstreamError reports a non-conforming GitHub API response. Body is for
// server-side logs only and must never reach an end user.
type UpstreamError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("github %s returned status %d", e.Endpoint, e.Status)
}

// RemoteParseError reports a remote URL from which an owner/repo pair could
// not be recovered. Treated as a configuration defect of the deployment.
type RemoteParseError struct {
	URL string
}

func (e *RemoteParseError) Error() string {
	return fmt.Sprintf("cannot parse owner/repo from remote url %q", e.URL)
}
