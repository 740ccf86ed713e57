package domain

// Deployment is a directory under the deployments root backed by a git
// working copy whose origin remote identifies a GitHub repository. Name is
// the directory name and need not equal RepoName.
type Deployment struct {
	Name      string `json:"name"`
	RepoURL   string `json:"repo_url"`
	RepoOwner string `json:"repo_owner"`
	RepoName  string `json:"repo_name"`
}

// ProjectSettings holds per-project options read fresh on every request.
type ProjectSettings struct {
	// DeployDir is the subdirectory that is actually served, "." when the
	// project has no override file.
	DeployDir string `json:"deploy_dir"`
}

// ProjectEnvVar is a single KEY=VALUE entry from a project's .env file.
type ProjectEnvVar struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
