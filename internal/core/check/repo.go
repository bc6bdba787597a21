package check

import (
	"path/filepath"
	"strings"
)

// ResolveRepoPath resolves a ticket's repo reference to a filesystem path.
// Absolute paths are used as-is, "~/" expands against home, "." and relative
// paths resolve against the project root.
func ResolveRepoPath(repo, projectRoot, home string) string {
	repo = strings.TrimSpace(repo)

	switch {
	case repo == "" || repo == ".":
		return projectRoot
	case repo == "~":
		return home
	case strings.HasPrefix(repo, "~/"):
		return filepath.Join(home, repo[2:])
	case filepath.IsAbs(repo):
		return filepath.Clean(repo)
	default:
		return filepath.Join(projectRoot, repo)
	}
}
