package check

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRepoPath(t *testing.T) {
	root := filepath.Join("/", "work", "project")
	home := filepath.Join("/", "home", "dev")

	tests := []struct {
		name string
		repo string
		want string
	}{
		{name: "empty means project root", repo: "", want: root},
		{name: "dot means project root", repo: ".", want: root},
		{name: "whitespace trimmed", repo: "  ", want: root},
		{name: "bare tilde is home", repo: "~", want: home},
		{name: "tilde prefix expands", repo: "~/src/api", want: filepath.Join(home, "src", "api")},
		{name: "absolute used as-is", repo: "/opt/repos/api", want: filepath.Join("/", "opt", "repos", "api")},
		{name: "relative joins project root", repo: "services/api", want: filepath.Join(root, "services", "api")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveRepoPath(tt.repo, root, home))
		})
	}
}
