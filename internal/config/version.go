package config

import "fmt"

// Build metadata, injected with -ldflags "-X .../internal/config.Version=...".
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// Info is the build metadata reported by /api/version and the get_version tool.
type Info struct {
	Version   string `json:"version"`
	Build     string `json:"build"`
	GitCommit string `json:"git_commit"`
}

// Current returns the metadata of the running binary.
func Current() Info {
	return Info{Version: Version, Build: Build, GitCommit: GitCommit}
}

func (i Info) String() string {
	return fmt.Sprintf("%s (build: %s, commit: %s)", i.Version, i.Build, i.GitCommit)
}
