package cli

import "fmt"

var (
	version = "dev"     // semantic version (e.g., "v1.2.3")
	commit  = "none"    // git commit SHA
	date    = "unknown" // build timestamp
)

// SetVersion sets the version information displayed by --version.
// The main package calls it with values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if d != "" {
		date = d
	}
}

func versionTemplate() string {
	return fmt.Sprintf("stackorder %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
}
