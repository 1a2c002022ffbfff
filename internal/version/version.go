package version

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/arthur-debert/dotty/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/arthur-debert/dotty/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/arthur-debert/dotty/internal/version.Date={{.Date}}
)

// Info renders the build information on a single line
func Info() string {
	return Version + " (commit " + Commit + ", built " + Date + ")"
}
