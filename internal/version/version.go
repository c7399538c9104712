package version

// Set at build time with -ldflags "-X github.com/banshee-data/vetoplot/internal/version.Version=...".
var (
	// Version is the current vetoplot release
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
)

// String formats the version for the CLI --version output.
func String() string {
	return Version + " (" + GitSHA + ")"
}
