// Values in this file are injected at link time through -ldflags "-X".
// Renaming the variables breaks the release build.

package bininfo

const Name = "ifood-admin"

var (
	// Version is the SemVer version of the binary, optionally suffixed with +<git commit>.
	Version = "v0.0.0"

	// BuildTime is the RFC3339 time at which the binary was built.
	BuildTime = "1970-01-01T00:00:00Z"
)
