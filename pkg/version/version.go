package version

// version is set at build time via -ldflags "-X .../pkg/version.version=v1.2.3"
var version = "dev"

// Get returns the current version of the application
func Get() string {
	return version
}
