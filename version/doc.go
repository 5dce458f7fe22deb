// Package version provides build version information for the service.
//
// Version fields are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/skillsenselab/speakertime/version.Version=1.0.0"
//
// When ldflags are absent the package falls back to VCS data embedded by the
// Go toolchain.
package version
