// Package version exposes build information for the scribed binary.
//
// Version and Commit are set at build time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/scribe/version.Version=1.0.0"
//
// When unset, the VCS metadata embedded by the Go toolchain is used.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

var (
	// Version is the release version, "dev" for local builds.
	Version = "dev"
	// Commit is the short VCS revision.
	Commit = ""
	// BuildTime is the build timestamp in RFC 3339.
	BuildTime = ""
)

// Info is the resolved build information.
type Info struct {
	Version   string    `json:"version"`
	Commit    string    `json:"commit"`
	GoVersion string    `json:"go_version"`
	BuildDate time.Time `json:"build_date"`
	Dirty     bool      `json:"dirty"`
}

// Get resolves build information, preferring -ldflags values and falling
// back to the module's embedded VCS settings.
func Get() Info {
	info := Info{Version: Version, Commit: Commit}

	if BuildTime != "" {
		if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
			info.BuildDate = t
		}
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" && len(s.Value) >= 7 {
					info.Commit = s.Value[:7]
				}
			case "vcs.modified":
				info.Dirty = s.Value == "true"
			case "vcs.time":
				if info.BuildDate.IsZero() {
					if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
						info.BuildDate = t
					}
				}
			}
		}
	}

	return info
}

// Short returns a compact version string for logs and banners.
func Short() string {
	info := Get()
	switch {
	case info.Commit == "":
		return info.Version
	case info.Dirty:
		return fmt.Sprintf("%s-%s-dirty", info.Version, info.Commit)
	default:
		return fmt.Sprintf("%s-%s", info.Version, info.Commit)
	}
}
