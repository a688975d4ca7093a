package version

import (
	"strings"
	"testing"
)

func setBuildVars(t *testing.T, version, commit, buildTime string) {
	t.Helper()
	origVersion, origCommit, origBuildTime := Version, Commit, BuildTime
	t.Cleanup(func() {
		Version, Commit, BuildTime = origVersion, origCommit, origBuildTime
	})
	Version, Commit, BuildTime = version, commit, buildTime
}

func TestGetDefaults(t *testing.T) {
	setBuildVars(t, "dev", "", "")

	info := Get()
	if info.Version != "dev" {
		t.Errorf("Version = %q, want dev", info.Version)
	}
}

func TestGetWithLdflags(t *testing.T) {
	setBuildVars(t, "1.2.0", "abc1234", "2026-03-01T12:00:00Z")

	info := Get()
	if info.Version != "1.2.0" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.Commit != "abc1234" {
		t.Errorf("Commit = %q", info.Commit)
	}
	if info.BuildDate.Year() != 2026 {
		t.Errorf("BuildDate = %v", info.BuildDate)
	}
}

func TestShortWithCommit(t *testing.T) {
	setBuildVars(t, "1.2.0", "abc1234", "")

	if got := Short(); got != "1.2.0-abc1234" {
		t.Errorf("Short() = %q", got)
	}
}

func TestShortWithoutCommit(t *testing.T) {
	setBuildVars(t, "dev", "", "")

	got := Short()
	if !strings.HasPrefix(got, "dev") {
		t.Errorf("Short() = %q, want dev prefix", got)
	}
}
