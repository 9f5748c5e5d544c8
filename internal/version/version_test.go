package version

import "testing"

func TestVersionDefaults(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	// GitCommit and BuildDate are optional and may be empty
	_ = GitCommit
	_ = BuildDate
}

func TestVersionCanBeOverridden(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	}()

	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2026-01-15T10:30:00Z"

	if Version != "1.2.3" {
		t.Errorf("Version = %q, want 1.2.3", Version)
	}
	if GitCommit != "abc123def456" {
		t.Errorf("GitCommit = %q", GitCommit)
	}
	if BuildDate != "2026-01-15T10:30:00Z" {
		t.Errorf("BuildDate = %q", BuildDate)
	}
}
