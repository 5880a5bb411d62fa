package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestGetTrimsAndDefaults(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()

	Version, GitCommit = "  ", " abc123 "
	info := Get()
	if info.Version != "dev" || info.GitCommit != "abc123" {
		t.Fatalf("info = %+v", info)
	}
}

func TestColored(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	color.NoColor = true
	tests := []string{"0.1.0-dev", "1.2.3", "1.2.3-rc.1+build.123", "dev", "1.2"}
	for _, v := range tests {
		if got := Colored(v); got != v {
			t.Errorf("Colored(%q) without colour = %q", v, got)
		}
	}

	color.NoColor = false
	if got := Colored("1.2.3-dev"); got == "1.2.3-dev" || len(got) <= len("1.2.3-dev") {
		t.Errorf("Colored with colour = %q", got)
	}
	if got := Colored("dev"); got != "dev" {
		t.Errorf("non-semver coloured: %q", got)
	}
}

// BenchmarkVersionAccess benchmarks accessing version metadata
func BenchmarkVersionAccess(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Get()
	}
}
