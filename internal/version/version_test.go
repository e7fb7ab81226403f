package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	if strings.Contains(Version, "\x1b[") {
		t.Errorf("Version must be plain text, got %q", Version)
	}
}

func TestBanner_OptionalFields(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	defer func() { GitCommit, BuildDate = origCommit, origDate }()

	GitCommit, BuildDate = "", ""
	got := Banner(false)
	if !strings.HasPrefix(got, "sysy "+Version+" (") {
		t.Fatalf("unexpected banner %q", got)
	}
	if strings.Contains(got, "commit:") || strings.Contains(got, "built:") {
		t.Fatalf("empty fields must be omitted: %q", got)
	}

	GitCommit, BuildDate = "abc123def456", "2024-01-15T10:30:00Z"
	got = Banner(false)
	if !strings.Contains(got, "commit: abc123def456\n") || !strings.Contains(got, "built:  2024-01-15T10:30:00Z\n") {
		t.Fatalf("missing build fields: %q", got)
	}
}

func TestColored(t *testing.T) {
	origNoColor, origVersion := color.NoColor, Version
	defer func() { color.NoColor, Version = origNoColor, origVersion }()

	color.NoColor = false
	Version = "1.2.3-rc1"
	got := Colored()
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "-rc1") {
		t.Fatalf("expected colored version, got %q", got)
	}

	Version = "dev"
	if got := Colored(); got != "dev" {
		t.Fatalf("non-semver must stay as is, got %q", got)
	}
}
