package version

import (
	"runtime/debug"
	"strings"
	"testing"
	"time"
)

func TestLinkedVersionWins(t *testing.T) {
	info := &debug.BuildInfo{Main: debug.Module{Path: "example.com/x", Version: "v9.9.9"}}
	b := fromBuildInfo(info, " v1.2.3 ")
	if b.Version != "v1.2.3" {
		t.Fatalf("expected linked version, got %q", b.Version)
	}
	if b.Module != "example.com/x" {
		t.Fatalf("unexpected module %q", b.Module)
	}
}

func TestCurrentPrefersBuildVersion(t *testing.T) {
	old := buildVersion
	buildVersion = "v1.2.3"
	t.Cleanup(func() { buildVersion = old })

	if got := Current(); got != "v1.2.3" {
		t.Fatalf("expected build version, got %q", got)
	}
}

func TestPseudoVersionFromVCS(t *testing.T) {
	ts := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)
	info := &debug.BuildInfo{
		Main: debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "1234567890abcdef"},
			{Key: "vcs.time", Value: ts.Format(time.RFC3339)},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	b := fromBuildInfo(info, "")
	if b.Version != "v0.0.0-20250102030405-1234567890ab" {
		t.Fatalf("unexpected version %q", b.Version)
	}
	if !b.Modified {
		t.Fatalf("expected modified flag")
	}
	if got := b.String(); !strings.Contains(got, "rev 1234567890ab+dirty") || !strings.Contains(got, "built 2025-01-02T03:04:05Z") {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestUnknownWithoutBuildInfo(t *testing.T) {
	b := fromBuildInfo(nil, "")
	if b.Version != unknownVersion || b.Module != defaultModule {
		t.Fatalf("unexpected build %+v", b)
	}
	if strings.Contains(b.String(), "rev") {
		t.Fatalf("summary without revision should not mention one: %q", b.String())
	}
}

func TestLinkedDirtySuffixIsTrimmed(t *testing.T) {
	b := fromBuildInfo(nil, "v1.0.0+dirty")
	if b.Version != "v1.0.0" {
		t.Fatalf("expected dirty suffix trimmed, got %q", b.Version)
	}
}
