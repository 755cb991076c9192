// Package version reports what build of vshell is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

const (
	defaultModule  = "pkt.systems/vshell"
	unknownVersion = "v0.0.0-unknown"
)

// buildVersion is set with -ldflags "-X pkt.systems/vshell/internal/version.buildVersion=v1.2.3".
var buildVersion = ""

// Build describes the running binary.
type Build struct {
	Module    string
	Version   string
	Revision  string
	Time      time.Time
	Modified  bool
	GoVersion string
}

// Read collects the build description from the linker flag and the
// embedded build info.
func Read() Build {
	info, _ := debug.ReadBuildInfo()
	return fromBuildInfo(info, buildVersion)
}

// Current returns the version without a dirty marker.
func Current() string {
	return Read().Version
}

// CurrentWithDirty returns the version, marked +dirty for modified trees.
func CurrentWithDirty() string {
	b := Read()
	if b.Modified && !strings.HasSuffix(b.Version, "+dirty") {
		return b.Version + "+dirty"
	}
	return b.Version
}

// Module returns the main module path.
func Module() string {
	return Read().Module
}

// String renders the build on one line.
func (b Build) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", b.Module, b.Version)
	if b.Revision != "" {
		fmt.Fprintf(&sb, " rev %s", shortRevision(b.Revision))
		if b.Modified {
			sb.WriteString("+dirty")
		}
	}
	if !b.Time.IsZero() {
		fmt.Fprintf(&sb, " built %s", b.Time.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&sb, " %s", b.GoVersion)
	return sb.String()
}

func fromBuildInfo(info *debug.BuildInfo, linked string) Build {
	b := Build{Module: defaultModule, GoVersion: runtime.Version()}
	if info != nil {
		if path := strings.TrimSpace(info.Main.Path); path != "" {
			b.Module = path
		}
		if info.GoVersion != "" {
			b.GoVersion = info.GoVersion
		}
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				b.Revision = setting.Value
			case "vcs.time":
				if parsed, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					b.Time = parsed
				}
			case "vcs.modified":
				b.Modified = setting.Value == "true"
			}
		}
	}
	switch {
	case strings.TrimSpace(linked) != "":
		b.Version = strings.TrimSpace(linked)
	case info != nil && info.Main.Version != "" && info.Main.Version != "(devel)":
		b.Version = info.Main.Version
	case b.Revision != "" && !b.Time.IsZero():
		b.Version = "v0.0.0-" + b.Time.UTC().Format("20060102150405") + "-" + shortRevision(b.Revision)
	default:
		b.Version = unknownVersion
	}
	b.Version = strings.TrimSuffix(b.Version, "+dirty")
	return b
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
