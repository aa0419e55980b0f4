// Package version reports build metadata and the client User-Agent.
package version

import (
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/milan604/netservice/pkg/version.Version=v1.2.3".
// Without it, Version falls back to the module version of the build, or "dev".
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

func init() {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && Commit == "":
			Commit = s.Value
		case s.Key == "vcs.time" && Date == "":
			Date = s.Value
		}
	}
}

// Info is the build metadata served on /healthz and printed by --version.
func Info() map[string]string {
	return map[string]string{
		"version": Version,
		"commit":  Commit,
		"date":    Date,
		"go":      runtime.Version(),
	}
}

// UserAgent is sent on every outgoing request.
func UserAgent() string {
	return "netservice/" + Version + " (" + runtime.Version() + ")"
}
