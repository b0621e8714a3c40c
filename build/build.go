// Package build reports what binary is running. Version and Commit can be
// set at link time:
//
//	go build -ldflags "-X github.com/amp-labs/amp-flux/build.Version=v1.2.0"
//
// Fields left empty are filled from the module's embedded build info.
package build

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const develVersion = "(devel)"

var (
	// Version is the release version.
	Version = "" //nolint:gochecknoglobals
	// Commit is the VCS revision.
	Commit = "" //nolint:gochecknoglobals
)

// Info contains build metadata.
type Info struct {
	Version      string            `json:"version"`
	Commit       string            `json:"commit,omitempty"`
	GoVersion    string            `json:"goVersion"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Current returns the running binary's build info.
func Current() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		fill(&info, bi)
	}

	if info.Version == "" {
		info.Version = develVersion
	}

	return info
}

func fill(info *Info, bi *debug.BuildInfo) {
	if info.Version == "" && bi.Main.Version != "" {
		info.Version = bi.Main.Version
	}

	if info.Commit == "" {
		for _, setting := range bi.Settings {
			if setting.Key == "vcs.revision" {
				info.Commit = setting.Value
			}
		}
	}

	if len(bi.Deps) > 0 {
		info.Dependencies = make(map[string]string, len(bi.Deps))

		for _, dep := range bi.Deps {
			info.Dependencies[dep.Path] = dep.Version
		}
	}
}

func (i Info) String() string {
	if i.Commit == "" {
		return fmt.Sprintf("%s (%s)", i.Version, i.GoVersion)
	}

	return fmt.Sprintf("%s %s (%s)", i.Version, i.Commit, i.GoVersion)
}
