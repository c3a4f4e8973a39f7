// Package version provides build version information embedding.
package version

import (
	"runtime/debug"
)

// Version is set at build time using -ldflags, or via the SERVICE_VERSION
// environment variable through configuration.
var Version = "dev"

// Info represents version information reported at startup.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
}

// Get returns version information, filling in VCS details from the build
// info when available.
func Get() Info {
	info := Info{Version: Version}

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = buildInfo.GoVersion
		for _, setting := range buildInfo.Settings {
			if setting.Key == "vcs.revision" {
				info.GitCommit = setting.Value
				if len(info.GitCommit) > 7 {
					info.GitCommit = info.GitCommit[:7]
				}
			}
		}
	}
	return info
}
