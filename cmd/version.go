package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build details",
	Run: func(cmd *cobra.Command, args []string) {
		info, _ := debug.ReadBuildInfo()
		fmt.Println(versionString(version, info))
	},
}

// versionString prefers the ldflags version, then the module version from
// the build info. The VCS revision and Go version are appended when known.
func versionString(ldflags string, info *debug.BuildInfo) string {
	v := ldflags
	if info == nil {
		return "lingodrill " + v
	}
	if v == "(devel)" && info.Main.Version != "" {
		v = info.Main.Version
	}

	var rev, modified string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			if s.Value == "true" {
				modified = "-dirty"
			}
		}
	}

	out := "lingodrill " + v
	if rev != "" {
		out += fmt.Sprintf(" (%s%s)", shortRevision(rev), modified)
	}
	if info.GoVersion != "" {
		out += " " + info.GoVersion
	}
	return out
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
