package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is stamped at link time on release builds; module builds fall
// back to the version recorded in build info.
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the build version and Go version used to build this tool.",
		Run: func(cmd *cobra.Command, _ []string) {
			toolVersion := version

			info, ok := debug.ReadBuildInfo()
			if ok && toolVersion == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
				toolVersion = info.Main.Version
			}

			cmd.Println("mutsol version\t", toolVersion)

			if ok {
				cmd.Println("go version\t", info.GoVersion)
			}
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
