package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// The running platform is included because asset matching depends on it.
func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the release-gitter version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s/%s\n", version, runtime.GOOS, runtime.GOARCH)
		},
	}
}
