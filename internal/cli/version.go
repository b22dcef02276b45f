package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocst/internal/logging"
)

func newVersionCommand(info BuildInfo) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of gocst.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, info.Version)
				return
			}
			logger := logging.New(logging.Options{Level: "info", Output: out})
			logger.Info("gocst",
				logging.FieldVersion, info.Version,
				logging.FieldCommit, info.Commit,
				logging.FieldBuilt, info.Date,
				"go", runtime.Version(),
			)
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print only the version")

	return cmd
}
