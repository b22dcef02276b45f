// Package cli provides the Cobra command structure for gocst.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocst/internal/logging"
	"github.com/yaklabco/gocst/pkg/config"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	debug      bool
	verbose    bool
	configPath string
	color      string
}

// NewRootCommand creates the root gocst command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "gocst",
		Short: "Incremental concrete syntax trees for mini-C",
		Long: `gocst parses a small C dialect into lossless concrete syntax trees.

Every byte of the input, comments and whitespace included, is kept in the
tree, so printing a tree gives back the exact source. Syntax errors become
diagnostics inside the tree instead of stopping the parse. After an edit,
only the damaged part of the tree is parsed again, and the regions that
changed between two trees can be reported.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := "warn"
			switch {
			case flags.debug:
				level = "debug"
			case flags.verbose:
				level = "info"
			}
			logger := logging.NewFromEnv(level)
			if flags.debug || flags.verbose {
				logger.SetLevel(logging.ParseLevel(level))
			}
			logging.SetDefault(logger)
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
			return nil
		},
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log run summaries")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flags.color, "color", string(config.ColorAuto),
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newDiffCommand())
	rootCmd.AddCommand(newFmtCommand())
	rootCmd.AddCommand(newReplayCommand())
	rootCmd.AddCommand(newReplCommand())
	rootCmd.AddCommand(newKindsCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	applyHelp(rootCmd, config.ColorMode(flags.color), os.Stdout)

	return rootCmd
}

// colorMode reads the persistent --color flag.
func colorMode(cmd *cobra.Command) config.ColorMode {
	mode, err := cmd.Flags().GetString("color")
	if err != nil || mode == "" {
		return config.ColorAuto
	}
	return config.ColorMode(mode)
}
