package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocst/internal/configloader"
	"github.com/yaklabco/gocst/internal/logging"
)

// defaultConfigName is the file written by init when no path is given.
const defaultConfigName = ".gocst.yml"

type initFlags struct {
	force  bool
	full   bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a gocst configuration file",
		Long: `Create a .gocst.yml configuration file in the current directory with the
default settings. The file can be edited to change diagnostic severities,
file patterns, snippet checking and fix behavior.

When the file exists and the command runs in a terminal, it asks before
overwriting. Otherwise --force is required.

Examples:
  gocst init                      Create a minimal .gocst.yml
  gocst init --full               Document every setting and diagnostic kind
  gocst init -o ci/gocst.yml      Write to a custom path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "document every setting and diagnostic kind")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigName, "output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	err := configloader.WriteTemplate(ctx, configloader.WriteOptions{
		Path:        flags.output,
		Full:        flags.full,
		Force:       flags.force,
		Prompt:      cmd.InOrStdin(),
		PromptOut:   cmd.ErrOrStderr(),
		Interactive: configloader.IsInteractive(cmd.InOrStdin()),
	})
	if errors.Is(err, configloader.ErrExists) {
		return err
	}
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", flags.output)
	logger.Info("created configuration file", logging.FieldPath, flags.output, "full", flags.full)
	return nil
}
