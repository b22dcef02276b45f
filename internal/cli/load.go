package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocst/internal/configloader"
	"github.com/yaklabco/gocst/internal/logging"
	"github.com/yaklabco/gocst/pkg/config"
)

// loadConfig resolves the layered configuration with flags from cli on top
// and returns it with the working directory it was resolved from.
func loadConfig(cmd *cobra.Command, cli *config.Config) (*config.Config, string, error) {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}
	if cmd.Flags().Changed("color") {
		cli.Color = colorMode(cmd)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loaded, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cli,
	})
	if err != nil {
		return nil, "", errors.Join(errors.New("failed to load configuration"), err)
	}

	for _, warning := range loaded.Warnings {
		logger.Warn(warning)
	}
	if len(loaded.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loaded.LoadedFrom)
	}
	return loaded.Config, workDir, nil
}
