// Package configloader resolves the effective configuration from defaults,
// system, user, and project files, an explicit --config file, GOCST_*
// environment variables, and command-line flags.
package configloader

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/syntax"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// Fs is the filesystem config files are read from. Defaults to the OS.
	Fs afero.Fs

	// WorkingDir is the directory project discovery starts from.
	// Defaults to the current working directory.
	WorkingDir string

	// ExplicitPath is the --config file. It is loaded after project config.
	ExplicitPath string

	IgnoreSystemConfig  bool
	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool

	// Env looks up environment variables. Defaults to os.LookupEnv.
	Env func(string) (string, bool)

	// CLIConfig holds values from command-line flags. Non-zero fields
	// take precedence over every other source.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were loaded, lowest precedence first.
	LoadedFrom []string

	// Warnings contains non-fatal issues found while loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (GOCST_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.gocst.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/gocst/config.yaml)
//  6. System config (/etc/gocst/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Env == nil {
		opts.Env = os.LookupEnv
	}

	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, opts.Fs, workDir, opts.Env)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	layers := []struct {
		name   string
		path   string
		ignore bool
	}{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig},
		{"explicit", paths.Explicit, false},
	}
	for _, layer := range layers {
		if layer.ignore || layer.path == "" {
			continue
		}
		cfg, err = loadConfigFile(opts.Fs, layer.path, cfg)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg, opts.Env); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	normalizeDiagnosticKeys(cfg, result)

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// loadConfigFile decodes path on top of base. Keys present in the file
// replace the base values; diagnostics entries merge per kind.
func loadConfigFile(fsys afero.Fs, path string, base *config.Config) (*config.Config, error) {
	content, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	layer := base.Clone()
	diags := layer.Diagnostics
	layer.Diagnostics = nil
	if err := yaml.Unmarshal(content, layer); err != nil {
		return nil, &ValidationError{FilePath: path, Message: fmt.Sprintf("parse YAML: %v", err)}
	}
	layer.Diagnostics = mergeDiagnostics(diags, layer.Diagnostics)

	fileCheck := ValidateWithFile(layer, path)
	if !fileCheck.Valid() {
		return nil, &fileCheck.Errors[0]
	}
	return layer, nil
}

// normalizeDiagnosticKeys rewrites diagnostics keys given by name to their
// IDs so later lookups need only one form. Unknown keys are kept for the
// validator to report.
func normalizeDiagnosticKeys(cfg *config.Config, result *LoadResult) {
	if len(cfg.Diagnostics) == 0 {
		return
	}

	normalized := make(map[string]config.DiagnosticConfig, len(cfg.Diagnostics))
	seen := make(map[string]string)

	keys := make([]string, 0, len(cfg.Diagnostics))
	for key := range cfg.Diagnostics {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		dc := cfg.Diagnostics[key]
		kind, ok := syntax.LookupDiagnosticKind(key)
		if !ok {
			normalized[key] = dc
			continue
		}
		id := kind.ID()
		if original, dup := seen[id]; dup {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("duplicate diagnostics configuration: %q and %q both refer to %s; merging", original, key, id))
			dc = mergeDiagnosticConfig(normalized[id], dc)
		}
		seen[id] = key
		normalized[id] = dc
	}
	cfg.Diagnostics = normalized
}
