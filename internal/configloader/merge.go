package configloader

import "github.com/yaklabco/gocst/pkg/config"

// merge applies command-line values to base. Non-zero scalars and non-nil
// slices in override win; a false bool cannot unset a true one, since flags
// only ever turn options on.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Format != "" {
		result.Format = override.Format
	}
	if override.KindFormat != "" {
		result.KindFormat = override.KindFormat
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.CheckInterval != 0 {
		result.CheckInterval = override.CheckInterval
	}
	if override.MaxFixPasses != 0 {
		result.MaxFixPasses = override.MaxFixPasses
	}
	if override.TabWidth != 0 {
		result.TabWidth = override.TabWidth
	}
	if override.Layout.IndentWidth != 0 {
		result.Layout.IndentWidth = override.Layout.IndentWidth
	}

	if override.Fix {
		result.Fix = true
	}
	if override.DryRun {
		result.DryRun = true
	}
	if override.Backups {
		result.Backups = true
	}
	if override.FollowSymlinks {
		result.FollowSymlinks = true
	}
	if override.Layout.UseTabs {
		result.Layout.UseTabs = true
	}
	if override.Snippets.Enabled {
		result.Snippets.Enabled = true
	}
	if override.Snippets.Detect {
		result.Snippets.Detect = true
	}
	if override.Snippets.Languages != nil {
		result.Snippets.Languages = override.Snippets.Languages
	}

	if override.Include != nil {
		result.Include = override.Include
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}
	if override.Enable != nil {
		result.Enable = override.Enable
	}
	if override.Disable != nil {
		result.Disable = override.Disable
	}

	result.Diagnostics = mergeDiagnostics(result.Diagnostics, override.Diagnostics)
	return result
}

// mergeDiagnostics merges per-kind settings, override winning per field.
func mergeDiagnostics(base, override map[string]config.DiagnosticConfig) map[string]config.DiagnosticConfig {
	result := make(map[string]config.DiagnosticConfig, len(base)+len(override))
	for key, val := range base {
		result[key] = val
	}
	for key, val := range override {
		if existing, ok := result[key]; ok {
			result[key] = mergeDiagnosticConfig(existing, val)
		} else {
			result[key] = val
		}
	}
	return result
}

func mergeDiagnosticConfig(base, override config.DiagnosticConfig) config.DiagnosticConfig {
	result := base
	if override.Enabled != nil {
		result.Enabled = override.Enabled
	}
	if override.Severity != nil {
		result.Severity = override.Severity
	}
	return result
}

// MergeAll merges configurations in order, later ones taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}
	result := configs[0]
	for _, c := range configs[1:] {
		result = merge(result, c)
	}
	return result
}
