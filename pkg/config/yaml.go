package config

import (
	"bytes"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// YAMLIndent is the indentation used when writing configuration.
const YAMLIndent = 2

// ToYAML serializes the configuration.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}
	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes. Fields absent from data
// keep their zero values; layering onto defaults is the loader's job.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if cfg.Diagnostics == nil {
		cfg.Diagnostics = make(map[string]DiagnosticConfig)
	}
	return cfg, nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Include = slices.Clone(c.Include)
	clone.Ignore = slices.Clone(c.Ignore)
	clone.Enable = slices.Clone(c.Enable)
	clone.Disable = slices.Clone(c.Disable)
	clone.Snippets.Languages = slices.Clone(c.Snippets.Languages)
	if c.Diagnostics != nil {
		clone.Diagnostics = make(map[string]DiagnosticConfig, len(c.Diagnostics))
		for k, v := range c.Diagnostics {
			clone.Diagnostics[k] = v.clone()
		}
	}
	return &clone
}

func (dc DiagnosticConfig) clone() DiagnosticConfig {
	var out DiagnosticConfig
	if dc.Enabled != nil {
		enabled := *dc.Enabled
		out.Enabled = &enabled
	}
	if dc.Severity != nil {
		severity := *dc.Severity
		out.Severity = &severity
	}
	return out
}
