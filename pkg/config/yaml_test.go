package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gocst/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies", func(t *testing.T) {
		t.Parallel()
		enabled := true
		severity := "error"
		original := config.NewConfig()
		original.Diagnostics["CST003"] = config.DiagnosticConfig{Enabled: &enabled, Severity: &severity}
		original.Enable = []string{"CST008"}

		clone := original.Clone()
		require.NotSame(t, original, clone)
		assert.Equal(t, original, clone)

		*clone.Diagnostics["CST003"].Severity = "warning"
		clone.Ignore[0] = "changed"
		clone.Snippets.Languages[0] = "cpp"
		clone.Enable[0] = "CST001"

		assert.Equal(t, "error", *original.Diagnostics["CST003"].Severity)
		assert.Equal(t, ".git/**", original.Ignore[0])
		assert.Equal(t, "c", original.Snippets.Languages[0])
		assert.Equal(t, "CST008", original.Enable[0])
	})
}

func TestYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	severity := "warning"
	cfg := config.NewConfig()
	cfg.Fix = true
	cfg.Diagnostics["empty-declaration"] = config.DiagnosticConfig{Severity: &severity}
	cfg.Enable = []string{"not persisted"}

	data, err := cfg.ToYAML()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "not persisted")

	back, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.True(t, back.Fix)
	assert.Equal(t, cfg.Include, back.Include)
	assert.Equal(t, "warning", *back.Diagnostics["empty-declaration"].Severity)
	assert.Nil(t, back.Enable)
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromYAML([]byte("jobs: 3\nsnippets:\n  enabled: true\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Jobs)
	assert.True(t, cfg.Snippets.Enabled)
	assert.NotNil(t, cfg.Diagnostics)

	_, err = config.FromYAML([]byte("jobs: [1"))
	require.Error(t, err)
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	for _, full := range []bool{false, true} {
		out := config.GenerateTemplate(config.TemplateOptions{Full: full})
		assert.True(t, strings.HasPrefix(string(out), "# gocst configuration"))

		var parsed map[string]any
		require.NoError(t, yaml.Unmarshal(out, &parsed), "template must be valid YAML")

		cfg, err := config.FromYAML(out)
		require.NoError(t, err)
		assert.Equal(t, config.FormatText, cfg.Format)
		assert.Equal(t, []string{"**/*.c", "**/*.h"}, cfg.Include)

		if full {
			require.Contains(t, cfg.Diagnostics, "expected-token")
			assert.Equal(t, "error", *cfg.Diagnostics["expected-token"].Severity)
			assert.Equal(t, "warning", *cfg.Diagnostics["empty-declaration"].Severity)
		} else {
			assert.Empty(t, cfg.Diagnostics)
		}
	}
}
