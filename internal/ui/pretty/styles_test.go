package pretty_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gocst/internal/ui/pretty"
	"github.com/yaklabco/gocst/pkg/config"
)

func TestNewStyles_PlainRendersTextUnchanged(t *testing.T) {
	styles := pretty.NewStyles(false)

	for name, style := range map[string]lipgloss.Style{
		"error":   styles.Error,
		"bold":    styles.Bold,
		"add":     styles.DiffAdd,
		"node":    styles.NodeKind,
		"caret":   styles.Caret,
		"success": styles.Success,
	} {
		assert.Equal(t, "int x;", style.Render("int x;"), name)
	}
}

func TestNewStyles_ColorSetsAttributes(t *testing.T) {
	styles := pretty.NewStyles(true)

	assert.True(t, styles.Error.GetBold())
	assert.True(t, styles.Suggestion.GetItalic())
	assert.Equal(t, lipgloss.Color("10"), styles.DiffAdd.GetForeground())
	assert.Equal(t, lipgloss.Color("9"), styles.DiffRemove.GetForeground())
	assert.NotEqual(t, styles.Warning.GetForeground(), styles.Error.GetForeground())
}

func TestIsColorEnabled(t *testing.T) {
	tests := []struct {
		name    string
		mode    config.ColorMode
		noColor string
		want    bool
	}{
		{name: "always on buffer", mode: config.ColorAlways, want: true},
		{name: "always ignores NO_COLOR", mode: config.ColorAlways, noColor: "1", want: true},
		{name: "never", mode: config.ColorNever, want: false},
		{name: "auto on buffer", mode: config.ColorAuto, want: false},
		{name: "empty mode is auto", mode: "", want: false},
		{name: "unknown mode is auto", mode: "sometimes", want: false},
		{name: "auto with NO_COLOR", mode: config.ColorAuto, noColor: "1", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			assert.Equal(t, tt.want, pretty.IsColorEnabled(tt.mode, &bytes.Buffer{}))
		})
	}
}

func TestIsColorEnabled_NeverOnStdout(t *testing.T) {
	assert.False(t, pretty.IsColorEnabled(config.ColorNever, os.Stdout))
}
