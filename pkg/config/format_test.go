package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gocst/pkg/config"
)

func TestFormatKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format config.KindFormat
		id     string
		kind   string
		want   string
	}{
		{"name format", config.KindFormatName, "CST002", "expected-token", "expected-token"},
		{"id format", config.KindFormatID, "CST002", "expected-token", "CST002"},
		{"combined format", config.KindFormatCombined, "CST002", "expected-token", "CST002/expected-token"},
		{"empty name", config.KindFormatName, "CST002", "", "CST002"},
		{"default to name", config.KindFormat(""), "CST002", "expected-token", "expected-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, config.FormatKind(tt.format, tt.id, tt.kind))
		})
	}
}

func TestSeverity_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, config.SeverityError.IsValid())
	assert.True(t, config.SeverityInfo.IsValid())
	assert.False(t, config.Severity("fatal").IsValid())
}
