package configloader

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/gocst/pkg/config"
)

// EnvVarPrefix is the prefix of every configuration environment variable.
const EnvVarPrefix = "GOCST_"

type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

type envMapping struct {
	typ         envFieldType
	description string
	apply       func(cfg *config.Config, v any)
}

//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FORMAT": {envTypeString, "Output format: text, json, sarif, summary, or diff",
		func(c *config.Config, v any) { c.Format = config.OutputFormat(v.(string)) }},
	"KIND_FORMAT": {envTypeString, "Kind display: name, id, or combined",
		func(c *config.Config, v any) { c.KindFormat = config.KindFormat(v.(string)) }},
	"COLOR": {envTypeString, "Styled output: auto, always, or never",
		func(c *config.Config, v any) { c.Color = config.ColorMode(v.(string)) }},
	"JOBS": {envTypeInt, "Number of parallel workers (0 = auto)",
		func(c *config.Config, v any) { c.Jobs = v.(int) }},
	"INCLUDE": {envTypeSlice, "Comma-separated include patterns",
		func(c *config.Config, v any) { c.Include = v.([]string) }},
	"IGNORE": {envTypeSlice, "Comma-separated ignore patterns",
		func(c *config.Config, v any) { c.Ignore = v.([]string) }},
	"FOLLOW_SYMLINKS": {envTypeBool, "Follow symbolic links while walking",
		func(c *config.Config, v any) { c.FollowSymlinks = v.(bool) }},
	"CHECK_INTERVAL": {envTypeInt, "Tokens between cancellation checks",
		func(c *config.Config, v any) { c.CheckInterval = v.(int) }},
	"FIX": {envTypeBool, "Insert missing punctuation: true or false",
		func(c *config.Config, v any) { c.Fix = v.(bool) }},
	"DRY_RUN": {envTypeBool, "Print fixes as a diff instead of writing",
		func(c *config.Config, v any) { c.DryRun = v.(bool) }},
	"BACKUPS": {envTypeBool, "Keep a .gocst.bak copy of fixed files",
		func(c *config.Config, v any) { c.Backups = v.(bool) }},
	"MAX_FIX_PASSES": {envTypeInt, "Upper bound on fix passes per file",
		func(c *config.Config, v any) { c.MaxFixPasses = v.(int) }},
	"SNIPPETS": {envTypeBool, "Check C code blocks in Markdown files",
		func(c *config.Config, v any) { c.Snippets.Enabled = v.(bool) }},
	"TAB_WIDTH": {envTypeInt, "Tab width when .editorconfig is silent",
		func(c *config.Config, v any) { c.TabWidth = v.(int) }},
	"FMT_INDENT_WIDTH": {envTypeInt, "Spaces per indentation level for fmt",
		func(c *config.Config, v any) { c.Layout.IndentWidth = v.(int) }},
	"FMT_USE_TABS": {envTypeBool, "Indent with tabs in fmt",
		func(c *config.Config, v any) { c.Layout.UseTabs = v.(bool) }},
}

// LoadFromEnv applies GOCST_* environment overrides to cfg. Empty values
// are ignored.
func LoadFromEnv(cfg *config.Config, lookup func(string) (string, bool)) error {
	if cfg == nil {
		return nil
	}

	for _, suffix := range slices.Sorted(maps.Keys(envMappings)) {
		name := EnvVarPrefix + suffix
		value, ok := lookup(name)
		if !ok || value == "" {
			continue
		}

		mapping := envMappings[suffix]
		parsed, err := parseEnvValue(mapping.typ, value, name)
		if err != nil {
			return err
		}
		mapping.apply(cfg, parsed)
	}
	return nil
}

func parseEnvValue(typ envFieldType, value, name string) (any, error) {
	switch typ {
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", name, value)
		}
		return b, nil
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid integer for %s: %q", name, value)
		}
		return i, nil
	case envTypeSlice:
		return parseSliceValue(value), nil
	default:
		return value, nil
	}
}

// parseSliceValue splits a comma-separated list and trims each element.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ListEnvVars returns every supported environment variable with a
// description.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envMappings))
	for suffix, m := range envMappings {
		out[EnvVarPrefix+suffix] = m.description
	}
	return out
}
