package check

import (
	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/syntax"
)

// ResolvedKind pairs a diagnostic kind with its effective settings.
type ResolvedKind struct {
	Kind     syntax.DiagnosticKind
	Enabled  bool
	Severity config.Severity
}

// ResolveKinds applies configuration to the defaults of every kind.
// Order of precedence: --enable/--disable, then the diagnostics map, then
// the kind's defaults.
func ResolveKinds(cfg *config.Config) map[syntax.DiagnosticKind]ResolvedKind {
	out := make(map[syntax.DiagnosticKind]ResolvedKind)
	for _, kind := range syntax.AllDiagnosticKinds() {
		out[kind] = resolveKind(kind, cfg)
	}
	return out
}

func resolveKind(kind syntax.DiagnosticKind, cfg *config.Config) ResolvedKind {
	rk := ResolvedKind{
		Kind:     kind,
		Enabled:  true,
		Severity: config.Severity(kind.DefaultSeverity().String()),
	}
	if cfg == nil {
		return rk
	}

	for key, dc := range cfg.Diagnostics {
		if k, ok := syntax.LookupDiagnosticKind(key); !ok || k != kind {
			continue
		}
		if dc.Enabled != nil {
			rk.Enabled = *dc.Enabled
		}
		if dc.Severity != nil {
			rk.Severity = config.Severity(*dc.Severity)
		}
	}

	if matches(cfg.Enable, kind) {
		rk.Enabled = true
	}
	if matches(cfg.Disable, kind) {
		rk.Enabled = false
	}
	return rk
}

func matches(keys []string, kind syntax.DiagnosticKind) bool {
	for _, key := range keys {
		if k, ok := syntax.LookupDiagnosticKind(key); ok && k == kind {
			return true
		}
	}
	return false
}
