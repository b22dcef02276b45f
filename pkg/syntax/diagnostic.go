package syntax

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gocst/pkg/source"
)

// Severity indicates how serious a diagnostic is.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// DiagnosticKind classifies a lexical or syntactic problem.
type DiagnosticKind uint8

const (
	DiagExpectedExpression DiagnosticKind = iota + 1
	DiagExpectedToken
	DiagUnexpectedToken
	DiagInvalidCharacter
	DiagUnterminatedString
	DiagUnterminatedChar
	DiagUnterminatedComment
	DiagEmptyDeclaration
	DiagNestingTooDeep
)

type diagnosticInfo struct {
	id       string
	name     string
	severity Severity
	summary  string
}

//nolint:gochecknoglobals // Read-only lookup table.
var diagnosticInfos = map[DiagnosticKind]diagnosticInfo{
	DiagExpectedExpression:  {"CST001", "expected-expression", SeverityError, "An expression is required here"},
	DiagExpectedToken:       {"CST002", "expected-token", SeverityError, "A required token is missing"},
	DiagUnexpectedToken:     {"CST003", "unexpected-token", SeverityError, "Tokens were skipped to resynchronize"},
	DiagInvalidCharacter:    {"CST004", "invalid-character", SeverityError, "A character is not valid in source text"},
	DiagUnterminatedString:  {"CST005", "unterminated-string", SeverityError, "String literal has no closing quote"},
	DiagUnterminatedChar:    {"CST006", "unterminated-char", SeverityError, "Character literal has no closing quote"},
	DiagUnterminatedComment: {"CST007", "unterminated-comment", SeverityError, "Block comment runs to end of file"},
	DiagEmptyDeclaration:    {"CST008", "empty-declaration", SeverityWarning, "Stray semicolon at file scope"},
	DiagNestingTooDeep:      {"CST009", "nesting-too-deep", SeverityError, "Constructs nest deeper than the parser follows"},
}

// AllDiagnosticKinds returns every kind in ID order.
func AllDiagnosticKinds() []DiagnosticKind {
	return []DiagnosticKind{
		DiagExpectedExpression,
		DiagExpectedToken,
		DiagUnexpectedToken,
		DiagInvalidCharacter,
		DiagUnterminatedString,
		DiagUnterminatedChar,
		DiagUnterminatedComment,
		DiagEmptyDeclaration,
		DiagNestingTooDeep,
	}
}

// LookupDiagnosticKind resolves an ID ("CST001") or name ("expected-expression").
func LookupDiagnosticKind(key string) (DiagnosticKind, bool) {
	for kind, info := range diagnosticInfos {
		if strings.EqualFold(info.id, key) || info.name == key {
			return kind, true
		}
	}
	return 0, false
}

// ID returns the stable identifier, e.g. "CST001".
func (k DiagnosticKind) ID() string { return diagnosticInfos[k].id }

// Name returns the kebab-case name, e.g. "expected-expression".
func (k DiagnosticKind) Name() string { return diagnosticInfos[k].name }

// DefaultSeverity returns the severity used unless configuration overrides it.
func (k DiagnosticKind) DefaultSeverity() Severity { return diagnosticInfos[k].severity }

// Summary returns a one-line description of the kind.
func (k DiagnosticKind) Summary() string { return diagnosticInfos[k].summary }

func (k DiagnosticKind) String() string {
	if info, ok := diagnosticInfos[k]; ok {
		return info.name
	}
	return fmt.Sprintf("DiagnosticKind(%d)", uint8(k))
}

// NodeDiagnostic is a diagnostic stored on the node that produced it.
// Offset is relative to the start of that node, so the diagnostic moves
// with the node when the node is reused at a different position.
type NodeDiagnostic struct {
	Kind    DiagnosticKind
	Offset  int
	Length  int
	Message string
}

// Diagnostic is a positioned problem report: (severity, span, message, kind).
type Diagnostic struct {
	Kind     DiagnosticKind
	Severity Severity
	Span     source.Span
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s %s: %s", d.Span, d.Severity, d.Kind.ID(), d.Message)
}
