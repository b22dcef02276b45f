package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/yaklabco/gocst/pkg/analysis"
	"github.com/yaklabco/gocst/pkg/check"
	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/runner"
	"github.com/yaklabco/gocst/pkg/syntax"
)

const (
	toolName       = "gocst"
	toolInfoURI    = "https://github.com/yaklabco/gocst"
	sarifVersion   = "2.1.0"
	sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
)

// SARIFOutput represents the root SARIF document.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver contains tool metadata and the diagnostic kinds as rules.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes one diagnostic kind.
type SARIFRule struct {
	ID               string               `json:"id"`
	Name             string               `json:"name,omitempty"`
	ShortDescription SARIFMultiformatText `json:"shortDescription"`
	DefaultConfig    *SARIFRuleConfig     `json:"defaultConfiguration,omitempty"`
}

// SARIFMultiformatText contains text in multiple formats.
type SARIFMultiformatText struct {
	Text string `json:"text"`
}

// SARIFRuleConfig contains rule configuration.
type SARIFRuleConfig struct {
	Level string `json:"level"`
}

// SARIFResult represents a single diagnostic.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
	Fixes     []SARIFFix      `json:"fixes,omitempty"`
}

// SARIFMessage contains the result message.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation describes a code location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation contains file path and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           SARIFRegion           `json:"region"`
}

// SARIFArtifactLocation contains the file URI.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion describes the affected text region. Line and column regions
// locate results; byte regions locate fix replacements.
type SARIFRegion struct {
	StartLine   int  `json:"startLine,omitempty"`
	StartColumn int  `json:"startColumn,omitempty"`
	EndLine     int  `json:"endLine,omitempty"`
	EndColumn   int  `json:"endColumn,omitempty"`
	ByteOffset  *int `json:"byteOffset,omitempty"`
	ByteLength  *int `json:"byteLength,omitempty"`
}

// SARIFFix represents a proposed fix.
type SARIFFix struct {
	Description     SARIFMessage          `json:"description"`
	ArtifactChanges []SARIFArtifactChange `json:"artifactChanges"`
}

// SARIFArtifactChange describes changes to a file.
type SARIFArtifactChange struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Replacements     []SARIFReplacement    `json:"replacements"`
}

// SARIFReplacement describes a text replacement.
type SARIFReplacement struct {
	DeletedRegion   SARIFRegion           `json:"deletedRegion"`
	InsertedContent *SARIFInsertedContent `json:"insertedContent,omitempty"`
}

// SARIFInsertedContent contains the replacement text.
type SARIFInsertedContent struct {
	Text string `json:"text"`
}

// SARIFReporter formats results as SARIF.
type SARIFReporter struct {
	opts Options
	out  io.Writer
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(opts Options) *SARIFReporter {
	return &SARIFReporter{
		opts: opts,
		out:  opts.Writer,
	}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.out)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode SARIF: %w", err)
	}

	return len(output.Runs[0].Results), nil
}

func (r *SARIFReporter) buildOutput(result *runner.Result) *SARIFOutput {
	run := SARIFRun{
		Tool: SARIFTool{
			Driver: SARIFDriver{
				Name:           toolName,
				Version:        r.opts.Version,
				InformationURI: toolInfoURI,
				Rules:          make([]SARIFRule, 0),
			},
		},
		Results: make([]SARIFResult, 0),
	}

	// Every kind is listed so ruleIndex is stable across runs.
	ruleIndex := make(map[syntax.DiagnosticKind]int)
	for i, kind := range syntax.AllDiagnosticKinds() {
		ruleIndex[kind] = i
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, SARIFRule{
			ID:               kind.ID(),
			Name:             kind.Name(),
			ShortDescription: SARIFMultiformatText{Text: kind.Summary()},
			DefaultConfig: &SARIFRuleConfig{
				Level: severityToSARIFLevel(config.Severity(kind.DefaultSeverity().String())),
			},
		})
	}

	if result != nil {
		for _, file := range result.Files {
			if file.Result == nil || file.Result.FileResult == nil {
				continue
			}
			uri := filepath.ToSlash(analysis.RelativePath(file.Path, r.opts.WorkingDir))
			for _, diag := range file.Result.Diagnostics {
				run.Results = append(run.Results, sarifResult(&diag, uri, ruleIndex[diag.Kind]))
			}
		}
	}

	return &SARIFOutput{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs:    []SARIFRun{run},
	}
}

func sarifResult(diag *check.Diagnostic, uri string, index int) SARIFResult {
	location := SARIFArtifactLocation{URI: uri}
	res := SARIFResult{
		RuleID:    diag.Kind.ID(),
		RuleIndex: index,
		Level:     severityToSARIFLevel(diag.Severity),
		Message:   SARIFMessage{Text: diag.Message},
		Locations: []SARIFLocation{{
			PhysicalLocation: SARIFPhysicalLocation{
				ArtifactLocation: location,
				Region: SARIFRegion{
					StartLine:   diag.StartLine,
					StartColumn: diag.StartColumn,
					EndLine:     diag.EndLine,
					EndColumn:   diag.EndColumn,
				},
			},
		}},
	}

	if !diag.HasFix() {
		return res
	}

	change := SARIFArtifactChange{ArtifactLocation: location}
	for _, edit := range diag.FixEdits {
		offset, length := edit.StartOffset, edit.EndOffset-edit.StartOffset
		change.Replacements = append(change.Replacements, SARIFReplacement{
			DeletedRegion:   SARIFRegion{ByteOffset: &offset, ByteLength: &length},
			InsertedContent: &SARIFInsertedContent{Text: edit.NewText},
		})
	}
	description := diag.Suggestion
	if description == "" {
		description = diag.Message
	}
	res.Fixes = []SARIFFix{{
		Description:     SARIFMessage{Text: description},
		ArtifactChanges: []SARIFArtifactChange{change},
	}}
	return res
}

func severityToSARIFLevel(severity config.Severity) string {
	switch severity {
	case config.SeverityError:
		return "error"
	case config.SeverityInfo:
		return "note"
	default:
		return "warning"
	}
}
