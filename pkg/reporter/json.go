package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gocst/pkg/analysis"
)

// JSONOutput is the top-level JSON document.
type JSONOutput struct {
	Tool        string `json:"tool"`
	ToolVersion string `json:"toolVersion"`
	*analysis.Report
}

// JSONRenderer writes an analysis.Report as JSON.
type JSONRenderer struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONRenderer creates a new JSON renderer.
func NewJSONRenderer(opts Options) *JSONRenderer {
	return &JSONRenderer{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Render implements Renderer.
func (r *JSONRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	output := JSONOutput{Tool: toolName, ToolVersion: r.opts.Version, Report: report}
	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
