package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gocst/internal/ui/pretty"
	"github.com/yaklabco/gocst/pkg/check"
	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/syntax"
)

// kindInfo is the JSON form of one diagnostic kind.
type kindInfo struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Severity config.Severity `json:"severity"`
	Enabled  bool            `json:"enabled"`
	Fixable  bool            `json:"fixable"`
	Summary  string          `json:"summary"`
}

func newKindsCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List diagnostic kinds",
		Long: `List every diagnostic kind with its ID, name and summary.

The severity and enabled columns reflect the loaded configuration, so
this command also shows the effect of a config file or of --enable and
--disable settings in it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runKinds(cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print kinds as JSON")

	return cmd
}

func runKinds(cmd *cobra.Command, jsonOutput bool) error {
	cfg, _, err := loadConfig(cmd, &config.Config{})
	if err != nil {
		return err
	}
	engine := check.NewEngine(cfg)

	infos := make([]kindInfo, 0, len(syntax.AllDiagnosticKinds()))
	for _, kind := range syntax.AllDiagnosticKinds() {
		resolved := engine.Kind(kind)
		infos = append(infos, kindInfo{
			ID:       kind.ID(),
			Name:     kind.Name(),
			Severity: resolved.Severity,
			Enabled:  resolved.Enabled,
			Fixable:  check.IsFixable(kind),
			Summary:  kind.Summary(),
		})
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(infos); err != nil {
			return fmt.Errorf("encode kinds: %w", err)
		}
		return nil
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(cfg.Color, out))
	table := pretty.NewTable(styles, terminalWidth(out),
		pretty.Column{Header: "ID"},
		pretty.Column{Header: "NAME"},
		pretty.Column{Header: "SEVERITY"},
		pretty.Column{Header: "FIX"},
		pretty.Column{Header: "SUMMARY", Flex: true, MinWidth: 20},
	)
	for _, info := range infos {
		severity := string(info.Severity)
		if !info.Enabled {
			severity = "off"
		}
		fix := ""
		if info.Fixable {
			fix = "yes"
		}
		table.AddRow("", info.ID, info.Name, severity, fix, info.Summary)
	}
	fmt.Fprint(out, table.String())
	return nil
}

// terminalWidth returns the width of w when it is a terminal, or 0.
func terminalWidth(w any) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
