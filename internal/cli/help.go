package cli

import (
	"io"
	"regexp"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocst/internal/ui/pretty"
	"github.com/yaklabco/gocst/pkg/config"
)

// flagName matches "-f" and "--flag" at the start of a flag usage column.
var flagName = regexp.MustCompile(`(^|\s)(--?[A-Za-z][\w-]*)`)

// helpTemplate is cobra's default help layout with styling hooks.
const helpTemplate = `{{with (or .Long .Short)}}{{ trimTrailingWhitespaces . }}

{{end}}{{ heading "Usage:" }}{{if .Runnable}}
  {{ command .UseLine }}{{end}}{{if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}{{if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ join .Aliases ", " }}{{end}}{{if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}{{end}}{{if .HasAvailableSubCommands}}

{{ heading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags.FlagUsages }}{{end}}{{if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags.FlagUsages }}{{end}}{{if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.{{end}}
`

// applyHelp installs styled help and usage output on cmd and its children.
func applyHelp(cmd *cobra.Command, mode config.ColorMode, writer io.Writer) {
	styles := pretty.NewStyles(pretty.IsColorEnabled(mode, writer))

	funcs := template.FuncMap{
		"heading":                 styles.Warning.Render,
		"command":                 styles.Bold.Render,
		"subcommand":              styles.Success.Render,
		"dim":                     styles.Dim.Render,
		"join":                    strings.Join,
		"rpad":                    rpad,
		"trimTrailingWhitespaces": trimTrailingWhitespaces,
		"flags": func(usages string) string {
			return styleFlags(styles, usages)
		},
	}
	tmpl := template.Must(template.New("help").Funcs(funcs).Parse(helpTemplate))

	render := func(c *cobra.Command) error {
		return tmpl.Execute(c.OutOrStdout(), c)
	}
	cmd.SetUsageFunc(render)
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := render(c); err != nil {
			c.PrintErrln(err)
		}
	})
}

// styleFlags colors flag names in pflag's usage block and leaves the
// alignment pflag computed untouched.
func styleFlags(styles *pretty.Styles, usages string) string {
	lines := strings.Split(strings.TrimRight(usages, "\n"), "\n")
	for i, line := range lines {
		// Flag names end where the description column begins.
		head, tail, found := strings.Cut(strings.TrimLeft(line, " "), "   ")
		if !found {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
		head = flagName.ReplaceAllStringFunc(head, func(m string) string {
			name := strings.TrimLeft(m, " ")
			return m[:len(m)-len(name)] + styles.Info.Render(name)
		})
		lines[i] = indent + head + "   " + tail
	}
	return strings.Join(lines, "\n")
}

func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
