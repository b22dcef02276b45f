package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gocst/internal/configloader"
	"github.com/yaklabco/gocst/internal/logging"
	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/fsutil"
	"github.com/yaklabco/gocst/pkg/lexer"
	"github.com/yaklabco/gocst/pkg/script"
	"github.com/yaklabco/gocst/pkg/syntax"
)

const (
	replHistoryFile = ".gocst_history"
	replPrompt      = "gocst> "
	replContinue    = "  ...> "
)

const replHelp = `Input is appended to the document and reparsed incrementally.
Lines are collected until every bracket is closed.

Commands:
  :tree     print the syntax tree
  :text     print the document
  :reset    clear the document
  :write F  write the document to file F
  :help     show this help
  :quit     exit
`

// lineReader reads one line of input after showing a prompt.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// scanReader reads lines from a non-terminal input without echoing prompts.
type scanReader struct {
	scanner *bufio.Scanner
}

func (r *scanReader) Prompt(string) (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func newReplCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl [FILE]",
		Short: "Edit a document interactively and watch it reparse",
		Long: `Start an interactive session on an empty document, or on FILE.

Each entry is appended to the document. The reparse that absorbed it, the
regions that changed and the resulting diagnostics are printed after
every entry. Entries continue over several lines while a brace, bracket
or parenthesis is open.

When standard input is not a terminal, lines are read without prompts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd, args)
		},
	}
	return cmd
}

func runRepl(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	cfg, _, err := loadConfig(cmd, &config.Config{})
	if err != nil {
		return err
	}

	path, initial := "repl.c", ""
	if len(args) == 1 {
		path = args[0]
		data, err := readSource(cmd, fsutil.OS(), path)
		if err != nil {
			return err
		}
		initial = string(data)
	}

	sess, err := script.NewSession(ctx, displayPath(path), initial, script.WithCheckInterval(cfg.CheckInterval))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printer := newTreePrinter(out, cfg, true)

	reader, closeReader := newLineReader(cmd)
	defer closeReader()

	for entry := 1; ; {
		code, ok := readEntry(reader)
		if !ok {
			return nil
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, ":") {
			quit, err := runReplCommand(cmd, trimmed, sess)
			if err != nil {
				fmt.Fprintln(out, printer.styles.Error.Render(err.Error()))
			}
			if quit {
				return nil
			}
			continue
		}

		text := sess.Text()
		if text != "" && !strings.HasSuffix(text, "\n") {
			code = "\n" + code
		}
		end := len(text)
		res, err := sess.Apply(ctx, fmt.Sprintf("entry %d", entry), script.EditSpec{
			Start: &end,
			End:   &end,
			Text:  code + "\n",
		})
		if err != nil {
			return fmt.Errorf("apply entry: %w", err)
		}
		logger.Debug("applied entry", logging.FieldStep, entry, logging.FieldSpans, len(res.Spans))
		printer.step(res.Name, res)
		entry++
	}
}

// runReplCommand runs a colon command and reports whether to exit.
func runReplCommand(cmd *cobra.Command, line string, sess *script.Session) (bool, error) {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":quit", ":q":
		return true, nil
	case ":help":
		fmt.Fprint(out, replHelp)
	case ":tree":
		return false, syntax.Dump(out, sess.Tree().Root(), syntax.DumpOptions{})
	case ":text":
		fmt.Fprint(out, sess.Text())
	case ":reset":
		if _, err := sess.Replace(ctx, "reset", ""); err != nil {
			return false, err
		}
	case ":write":
		if arg == "" {
			return false, errors.New("usage: :write FILE")
		}
		if err := fsutil.WriteAtomic(ctx, fsutil.OS(), arg, []byte(sess.Text()), outputFilePermissions); err != nil {
			return false, err
		}
		fmt.Fprintf(out, "wrote %s\n", arg)
	default:
		return false, fmt.Errorf("unknown command %s; type :help", name)
	}
	return false, nil
}

// newLineReader uses a line editor with history on a terminal, and plain
// line scanning otherwise.
func newLineReader(cmd *cobra.Command) (lineReader, func()) {
	in := cmd.InOrStdin()
	if !configloader.IsInteractive(in) {
		return &scanReader{scanner: bufio.NewScanner(in)}, func() {}
	}

	state := liner.NewLiner()
	state.SetCtrlCAborts(true)

	var histPath string
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, replHistoryFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = state.ReadHistory(f)
			_ = f.Close()
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "gocst "+cmd.Root().Version+". Type :help for commands, Ctrl+D to exit.")

	return &historyReader{State: state}, func() {
		if histPath != "" {
			if f, err := os.Create(histPath); err == nil {
				_, _ = state.WriteHistory(f)
				_ = f.Close()
			}
		}
		_ = state.Close()
	}
}

// historyReader records each entered line in the liner history.
type historyReader struct {
	*liner.State
}

func (r *historyReader) Prompt(prompt string) (string, error) {
	line, err := r.State.Prompt(prompt)
	if err == nil && strings.TrimSpace(line) != "" {
		r.AppendHistory(line)
	}
	return line, err
}

// readEntry reads lines until the brackets opened in them are closed. It
// returns false at end of input. Ctrl+C discards the pending entry.
func readEntry(reader lineReader) (string, bool) {
	var b strings.Builder
	for {
		prompt := replPrompt
		if b.Len() > 0 {
			prompt = replContinue
		}
		line, err := reader.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return b.String(), b.Len() > 0
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if !strings.HasPrefix(strings.TrimSpace(b.String()), ":") && bracketDepth(b.String()) > 0 {
			continue
		}
		return b.String(), true
	}
}

// bracketDepth counts the brackets left open in text. Brackets inside
// comments and literals are not counted.
func bracketDepth(text string) int {
	depth := 0
	for tok := range lexer.All(text) {
		switch tok.Kind {
		case syntax.TokenLBrace, syntax.TokenLParen, syntax.TokenLBracket:
			depth++
		case syntax.TokenRBrace, syntax.TokenRParen, syntax.TokenRBracket:
			depth--
		}
	}
	return depth
}
