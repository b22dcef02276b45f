package configloader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/term"

	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/fsutil"
)

// ErrExists is returned by WriteTemplate when the target exists and
// overwriting was not allowed.
var ErrExists = errors.New("config file already exists")

// configFilePermissions is the file mode for configuration files.
const configFilePermissions = 0o644

// WriteOptions controls WriteTemplate.
type WriteOptions struct {
	Fs   afero.Fs
	Path string
	Full bool

	// Force overwrites without asking.
	Force bool

	// Prompt is read for an overwrite confirmation when the target exists,
	// Force is unset and Interactive reports true.
	Prompt      io.Reader
	PromptOut   io.Writer
	Interactive bool
}

// WriteTemplate writes a commented default configuration atomically.
func WriteTemplate(ctx context.Context, opts WriteOptions) error {
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	if exists, err := afero.Exists(fsys, opts.Path); err != nil {
		return fmt.Errorf("stat %s: %w", opts.Path, err)
	} else if exists && !opts.Force {
		if !opts.Interactive || opts.Prompt == nil {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrExists, opts.Path)
		}
		ok, err := confirm(opts.Prompt, opts.PromptOut, fmt.Sprintf("%s exists. Overwrite? [y/N] ", opts.Path))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrExists, opts.Path)
		}
	}

	content := config.GenerateTemplate(config.TemplateOptions{Full: opts.Full})
	if err := fsutil.WriteAtomic(ctx, fsys, opts.Path, content, configFilePermissions); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	if out != nil {
		if _, err := io.WriteString(out, question); err != nil {
			return false, fmt.Errorf("write prompt: %w", err)
		}
	}
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read response: %w", err)
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// IsInteractive reports whether in is a terminal that can answer prompts.
func IsInteractive(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
