//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default builds bin/gocst.
var Default = Build

// Aliases are the short names of frequent targets.
var Aliases = map[string]any{
	"b":     Build,
	"t":     Test.Default,
	"l":     Lint.Default,
	"c":     Check,
	"i":     Install,
	"fmt":   Lint.Fmt,
	"bench": Bench.Reparse,
	"fuzz":  Fuzz.Default,
}

// Target namespaces.
type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
	Fuzz  st.Namespace
)

// Build compiles bin/gocst with version info when any source is newer.
func Build() error {
	rebuild, err := target.Dir("bin/gocst", "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println("bin/gocst is up to date")
		return nil
	}
	fmt.Println("Building gocst...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", "bin/gocst", "./cmd/gocst")
}

// Check formats, lints and tests, in that order.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes the binary and coverage output.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install installs gocst to $GOBIN or $GOPATH/bin.
func Install() error {
	fmt.Println("Installing gocst...")
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/gocst")
}

// Default runs all tests with race detection and coverage.
func (Test) Default() error {
	fmt.Println("Testing...")
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", "pkgname-and-test-fails",
		"--",
		"-race",
		"-p", nCores,
		"./...",
		"-coverprofile=coverage.out",
	)
}

// Engine runs only the lexer, parser, reparser, diff and layout tests.
func (Test) Engine() error {
	fmt.Println("Running engine tests...")
	return sh.RunV("go", "test", "-race",
		"./pkg/lexer/...", "./pkg/syntax/...", "./pkg/parser/...",
		"./pkg/incremental/...", "./pkg/changes/...", "./pkg/format/...",
	)
}

// Default runs golangci-lint, fixing what it can unless CI is set.
func (Lint) Default() error {
	args := []string{"run", "./..."}
	if os.Getenv("CI") == "" {
		args = append(args, "--fix")
	}
	fmt.Println("Linting...")
	return sh.RunV("golangci-lint", args...)
}

// Fmt rewrites Go sources with gofmt.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// Gofmt fails when any Go source is not gofmt-clean.
func (Lint) Gofmt() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if out != "" {
		return fmt.Errorf("not gofmt-clean:\n%s", out)
	}
	return nil
}

// Gate runs every check CI runs, cheapest first.
func (CI) Gate() error {
	st.SerialDeps(
		Lint.Gofmt,
		Lint.Default,
		Build,
		Test.Default,
		CI.ModTidy,
		CI.Smoke,
	)
	fmt.Println("✓ CI gate passed")
	return nil
}

// ModTidy fails when go mod tidy would change go.mod or go.sum.
func (CI) ModTidy() error {
	files := []string{"go.mod", "go.sum"}
	before := make(map[string][]byte, len(files))
	for _, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		before[name] = data
	}

	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}

	for _, name := range files {
		after, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s after tidy: %w", name, err)
		}
		if !bytes.Equal(before[name], after) {
			return errors.New(name + " changed after 'go mod tidy'; commit the result")
		}
	}
	return nil
}

// Smoke runs the built binary over a scratch file: a clean check, a
// layout pass, and a check of the laid-out result.
func (CI) Smoke() error {
	st.Deps(Build)
	fmt.Println("Smoke-testing bin/gocst...")
	dir, err := os.MkdirTemp("", "gocst-smoke")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "smoke.c")
	src := "int add(int a,int b){return a+b;}\nint main(void){return add(1,2);}\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, args := range [][]string{
		{"check", path},
		{"fmt", "--write", path},
		{"fmt", "--list", path},
		{"check", path},
	} {
		if err := sh.RunV("bin/gocst", args...); err != nil {
			return fmt.Errorf("gocst %s: %w", strings.Join(args, " "), err)
		}
	}
	fmt.Println("✓ Smoke test passed")
	return nil
}

// Reparse compares incremental reparsing with a full parse of the same edit.
func (Bench) Reparse() error {
	fmt.Println("Running reparse benchmarks...")
	return sh.RunV("go", "test",
		"-run=^$",
		"-bench=Reparse|FullParseAfterEdit|Parse",
		"-benchmem",
		"-count=5",
		"./pkg/parser/...", "./pkg/incremental/...",
	)
}

// Default fuzzes the lexer, parser, reparser and layout for FUZZTIME each (default 30s).
func (Fuzz) Default() error {
	fuzzTime := cmp.Or(os.Getenv("FUZZTIME"), "30s")
	targets := []struct{ pkg, name string }{
		{"./pkg/parser", "FuzzTokenize"},
		{"./pkg/parser", "FuzzParse"},
		{"./pkg/incremental", "FuzzReparse"},
		{"./pkg/format", "FuzzText"},
	}
	for _, target := range targets {
		fmt.Printf("Fuzzing %s in %s...\n", target.name, target.pkg)
		if err := sh.RunV("go", "test",
			"-run=^$",
			"-fuzz=^"+target.name+"$",
			"-fuzztime="+fuzzTime,
			target.pkg,
		); err != nil {
			return fmt.Errorf("fuzz %s: %w", target.name, err)
		}
	}
	return nil
}

// gitOutput is the trimmed stdout of git args, or "" when git fails.
func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags sets main.version, main.commit and main.date.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf(
		"-X main.version=%s -X main.commit=%s -X main.date=%s",
		version, commit, date,
	)
}
