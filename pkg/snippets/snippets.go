// Package snippets finds C code blocks in Markdown documents and checks
// them, reporting diagnostics against the Markdown file.
package snippets

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/gocst/pkg/check"
	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/langdetect"
	"github.com/yaklabco/gocst/pkg/source"
)

// Segment is one line of block content in document coordinates.
type Segment struct {
	Start int
	Stop  int
}

// Block is a fenced code block selected for checking.
type Block struct {
	// Info is the fence info string ("c", "c linenums", or empty).
	Info string

	// Language is the fence tag, or the detected language for untagged blocks.
	Language string

	// Content is the code with any container prefixes (list indentation,
	// blockquote markers) removed.
	Content []byte

	// Segments map Content back into the document, one per line.
	Segments []Segment
}

// Contiguous reports whether the block content is a single run of the
// document, so edits inside it can be applied to the document directly.
func (b *Block) Contiguous() bool {
	for i := 1; i < len(b.Segments); i++ {
		if b.Segments[i].Start != b.Segments[i-1].Stop {
			return false
		}
	}
	return true
}

// DocumentOffset converts an offset in Content to an offset in the document.
func (b *Block) DocumentOffset(off int) int {
	if len(b.Segments) == 0 {
		return off
	}
	for _, seg := range b.Segments {
		n := seg.Stop - seg.Start
		if off < n {
			return seg.Start + off
		}
		off -= n
	}
	last := b.Segments[len(b.Segments)-1]
	return last.Stop + off
}

// Options selects which blocks Extract returns.
type Options struct {
	// Languages are the fence tags treated as C.
	Languages []string

	// Detect classifies untagged blocks with langdetect.
	Detect bool
}

// OptionsFromConfig creates Options from the snippets configuration.
func OptionsFromConfig(cfg config.SnippetsConfig) Options {
	langs := cfg.Languages
	if len(langs) == 0 {
		langs = config.DefaultSnippetLanguages()
	}
	return Options{Languages: langs, Detect: cfg.Detect}
}

// Extract returns the C code blocks of a Markdown document in document
// order. GFM is enabled so blocks inside tables and task lists are found.
func Extract(doc []byte, opts Options) []Block {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	root := md.Parser().Parse(text.NewReader(doc), parser.WithContext(parser.NewContext()))

	var blocks []Block
	//nolint:errcheck // The walker never returns an error.
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if b, ok := selectBlock(fenced, doc, opts); ok {
			blocks = append(blocks, b)
		}
		return ast.WalkSkipChildren, nil
	})
	return blocks
}

func selectBlock(fenced *ast.FencedCodeBlock, doc []byte, opts Options) (Block, bool) {
	b := Block{}
	if fenced.Info != nil {
		b.Info = string(fenced.Info.Segment.Value(doc))
	}

	lines := fenced.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		b.Segments = append(b.Segments, Segment{Start: seg.Start, Stop: seg.Stop})
		b.Content = append(b.Content, doc[seg.Start:seg.Stop]...)
	}

	lang := string(fenced.Language(doc))
	switch {
	case lang != "":
		if !langdetect.IsFenceTag(lang, opts.Languages) {
			return Block{}, false
		}
		b.Language = lang
	case opts.Detect:
		b.Language = langdetect.Detect(b.Content)
		if !langdetect.IsFenceTag(b.Language, opts.Languages) {
			return Block{}, false
		}
	default:
		return Block{}, false
	}
	return b, true
}

// Result is the outcome of checking the code blocks of one document.
type Result struct {
	Blocks []Block

	// FileResult holds the diagnostics of every block, in document
	// coordinates. Its Tree is nil: a Markdown file has no C tree.
	*check.FileResult
}

// Check extracts the C blocks of doc and checks each with engine.
// Fix edits stay attached to diagnostics of contiguous blocks but are not
// collected for application.
func Check(ctx context.Context, engine *check.Engine, path string, doc []byte, opts Options) (*Result, error) {
	host := source.FromBytes(path, doc)
	res := &Result{
		Blocks:     Extract(doc, opts),
		FileResult: &check.FileResult{},
	}

	for i := range res.Blocks {
		b := &res.Blocks[i]
		fr, err := engine.CheckFile(ctx, path, b.Content)
		if err != nil {
			return nil, fmt.Errorf("check block %d of %s: %w", i+1, path, err)
		}
		contiguous := b.Contiguous()
		for _, d := range fr.Diagnostics {
			if !contiguous {
				d.FixEdits = nil
				d.Suggestion = ""
			}
			d.Shift(b.DocumentOffset(d.Span.Start)-d.Span.Start, host, path)
			res.Diagnostics = append(res.Diagnostics, d)
		}
	}
	return res, nil
}
