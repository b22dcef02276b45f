package syntax

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// DumpOptions controls Dump output.
type DumpOptions struct {
	// ShowTrivia prints each token's leading and trailing trivia.
	ShowTrivia bool
}

// Dump writes an indented outline of the subtree rooted at r.
func Dump(w io.Writer, r Ref, opts DumpOptions) error {
	bw := bufio.NewWriter(w)
	dumpNode(bw, r, 0, opts)
	return bw.Flush()
}

func dumpNode(w *bufio.Writer, r Ref, depth int, opts DumpOptions) {
	indent := strings.Repeat("  ", depth)
	span := r.FullSpan()

	switch r.Node.kind {
	case KindToken:
		tok := r.Node.token
		fmt.Fprintf(w, "%s%s %q %s\n", indent, tok.Kind, tok.Text, span)
		if opts.ShowTrivia {
			dumpTrivia(w, indent+"  ", "leading", tok.Leading)
			dumpTrivia(w, indent+"  ", "trailing", tok.Trailing)
		}
	case KindMissing:
		fmt.Fprintf(w, "%sMissing %s %s\n", indent, r.Node.expected.Describe(), span)
	default:
		fmt.Fprintf(w, "%s%s %s\n", indent, r.Node.kind, span)
	}

	for _, d := range r.Node.diags {
		start := r.Offset + d.Offset
		fmt.Fprintf(w, "%s  ! %s [%d,%d) %s\n", indent, d.Kind.ID(), start, start+d.Length, d.Message)
	}
	for _, child := range r.Children() {
		dumpNode(w, child, depth+1, opts)
	}
}

func dumpTrivia(w *bufio.Writer, indent, label string, list []Trivia) {
	for _, tr := range list {
		fmt.Fprintf(w, "%s%s %s %q\n", indent, label, tr.Kind, tr.Text)
	}
}

// JSONNode is the serialized form of a positioned node.
type JSONNode struct {
	Kind        string           `json:"kind"`
	Start       int              `json:"start"`
	End         int              `json:"end"`
	Token       string           `json:"token,omitempty"`
	Text        string           `json:"text,omitempty"`
	Leading     string           `json:"leading,omitempty"`
	Trailing    string           `json:"trailing,omitempty"`
	Expected    string           `json:"expected,omitempty"`
	Diagnostics []JSONDiagnostic `json:"diagnostics,omitempty"`
	Children    []*JSONNode      `json:"children,omitempty"`
}

// JSONDiagnostic is the serialized form of a node diagnostic.
type JSONDiagnostic struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Message string `json:"message"`
}

// ToJSON converts the subtree rooted at r into its serialized form.
func ToJSON(r Ref) *JSONNode {
	out := &JSONNode{
		Kind:  r.Node.kind.String(),
		Start: r.Offset,
		End:   r.End(),
	}
	switch r.Node.kind {
	case KindToken:
		tok := r.Node.token
		out.Token = tok.Kind.String()
		out.Text = tok.Text
		out.Leading = joinTrivia(tok.Leading)
		out.Trailing = joinTrivia(tok.Trailing)
	case KindMissing:
		out.Expected = r.Node.expected.String()
	default:
		for _, child := range r.Children() {
			out.Children = append(out.Children, ToJSON(child))
		}
	}
	for _, d := range r.Node.diags {
		start := r.Offset + d.Offset
		out.Diagnostics = append(out.Diagnostics, JSONDiagnostic{
			ID:      d.Kind.ID(),
			Name:    d.Kind.Name(),
			Start:   start,
			End:     start + d.Length,
			Message: d.Message,
		})
	}
	return out
}

func joinTrivia(list []Trivia) string {
	var sb strings.Builder
	for _, tr := range list {
		sb.WriteString(tr.Text)
	}
	return sb.String()
}
