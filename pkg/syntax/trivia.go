package syntax

// TriviaKind classifies non-semantic source text.
type TriviaKind uint8

const (
	TriviaWhitespace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaWhitespace:
		return "Whitespace"
	case TriviaNewline:
		return "Newline"
	case TriviaLineComment:
		return "LineComment"
	case TriviaBlockComment:
		return "BlockComment"
	default:
		return "Unknown"
	}
}

// Trivia is whitespace, a line break, or a comment attached to a token.
type Trivia struct {
	Kind TriviaKind
	Text string
}

func triviaWidth(list []Trivia) int {
	n := 0
	for _, tr := range list {
		n += len(tr.Text)
	}
	return n
}

func triviaEqual(a, b []Trivia) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
