package logsim

import "fmt"

// DiagKind classifies a parse diagnostic.
type DiagKind int

// Diagnostic kinds.
const (
	Lexical DiagKind = iota
	Syntax
	Semantic
)

func (k DiagKind) String() string {
	switch k {
	case Lexical:
		return "lexical error"
	case Syntax:
		return "syntax error"
	case Semantic:
		return "semantic error"
	}
	return "error"
}

// A Diagnostic describes one problem found while parsing a circuit
// description. Line and Col are 1-based positions in the source text.
//
type Diagnostic struct {
	Kind    DiagKind
	Line    int
	Col     int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Col, d.Kind, d.Message)
}
