// Package scan turns circuit description source text into a lazy stream of
// tokens. Tokens carry their line and column so the parser can point
// diagnostics at the offending input. Whitespace and quoted comment blocks
// are skipped silently; input the scanner does not recognize is returned as
// an Illegal token rather than stopping the scan.
//
package scan

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Kind classifies a token.
type Kind int

// Token kinds.
const (
	EOF Kind = iota
	Illegal
	Ident
	Number
	BraceOpen
	BraceClose
	ParenOpen
	ParenClose
	Comma
	Semicolon
	Equals
	Dot
	Devices
	Connections
	Monitors
	End
)

var kindNames = [...]string{
	EOF:         "end of input",
	Illegal:     "illegal input",
	Ident:       "name",
	Number:      "number",
	BraceOpen:   "'{'",
	BraceClose:  "'}'",
	ParenOpen:   "'('",
	ParenClose:  "')'",
	Comma:       "','",
	Semicolon:   "';'",
	Equals:      "'='",
	Dot:         "'.'",
	Devices:     "DEVICES",
	Connections: "CONNECTIONS",
	Monitors:    "MONITORS",
	End:         "END",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "token(" + strconv.Itoa(int(k)) + ")"
}

// IsKeyword reports whether k is one of the block keywords.
//
func (k Kind) IsKeyword() bool {
	return k == Devices || k == Connections || k == Monitors || k == End
}

// A Token is one lexical element of a circuit description. Line and Col are
// 1-based. Num is set for Number tokens only.
//
type Token struct {
	Kind Kind
	Text string
	Num  int
	Line int
	Col  int
}

func (t Token) String() string {
	switch t.Kind {
	case Ident, Number, Illegal:
		return t.Kind.String() + " " + strconv.Quote(t.Text)
	}
	return t.Kind.String()
}

var lexer = newLexer()

func newLexer() *lexmachine.Lexer {
	l := lexmachine.NewLexer()

	skip := func(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
		return nil, nil
	}
	tok := func(k Kind) lexmachine.Action {
		return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
			return s.Token(int(k), string(m.Bytes), m), nil
		}
	}

	l.Add([]byte(`( |\t|\r|\n)+`), skip)
	l.Add([]byte(`"[^"]*"`), skip) // comment block
	// keywords must precede the identifier pattern: on an equal-length
	// match lexmachine picks the pattern added first.
	l.Add([]byte(`DEVICES`), tok(Devices))
	l.Add([]byte(`CONNECTIONS`), tok(Connections))
	l.Add([]byte(`MONITORS`), tok(Monitors))
	l.Add([]byte(`END`), tok(End))
	l.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*`), tok(Ident))
	l.Add([]byte(`[0-9]+`), tok(Number))
	l.Add([]byte(`\{`), tok(BraceOpen))
	l.Add([]byte(`\}`), tok(BraceClose))
	l.Add([]byte(`\(`), tok(ParenOpen))
	l.Add([]byte(`\)`), tok(ParenClose))
	l.Add([]byte(`,`), tok(Comma))
	l.Add([]byte(`;`), tok(Semicolon))
	l.Add([]byte(`=`), tok(Equals))
	l.Add([]byte(`\.`), tok(Dot))

	if err := l.Compile(); err != nil {
		panic(err)
	}
	return l
}

// A Scanner produces a lazy, finite, non-restartable token sequence from
// source text. Once the end of input is reached it keeps returning EOF
// tokens.
//
type Scanner struct {
	sc   *lexmachine.Scanner
	done bool
	line int // position of the end of the last token
	col  int
}

// New returns a scanner over src.
//
func New(src []byte) (*Scanner, error) {
	sc, err := lexer.Scanner(src)
	if err != nil {
		return nil, errors.Wrap(err, "scan: failed to initialize")
	}
	return &Scanner{sc: sc, line: 1, col: 1}, nil
}

// Next returns the next token. Input that matches no token pattern is
// returned as an Illegal token and the scan resumes after it.
//
func (s *Scanner) Next() Token {
	if s.done {
		return Token{Kind: EOF, Line: s.line, Col: s.col}
	}
	tok, err, eof := s.sc.Next()
	if eof {
		s.done = true
		return Token{Kind: EOF, Line: s.line, Col: s.col}
	}
	if err != nil {
		ui, ok := err.(*machines.UnconsumedInput)
		if !ok {
			s.done = true
			return Token{Kind: Illegal, Text: err.Error(), Line: s.line, Col: s.col}
		}
		// skip the offending input and keep scanning after it
		start, end := ui.StartTC, ui.FailTC
		if end <= start {
			end = start + 1
		}
		if end > len(ui.Text) {
			end = len(ui.Text)
		}
		s.sc.TC = end
		s.line, s.col = ui.FailLine, ui.FailColumn
		return Token{
			Kind: Illegal,
			Text: string(ui.Text[start:end]),
			Line: ui.StartLine,
			Col:  ui.StartColumn,
		}
	}
	t := tok.(*lexmachine.Token)
	s.line, s.col = t.EndLine, t.EndColumn+1
	next := Token{
		Kind: Kind(t.Type),
		Text: string(t.Lexeme),
		Line: t.StartLine,
		Col:  t.StartColumn,
	}
	if next.Kind == Number {
		n, err := strconv.Atoi(next.Text)
		if err != nil {
			// out of int range; the parser rejects it by value
			n = -1
		}
		next.Num = n
	}
	return next
}
