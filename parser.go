package logsim

import (
	"fmt"

	"github.com/lsim/logsim/internal/scan"
	"github.com/lsim/logsim/names"
)

// parser consumes the token stream against the circuit description grammar
// and builds the network and monitor set as it goes. Errors never abort the
// pass: each one is recorded as a Diagnostic and parsing resumes at the
// next statement terminator or block boundary, so a single pass surfaces
// every independent error in the file.
type parser struct {
	sc    *scan.Scanner
	tok   scan.Token
	net   *Network
	mon   *Monitors
	diags []Diagnostic

	// names whose device statement failed; references to them are skipped
	// instead of producing follow-up "unknown device" noise
	bad map[string]bool
}

func newParser(src []byte) (*parser, error) {
	sc, err := scan.New(src)
	if err != nil {
		return nil, err
	}
	net := NewNetwork(names.NewTable())
	p := &parser{sc: sc, net: net, mon: NewMonitors(net), bad: make(map[string]bool)}
	p.next()
	return p, nil
}

// next advances to the next token, reporting any illegal input in between.
func (p *parser) next() {
	p.tok = p.sc.Next()
	for p.tok.Kind == scan.Illegal {
		p.errorf(Lexical, p.tok, "unrecognized input %q", p.tok.Text)
		p.tok = p.sc.Next()
	}
}

func (p *parser) errorf(kind DiagKind, tok scan.Token, format string, args ...interface{}) {
	p.diags = append(p.diags, Diagnostic{
		Kind:    kind,
		Line:    tok.Line,
		Col:     tok.Col,
		Message: fmt.Sprintf(format, args...),
	})
}

// resync skips tokens until a statement terminator, block boundary, block
// keyword or end of input.
func (p *parser) resync() {
	for {
		switch p.tok.Kind {
		case scan.Semicolon, scan.BraceClose, scan.EOF:
			return
		}
		if p.tok.Kind.IsKeyword() {
			return
		}
		p.next()
	}
}

// recover resynchronizes after an error, swallowing the statement
// terminator if that is where scanning stopped.
func (p *parser) recover() {
	p.resync()
	if p.tok.Kind == scan.Semicolon {
		p.next()
	}
}

// expect consumes a token of kind k or records a syntax error and
// recovers.
func (p *parser) expect(k scan.Kind) bool {
	if p.tok.Kind == k {
		p.next()
		return true
	}
	p.errorf(Syntax, p.tok, "expected %v, got %v", k, p.tok)
	p.recover()
	return false
}

// terminator consumes the ';' closing a statement.
func (p *parser) terminator() {
	if p.tok.Kind == scan.Semicolon {
		p.next()
		return
	}
	p.errorf(Syntax, p.tok, "expected %v, got %v", scan.Semicolon, p.tok)
	p.recover()
}

// parseFile parses the three ordered blocks and the END marker.
func (p *parser) parseFile() {
	p.parseBlock(scan.Devices, p.deviceStmt)
	p.parseBlock(scan.Connections, p.connStmt)
	// the floating-input check is only meaningful on an otherwise clean
	// file: a failed statement above already explains the hole
	if len(p.diags) == 0 {
		for _, sig := range p.net.FloatingInputs() {
			p.errorf(Semantic, p.tok, "input %s is not connected to any output", sig)
		}
	}
	p.parseBlock(scan.Monitors, p.monStmt)
	p.parseEnd()
}

func (p *parser) parseBlock(kw scan.Kind, stmt func()) {
	if p.tok.Kind == kw {
		p.next()
	} else {
		// report and carry on without consuming anything: if the whole
		// block is missing, the current token starts the next one
		p.errorf(Syntax, p.tok, "expected the keyword %v", kw)
	}
	if p.tok.Kind == scan.BraceOpen {
		p.next()
	} else {
		p.errorf(Syntax, p.tok, "expected %v after %v", scan.BraceOpen, kw)
	}
	for p.tok.Kind != scan.BraceClose && p.tok.Kind != scan.EOF && !p.tok.Kind.IsKeyword() {
		stmt()
	}
	if p.tok.Kind == scan.BraceClose {
		p.next()
	} else {
		p.errorf(Syntax, p.tok, "expected %v to close %v", scan.BraceClose, kw)
	}
}

// deviceStmt parses one "name = KIND(params);" statement and creates the
// device.
func (p *parser) deviceStmt() {
	name := p.tok
	if name.Kind != scan.Ident {
		p.errorf(Syntax, name, "expected a device name, got %v", name)
		p.recover()
		return
	}
	p.next()
	if !p.expect(scan.Equals) {
		p.bad[name.Text] = true
		return
	}
	kindTok := p.tok
	if kindTok.Kind != scan.Ident {
		p.errorf(Syntax, kindTok, "expected a device kind, got %v", kindTok)
		p.bad[name.Text] = true
		p.recover()
		return
	}
	kind, ok := KindByName(kindTok.Text)
	if !ok {
		p.errorf(Semantic, kindTok, "unknown device kind %s", kindTok.Text)
		p.bad[name.Text] = true
		p.recover()
		return
	}
	p.next()
	var params []int
	if p.tok.Kind == scan.ParenOpen {
		p.next()
		for {
			if p.tok.Kind != scan.Number {
				p.errorf(Syntax, p.tok, "expected a number, got %v", p.tok)
				p.bad[name.Text] = true
				p.recover()
				return
			}
			params = append(params, p.tok.Num)
			p.next()
			if p.tok.Kind != scan.Comma {
				break
			}
			p.next()
		}
		if !p.expect(scan.ParenClose) {
			p.bad[name.Text] = true
			return
		}
	}
	if err := p.net.AddDevice(name.Text, kind, params...); err != nil {
		p.errorf(Semantic, name, "%s", err)
		p.bad[name.Text] = true
	}
	p.terminator()
}

// signal parses name ["." pin] and returns the raw name strings.
func (p *parser) signal() (dev, pin string, ok bool) {
	if p.tok.Kind != scan.Ident {
		p.errorf(Syntax, p.tok, "expected a device name, got %v", p.tok)
		p.recover()
		return "", "", false
	}
	dev = p.tok.Text
	p.next()
	if p.tok.Kind != scan.Dot {
		return dev, "", true
	}
	p.next()
	if p.tok.Kind != scan.Ident {
		p.errorf(Syntax, p.tok, "expected a pin name after %v, got %v", scan.Dot, p.tok)
		p.recover()
		return "", "", false
	}
	pin = p.tok.Text
	p.next()
	return dev, pin, true
}

// connStmt parses one "dst[.PIN] = src[.PIN];" statement and records the
// connection.
func (p *parser) connStmt() {
	dstTok := p.tok
	dstDev, dstPin, ok := p.signal()
	if !ok {
		return
	}
	if !p.expect(scan.Equals) {
		return
	}
	srcTok := p.tok
	srcDev, srcPin, ok := p.signal()
	if !ok {
		return
	}
	if p.bad[dstDev] || p.bad[srcDev] {
		p.terminator()
		return
	}
	in, err := p.net.resolveInput(dstDev, dstPin)
	if err != nil {
		p.errorf(Semantic, dstTok, "%s", err)
		p.terminator()
		return
	}
	out, err := p.net.resolveOutput(srcDev, srcPin)
	if err != nil {
		p.errorf(Semantic, srcTok, "%s", err)
		p.terminator()
		return
	}
	if err := p.net.connect(in, out); err != nil {
		p.errorf(Semantic, dstTok, "%s", err)
	}
	p.terminator()
}

// monStmt parses one "dev[.PIN];" statement and registers the monitor.
func (p *parser) monStmt() {
	tok := p.tok
	dev, pin, ok := p.signal()
	if !ok {
		return
	}
	if p.bad[dev] {
		p.terminator()
		return
	}
	sig := dev
	if pin != "" {
		sig += "." + pin
	}
	if err := p.mon.Add(sig); err != nil {
		p.errorf(Semantic, tok, "%s", err)
	}
	p.terminator()
}

// parseEnd checks for the END marker and rejects anything after it.
func (p *parser) parseEnd() {
	if p.tok.Kind != scan.End {
		p.errorf(Syntax, p.tok, "expected the keyword %v", scan.End)
		for p.tok.Kind != scan.End && p.tok.Kind != scan.EOF {
			p.next()
		}
	}
	if p.tok.Kind == scan.End {
		p.next()
	}
	if p.tok.Kind != scan.EOF {
		p.errorf(Syntax, p.tok, "unexpected input after %v", scan.End)
	}
}
