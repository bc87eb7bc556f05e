package logsim

import (
	"os"

	"github.com/pkg/errors"

	"github.com/lsim/logsim/internal/scan"
)

// Parse parses a circuit description and returns the network and monitor
// set it describes. On error the returned diagnostics are non-empty and
// the network and monitors are nil: a file that fails to parse yields no
// partially built circuit.
func Parse(src []byte) (*Network, *Monitors, []Diagnostic) {
	p, err := newParser(src)
	if err != nil {
		return nil, nil, []Diagnostic{{Kind: Lexical, Line: 1, Col: 1, Message: err.Error()}}
	}
	if p.tok.Kind == scan.EOF && len(p.diags) == 0 {
		return nil, nil, []Diagnostic{{Kind: Syntax, Line: 1, Col: 1, Message: "empty circuit description"}}
	}
	p.parseFile()
	if len(p.diags) > 0 {
		return nil, nil, p.diags
	}
	return p.net, p.mon, nil
}

// Load reads the file at path and parses it. The error return covers I/O
// only; parse errors come back as diagnostics.
func Load(path string) (*Network, *Monitors, []Diagnostic, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "cannot read %s", path)
	}
	net, mon, diags := Parse(src)
	return net, mon, diags, nil
}
