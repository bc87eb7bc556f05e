// Package names interns identifier strings to dense integer IDs.
//
// Everything past the parser references devices and pins by ID, never by
// string. The string to ID mapping is a bijection for the lifetime of a
// table: an ID is never reclaimed or reassigned to a different string.
//
package names

import "github.com/pkg/errors"

// ID is the integer handle assigned to an interned string.
type ID int

// None marks the absence of a name, e.g. the unnamed default output of a
// gate.
const None ID = -1

// A Table maps strings to IDs and back.
//
type Table struct {
	ids  map[string]ID
	strs []string
}

// NewTable returns an empty table.
//
func NewTable() *Table {
	return &Table{ids: make(map[string]ID)}
}

// Intern returns the ID for text. The first time a given string is seen,
// the next sequential ID is allocated and recorded; subsequent calls with
// the same string return the same ID.
//
func (t *Table) Intern(text string) ID {
	if id, ok := t.ids[text]; ok {
		return id
	}
	id := ID(len(t.strs))
	t.ids[text] = id
	t.strs = append(t.strs, text)
	return id
}

// Lookup returns the ID for text without interning it.
//
func (t *Table) Lookup(text string) (ID, bool) {
	id, ok := t.ids[text]
	return id, ok
}

// Name returns the string interned under id. It returns an error for a
// negative id (invalid argument) or an id that was never allocated.
//
func (t *Table) Name(id ID) (string, error) {
	if id < 0 {
		return "", errors.Errorf("names: invalid id %d", id)
	}
	if int(id) >= len(t.strs) {
		return "", errors.Errorf("names: unknown id %d", id)
	}
	return t.strs[int(id)], nil
}

// Len returns the number of interned strings.
//
func (t *Table) Len() int {
	return len(t.strs)
}
