package names_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsim/logsim/names"
)

func TestInternIdempotent(t *testing.T) {
	tab := names.NewTable()
	for _, s := range []string{"G1", "G2", "", "G1", "g1", "G2"} {
		a := tab.Intern(s)
		b := tab.Intern(s)
		assert.Equal(t, a, b, "Intern(%q) not stable", s)

		got, err := tab.Name(a)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	// "G1", "G2", "", "g1"
	assert.Equal(t, 4, tab.Len())
}

func TestInternSequentialIDs(t *testing.T) {
	tab := names.NewTable()
	assert.Equal(t, names.ID(0), tab.Intern("a"))
	assert.Equal(t, names.ID(1), tab.Intern("b"))
	assert.Equal(t, names.ID(0), tab.Intern("a"))
	assert.Equal(t, names.ID(2), tab.Intern("c"))
}

func TestLookup(t *testing.T) {
	tab := names.NewTable()
	id := tab.Intern("CLK1")

	got, ok := tab.Lookup("CLK1")
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = tab.Lookup("CLK2")
	assert.False(t, ok)
	// Lookup must not intern
	assert.Equal(t, 1, tab.Len())
}

func TestNameErrors(t *testing.T) {
	tab := names.NewTable()
	tab.Intern("sw")

	_, err := tab.Name(names.ID(-3))
	assert.Error(t, err)
	_, err = tab.Name(names.None)
	assert.Error(t, err)
	_, err = tab.Name(names.ID(1))
	assert.Error(t, err)
}
