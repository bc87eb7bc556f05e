package logsim

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/pkg/errors"
)

// Monitors tracks a set of output points and records their value once per
// completed cycle. Traces are ordered by cycle number, starting at 0.
//
type Monitors struct {
	net *Network
	m   *treemap.Map // signal name -> *trace, sorted by name
}

type trace struct {
	at  pinRef
	val []bool
}

// NewMonitors returns an empty monitor set sampling net after each
// completed cycle.
//
func NewMonitors(net *Network) *Monitors {
	m := &Monitors{net: net, m: treemap.NewWithStringComparator()}
	net.OnCycle(m.sample)
	return m
}

// Add registers the output point named by signal ("dev" or "dev.PIN") with
// an empty trace. It fails if the point does not exist, is not an output,
// or is already monitored.
//
func (m *Monitors) Add(signal string) error {
	dev, pin := splitSignal(signal)
	at, err := m.net.resolveOutput(dev, pin)
	if err != nil {
		return err
	}
	if _, ok := m.m.Get(signal); ok {
		return errors.Errorf("%s is already monitored", signal)
	}
	m.m.Put(signal, &trace{at: at})
	return nil
}

// Remove unregisters signal and discards its trace. Other traces are not
// affected.
//
func (m *Monitors) Remove(signal string) error {
	if _, ok := m.m.Get(signal); !ok {
		return errors.Errorf("%s is not monitored", signal)
	}
	m.m.Remove(signal)
	return nil
}

// List returns the monitored signal names in sorted order.
//
func (m *Monitors) List() []string {
	keys := m.m.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.(string)
	}
	return out
}

// Trace returns the values recorded for signal, one per completed cycle.
// The second return value is false if signal is not monitored.
//
func (m *Monitors) Trace(signal string) ([]bool, bool) {
	v, ok := m.m.Get(signal)
	if !ok {
		return nil, false
	}
	return v.(*trace).val, true
}

// Traces returns all recorded traces keyed by signal name.
//
func (m *Monitors) Traces() map[string][]bool {
	out := make(map[string][]bool, m.m.Size())
	it := m.m.Iterator()
	for it.Next() {
		out[it.Key().(string)] = it.Value().(*trace).val
	}
	return out
}

// Clear discards all recorded values but keeps the registrations. Used
// together with Network.Reset to restart a run.
//
func (m *Monitors) Clear() {
	it := m.m.Iterator()
	for it.Next() {
		it.Value().(*trace).val = nil
	}
}

// sample appends the current value of every monitored point to its trace.
func (m *Monitors) sample() {
	it := m.m.Iterator()
	for it.Next() {
		tr := it.Value().(*trace)
		tr.val = append(tr.val, m.net.outputValue(tr.at))
	}
}
