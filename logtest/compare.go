// Licensed under the MIT license. See license text in the LICENSE file.

// Package logtest provides utility functions for testing circuit
// descriptions against each other.
//
package logtest

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/lsim/logsim"
)

// Build parses a circuit description and fails the test on any
// diagnostic.
func Build(t *testing.T, src string) (*logsim.Network, *logsim.Monitors) {
	t.Helper()
	net, mon, diags := logsim.Parse([]byte(src))
	for _, d := range diags {
		t.Error(d)
	}
	if net == nil {
		t.Fatal("no network built")
	}
	return net, mon
}

// waveform renders a trace as a high/low strip, e.g. "_--_".
func waveform(tr []bool) string {
	var b strings.Builder
	for _, v := range tr {
		if v {
			b.WriteByte('-')
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// CompareTraces builds two circuit descriptions, runs both for the given
// number of cycles and compares the traces of their monitored signals.
// Both descriptions must monitor the same signal names.
//
func CompareTraces(t *testing.T, srcA, srcB string, cycles int) {
	t.Helper()
	netA, monA := Build(t, srcA)
	netB, monB := Build(t, srcB)
	if !reflect.DeepEqual(monA.List(), monB.List()) {
		t.Fatalf("monitored signals differ: %v vs %v", monA.List(), monB.List())
	}
	if err := netA.Step(cycles); err != nil {
		t.Fatal(err)
	}
	if err := netB.Step(cycles); err != nil {
		t.Fatal(err)
	}
	diffTraces(t, monA, monB)
}

// CompareRandom is CompareTraces with the switches shared by both circuits
// flipped to the same random positions before every cycle.
//
func CompareRandom(t *testing.T, srcA, srcB string, cycles int) {
	t.Helper()
	rand.Seed(time.Now().UnixNano())
	netA, monA := Build(t, srcA)
	netB, monB := Build(t, srcB)
	if !reflect.DeepEqual(monA.List(), monB.List()) {
		t.Fatalf("monitored signals differ: %v vs %v", monA.List(), monB.List())
	}
	switches := netA.Switches()
	for i := 0; i < cycles; i++ {
		for _, sw := range switches {
			on := rand.Int63()&(1<<62) != 0
			if err := netA.SetSwitch(sw, on); err != nil {
				t.Fatal(err)
			}
			if err := netB.SetSwitch(sw, on); err != nil {
				t.Fatal(err)
			}
		}
		if err := netA.Step(1); err != nil {
			t.Fatal(err)
		}
		if err := netB.Step(1); err != nil {
			t.Fatal(err)
		}
	}
	diffTraces(t, monA, monB)
}

func diffTraces(t *testing.T, monA, monB *logsim.Monitors) {
	t.Helper()
	ta, tb := monA.Traces(), monB.Traces()
	for _, sig := range monA.List() {
		if !reflect.DeepEqual(ta[sig], tb[sig]) {
			t.Errorf("%s traces differ:\n%s\n%s", sig, waveform(ta[sig]), waveform(tb[sig]))
		}
	}
}
