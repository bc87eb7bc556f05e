package logsim_test

import (
	"reflect"
	"testing"

	ls "github.com/lsim/logsim"
)

// build parses src and fails the test on any diagnostic.
func build(t *testing.T, src string) (*ls.Network, *ls.Monitors) {
	t.Helper()
	net, mon, diags := ls.Parse([]byte(src))
	for _, d := range diags {
		t.Error(d)
	}
	if net == nil {
		t.Fatal("no network built")
	}
	return net, mon
}

func checkTrace(t *testing.T, mon *ls.Monitors, signal string, want []bool) {
	t.Helper()
	got, ok := mon.Trace(signal)
	if !ok {
		t.Fatalf("%s is not monitored", signal)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("%s trace = %v, want %v", signal, got, want)
	}
}

func Test_and_gate(t *testing.T) {
	net, mon := build(t, `
DEVICES {
	SW1 = SWITCH(1);
	SW2 = SWITCH(0);
	G1 = AND(2);
}
CONNECTIONS {
	G1.I1 = SW1;
	G1.I2 = SW2;
}
MONITORS { G1; }
END`)
	if err := net.Step(2); err != nil {
		t.Fatal(err)
	}
	checkTrace(t, mon, "G1", []bool{false, false})
	if err := net.SetSwitch("SW2", true); err != nil {
		t.Fatal(err)
	}
	if err := net.Step(1); err != nil {
		t.Fatal(err)
	}
	checkTrace(t, mon, "G1", []bool{false, false, true})
}

func Test_clock_waveform(t *testing.T) {
	// a CLOCK(2) is low for its first half-period
	net, mon := build(t, `
DEVICES {
	CK = CLOCK(2);
	N1 = NOT;
}
CONNECTIONS { N1 = CK; }
MONITORS { CK; N1; }
END`)
	if err := net.Step(8); err != nil {
		t.Fatal(err)
	}
	checkTrace(t, mon, "CK", []bool{false, true, true, false, false, true, true, false})
	checkTrace(t, mon, "N1", []bool{true, false, false, true, true, false, false, true})
}

func Test_dtype_latch(t *testing.T) {
	net, mon := build(t, `
DEVICES {
	DA = SWITCH(1);
	S = SWITCH(0);
	C = SWITCH(0);
	CK = CLOCK(1);
	D1 = DTYPE;
}
CONNECTIONS {
	D1.DATA = DA;
	D1.SET = S;
	D1.CLEAR = C;
	D1.CLK = CK;
}
MONITORS { D1.Q; D1.QBAR; }
END`)
	// CLOCK(1) rises on cycles 1, 3, 5, ...
	if err := net.Step(3); err != nil {
		t.Fatal(err)
	}
	if err := net.SetSwitch("DA", false); err != nil {
		t.Fatal(err)
	}
	if err := net.Step(2); err != nil {
		t.Fatal(err)
	}
	checkTrace(t, mon, "D1.Q", []bool{true, true, true, true, false})
	checkTrace(t, mon, "D1.QBAR", []bool{false, false, false, false, true})
}

func Test_dtype_set_clear(t *testing.T) {
	net, mon := build(t, `
DEVICES {
	DA = SWITCH(0);
	S = SWITCH(1);
	C = SWITCH(0);
	CK = CLOCK(1);
	D1 = DTYPE;
}
CONNECTIONS {
	D1.DATA = DA;
	D1.SET = S;
	D1.CLEAR = C;
	D1.CLK = CK;
}
MONITORS { D1.Q; }
END`)
	if err := net.Step(1); err != nil {
		t.Fatal(err)
	}
	checkTrace(t, mon, "D1.Q", []bool{true})
	// CLEAR overrides SET when both are asserted
	if err := net.SetSwitch("C", true); err != nil {
		t.Fatal(err)
	}
	if err := net.Step(1); err != nil {
		t.Fatal(err)
	}
	checkTrace(t, mon, "D1.Q", []bool{true, false})
}

func Test_rc_decay(t *testing.T) {
	net, mon := build(t, `
DEVICES {
	SW = SWITCH(0);
	R = RC(3);
}
CONNECTIONS { R = SW; }
MONITORS { R; }
END`)
	if err := net.Step(2); err != nil {
		t.Fatal(err)
	}
	if err := net.SetSwitch("SW", true); err != nil {
		t.Fatal(err)
	}
	// rising edge holds the output low for 3 cycles before it follows
	if err := net.Step(5); err != nil {
		t.Fatal(err)
	}
	checkTrace(t, mon, "R", []bool{false, false, false, false, false, true, true})
}

func Test_rc_triggered_at_start(t *testing.T) {
	// switch already up at cycle 0: low for cycles 0..4, following from 5
	net, mon := build(t, `
DEVICES {
	SW = SWITCH(1);
	R = RC(5);
}
CONNECTIONS { R = SW; }
MONITORS { R; }
END`)
	if err := net.Step(7); err != nil {
		t.Fatal(err)
	}
	checkTrace(t, mon, "R", []bool{false, false, false, false, false, true, true})
}

func Test_siggen_wraps(t *testing.T) {
	net, mon := build(t, `
DEVICES { G = SIGGEN(0, 1, 1); }
CONNECTIONS { }
MONITORS { G; }
END`)
	if err := net.Step(7); err != nil {
		t.Fatal(err)
	}
	checkTrace(t, mon, "G", []bool{false, true, true, false, true, true, false})
}

func Test_oscillation(t *testing.T) {
	net, mon := build(t, `
DEVICES {
	N1 = NOT;
	N2 = NOT;
}
CONNECTIONS {
	N1 = N2;
	N2 = N1;
}
MONITORS { N1; }
END`)
	err := net.Step(1)
	oe, ok := err.(*ls.OscillationError)
	if !ok {
		t.Fatalf("expected an oscillation error, got %v", err)
	}
	if oe.Cycle != 0 {
		t.Errorf("oscillation reported in cycle %d, want 0", oe.Cycle)
	}
	// the failed cycle is rolled back: nothing committed, nothing sampled
	if net.Cycle() != 0 {
		t.Errorf("Cycle() = %d after rollback, want 0", net.Cycle())
	}
	if tr, _ := mon.Trace("N1"); len(tr) != 0 {
		t.Errorf("trace recorded for a rolled back cycle: %v", tr)
	}
}

func Test_reset_determinism(t *testing.T) {
	net, mon := build(t, `
DEVICES {
	DA = SWITCH(1);
	S = SWITCH(0);
	C = SWITCH(0);
	CK = CLOCK(2);
	D1 = DTYPE;
	X = XOR;
}
CONNECTIONS {
	D1.DATA = DA;
	D1.SET = S;
	D1.CLEAR = C;
	D1.CLK = CK;
	X.I1 = D1.Q;
	X.I2 = CK;
}
MONITORS { D1.Q; X; }
END`)
	if err := net.Step(10); err != nil {
		t.Fatal(err)
	}
	first := mon.Traces()
	net.Reset()
	mon.Clear()
	if err := net.Step(10); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, mon.Traces()) {
		t.Errorf("traces differ after reset:\n%v\n%v", first, mon.Traces())
	}
}

func Test_connect_api(t *testing.T) {
	net, _ := build(t, `
DEVICES {
	SW = SWITCH(1);
	G1 = AND(2);
}
CONNECTIONS {
	G1.I1 = SW;
	G1.I2 = SW;
}
MONITORS { G1; }
END`)
	if err := net.Connect("G1.I1", "SW"); err == nil {
		t.Error("expected a double driver error")
	}
	if err := net.SetSwitch("G1", true); err == nil {
		t.Error("expected an error setting a non-switch")
	}
	if err := net.Step(1); err != nil {
		t.Fatal(err)
	}
	if out := net.Outputs(); !out["G1"] {
		t.Errorf("G1 = %v, want true", out["G1"])
	}
}
