package logsim_test

import (
	"reflect"
	"testing"
)

func Test_monitor_registry(t *testing.T) {
	net, mon := build(t, `
DEVICES {
	SW = SWITCH(1);
	D1 = DTYPE;
	CK = CLOCK(1);
}
CONNECTIONS {
	D1.DATA = SW;
	D1.SET = SW;
	D1.CLEAR = SW;
	D1.CLK = CK;
}
MONITORS { D1.Q; }
END`)
	if err := mon.Add("D1.Q"); err == nil {
		t.Error("expected a duplicate monitor error")
	}
	if err := mon.Add("D1.NOPE"); err == nil {
		t.Error("expected an unknown signal error")
	}
	if err := mon.Add("CK"); err != nil {
		t.Fatal(err)
	}
	if err := mon.Add("D1.QBAR"); err != nil {
		t.Fatal(err)
	}
	// List is sorted by signal name
	want := []string{"CK", "D1.Q", "D1.QBAR"}
	if got := mon.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
	if err := net.Step(2); err != nil {
		t.Fatal(err)
	}
	if tr, ok := mon.Trace("CK"); !ok || len(tr) != 2 {
		t.Errorf("CK trace = %v, %v", tr, ok)
	}
	if err := mon.Remove("CK"); err != nil {
		t.Fatal(err)
	}
	if err := mon.Remove("CK"); err == nil {
		t.Error("expected an error removing an unmonitored signal")
	}
	if _, ok := mon.Trace("CK"); ok {
		t.Error("trace survived removal")
	}
	// a monitor added mid-run only records from that point on
	if err := mon.Add("SW"); err != nil {
		t.Fatal(err)
	}
	if err := net.Step(1); err != nil {
		t.Fatal(err)
	}
	if tr, _ := mon.Trace("SW"); !reflect.DeepEqual(tr, []bool{true}) {
		t.Errorf("SW trace = %v, want [true]", tr)
	}
	if tr, _ := mon.Trace("D1.Q"); len(tr) != 3 {
		t.Errorf("D1.Q trace length = %d, want 3", len(tr))
	}
	mon.Clear()
	if tr, ok := mon.Trace("D1.Q"); !ok || len(tr) != 0 {
		t.Errorf("Clear() should keep registrations and drop samples, got %v, %v", tr, ok)
	}
}
