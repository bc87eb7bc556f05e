// Licensed under the MIT license. See license text in the LICENSE file.

package logsim

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/lsim/logsim/names"
)

// A pinRef names one pin of one device. pin is names.None for a device's
// unnamed default output.
type pinRef struct {
	dev names.ID
	pin names.ID
}

// An OscillationError reports a cycle whose combinational logic did not
// settle within the iteration cap, e.g. an unclocked feedback loop. The
// network is left at the last completed cycle.
//
type OscillationError struct {
	Cycle int
}

func (e *OscillationError) Error() string {
	return fmt.Sprintf("oscillation: outputs failed to settle in cycle %d", e.Cycle)
}

// A Network owns a set of devices and their pin wiring and steps them cycle
// by cycle. Networks are not safe for concurrent use: all calls must come
// from a single owner.
//
type Network struct {
	tab     *names.Table
	devices []*Device
	byID    map[names.ID]*Device
	drivers map[pinRef]pinRef // input pin -> output pin feeding it
	cycle   int
	onCycle []func()
	next    []bool // scratch frame for the settle passes

	pinQ, pinQBar names.ID
}

// NewNetwork returns an empty network interning device and pin names in
// tab.
//
func NewNetwork(tab *names.Table) *Network {
	return &Network{
		tab:     tab,
		byID:    make(map[names.ID]*Device),
		drivers: make(map[pinRef]pinRef),
		pinQ:    tab.Intern("Q"),
		pinQBar: tab.Intern("QBAR"),
	}
}

// Names returns the symbol table the network's device and pin names live
// in.
func (n *Network) Names() *names.Table {
	return n.tab
}

// AddDevice creates a device of the given kind. Parameter count and ranges
// are checked per kind: gate arity 1..16, CLOCK and RC periods at least 1,
// SWITCH state and SIGGEN waveform values 0 or 1.
//
func (n *Network) AddDevice(name string, kind Kind, params ...int) error {
	id := n.tab.Intern(name)
	if _, ok := n.byID[id]; ok {
		return errors.Errorf("device %s is already defined", name)
	}
	d := &Device{id: id, kind: kind}
	switch kind {
	case Switch:
		if len(params) != 1 {
			return errors.Errorf("SWITCH takes one parameter, got %d", len(params))
		}
		if params[0] != 0 && params[0] != 1 {
			return errors.New("SWITCH initial state must be 0 or 1")
		}
		d.initial = params[0] == 1
	case Clock:
		if len(params) != 1 {
			return errors.Errorf("CLOCK takes one parameter, got %d", len(params))
		}
		if params[0] < 1 {
			return errors.New("CLOCK half-period must be a positive number of cycles")
		}
		d.half = params[0]
	case And, Or, Nand, Nor:
		if len(params) != 1 {
			return errors.Errorf("%v takes one parameter, got %d", kind, len(params))
		}
		if params[0] < 1 || params[0] > MaxGateInputs {
			return errors.Errorf("%v input count must be between 1 and %d", kind, MaxGateInputs)
		}
		d.numInputs = params[0]
	case Xor:
		if len(params) != 0 {
			return errors.New("XOR takes no parameters")
		}
		d.numInputs = 2
	case Not:
		if len(params) != 0 {
			return errors.New("NOT takes no parameters")
		}
		d.numInputs = 1
	case DType:
		if len(params) != 0 {
			return errors.New("DTYPE takes no parameters")
		}
	case RC:
		if len(params) != 1 {
			return errors.Errorf("RC takes one parameter, got %d", len(params))
		}
		if params[0] < 1 {
			return errors.New("RC decay length must be a positive number of cycles")
		}
		d.period = params[0]
		d.numInputs = 1
	case SigGen:
		if len(params) == 0 {
			return errors.New("SIGGEN needs at least one waveform value")
		}
		d.wave = make([]bool, len(params))
		for i, v := range params {
			if v != 0 && v != 1 {
				return errors.New("SIGGEN waveform values must be 0 or 1")
			}
			d.wave[i] = v == 1
		}
	default:
		return errors.Errorf("unknown device kind %v", kind)
	}
	d.ins = n.inputPins(d)
	d.reset()
	n.devices = append(n.devices, d)
	n.byID[id] = d
	return nil
}

func (n *Network) inputPins(d *Device) []names.ID {
	if d.kind == DType {
		return []names.ID{
			n.tab.Intern("DATA"),
			n.tab.Intern("SET"),
			n.tab.Intern("CLEAR"),
			n.tab.Intern("CLK"),
		}
	}
	ins := make([]names.ID, d.numInputs)
	for i := range ins {
		ins[i] = n.tab.Intern("I" + strconv.Itoa(i+1))
	}
	return ins
}

func (n *Network) device(name string) (*Device, error) {
	id, ok := n.tab.Lookup(name)
	if ok {
		if d, found := n.byID[id]; found {
			return d, nil
		}
	}
	return nil, errors.Errorf("unknown device %s", name)
}

// resolveInput resolves a connection destination. An empty pin selects the
// device's only input; devices with more than one input need an explicit
// pin name.
func (n *Network) resolveInput(dev, pin string) (pinRef, error) {
	d, err := n.device(dev)
	if err != nil {
		return pinRef{}, err
	}
	if len(d.ins) == 0 {
		return pinRef{}, errors.Errorf("%s has no inputs", dev)
	}
	if pin == "" {
		if len(d.ins) == 1 {
			return pinRef{d.id, d.ins[0]}, nil
		}
		return pinRef{}, errors.Errorf("%s needs an input pin name", dev)
	}
	pid := n.tab.Intern(pin)
	for _, in := range d.ins {
		if in == pid {
			return pinRef{d.id, pid}, nil
		}
	}
	return pinRef{}, errors.Errorf("%s has no input pin %s", dev, pin)
}

// resolveOutput resolves a connection source or a monitor point. DTYPE
// outputs must be named Q or QBAR; all other kinds have a single unnamed
// output.
func (n *Network) resolveOutput(dev, pin string) (pinRef, error) {
	d, err := n.device(dev)
	if err != nil {
		return pinRef{}, err
	}
	if d.kind == DType {
		switch pin {
		case "Q":
			return pinRef{d.id, n.pinQ}, nil
		case "QBAR":
			return pinRef{d.id, n.pinQBar}, nil
		}
		return pinRef{}, errors.Errorf("%s output must name Q or QBAR", dev)
	}
	if pin != "" {
		return pinRef{}, errors.Errorf("%s has no output pin %s", dev, pin)
	}
	return pinRef{d.id, names.None}, nil
}

func (n *Network) connect(in, out pinRef) error {
	if _, ok := n.drivers[in]; ok {
		return errors.Errorf("input %s already has a driver", n.signalName(in))
	}
	n.drivers[in] = out
	return nil
}

// Connect wires the output named by src to the input named by dst. Both
// are signal names in "dev" or "dev.PIN" form; dst may omit the pin only
// when the device has exactly one input. An input accepts exactly one
// driver.
//
func (n *Network) Connect(dst, src string) error {
	dd, dp := splitSignal(dst)
	in, err := n.resolveInput(dd, dp)
	if err != nil {
		return err
	}
	sd, sp := splitSignal(src)
	out, err := n.resolveOutput(sd, sp)
	if err != nil {
		return err
	}
	return n.connect(in, out)
}

// FloatingInputs returns the signal names of all inputs with no driver, in
// device creation order. Simulation requires this to be empty.
//
func (n *Network) FloatingInputs() []string {
	var missing []string
	for _, d := range n.devices {
		for _, in := range d.ins {
			if _, ok := n.drivers[pinRef{d.id, in}]; !ok {
				missing = append(missing, n.signalName(pinRef{d.id, in}))
			}
		}
	}
	return missing
}

func (n *Network) signalName(p pinRef) string {
	name, err := n.tab.Name(p.dev)
	if err != nil {
		return "?"
	}
	if p.pin == names.None {
		return name
	}
	pin, err := n.tab.Name(p.pin)
	if err != nil {
		return name + ".?"
	}
	return name + "." + pin
}

func splitSignal(s string) (dev, pin string) {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

// Switches returns the names of all SWITCH devices in creation order.
func (n *Network) Switches() []string {
	var sw []string
	for _, d := range n.devices {
		if d.kind == Switch {
			sw = append(sw, n.signalName(pinRef{d.id, names.None}))
		}
	}
	return sw
}

// SetSwitch sets the position of the named SWITCH device. The new value is
// picked up by the next cycle.
//
func (n *Network) SetSwitch(name string, on bool) error {
	d, err := n.device(name)
	if err != nil {
		return err
	}
	if d.kind != Switch {
		return errors.Errorf("%s is not a switch", name)
	}
	d.state.on = on
	return nil
}

// OnCycle registers fn to run after each completed cycle, e.g. for monitor
// sampling.
//
func (n *Network) OnCycle(fn func()) {
	n.onCycle = append(n.onCycle, fn)
}

// Cycle returns the number of completed cycles since the last reset.
func (n *Network) Cycle() int {
	return n.cycle
}

// Reset puts every device back into its declared initial state and clears
// all pin values and the cycle counter. It does not touch the wiring.
//
func (n *Network) Reset() {
	for _, d := range n.devices {
		d.reset()
	}
	n.cycle = 0
}

// Outputs returns the current value of every output point, keyed by signal
// name ("dev" or "dev.PIN").
//
func (n *Network) Outputs() map[string]bool {
	out := make(map[string]bool, len(n.devices))
	for _, d := range n.devices {
		if d.kind == DType {
			out[n.signalName(pinRef{d.id, n.pinQ})] = d.state.out
			out[n.signalName(pinRef{d.id, n.pinQBar})] = d.state.outBar
			continue
		}
		out[n.signalName(pinRef{d.id, names.None})] = d.state.out
	}
	return out
}

// inputValue reads input i of d: the current output value of whatever
// drives it. Inputs are fully connected once a parse succeeds; a floating
// input reads low.
func (n *Network) inputValue(d *Device, i int) bool {
	src, ok := n.drivers[pinRef{d.id, d.ins[i]}]
	if !ok {
		return false
	}
	return n.outputValue(src)
}

func (n *Network) outputValue(p pinRef) bool {
	d := n.byID[p.dev]
	if p.pin == n.pinQBar && d.kind == DType {
		return d.state.outBar
	}
	return d.state.out
}

// Step advances the network by cycles discrete simulation cycles, one at a
// time, running the registered cycle callbacks after each completed cycle.
// If a cycle's combinational logic fails to settle, Step rolls that cycle
// back and returns an *OscillationError; already completed cycles stay
// committed.
//
func (n *Network) Step(cycles int) error {
	for i := 0; i < cycles; i++ {
		if err := n.stepOne(); err != nil {
			return err
		}
		n.cycle++
		for _, fn := range n.onCycle {
			fn()
		}
	}
	return nil
}

func (n *Network) stepOne() error {
	saved := n.snapshot()

	// clocked update phase
	for _, d := range n.devices {
		if d.kind != Clock {
			continue
		}
		d.state.counter++
		if d.state.counter >= d.half {
			d.state.counter = 0
			d.state.out = !d.state.out
		}
	}

	// stateful device updates
	for _, d := range n.devices {
		switch d.kind {
		case Switch:
			d.state.out = d.state.on
		case DType:
			clk := n.inputValue(d, pinCLK)
			switch {
			case n.inputValue(d, pinCLEAR):
				d.state.out = false
			case n.inputValue(d, pinSET):
				d.state.out = true
			case clk && !d.state.prevClk:
				d.state.out = n.inputValue(d, pinDATA)
			}
			d.state.outBar = !d.state.out
			d.state.prevClk = clk
		case RC:
			in := n.inputValue(d, 0)
			switch {
			case d.state.counter > 0:
				d.state.out = false
				d.state.counter--
			case in && !d.state.prevIn:
				// triggered: low for exactly period cycles, this one
				// included
				d.state.out = false
				d.state.counter = d.period - 1
			default:
				d.state.out = in
			}
			d.state.prevIn = in
		case SigGen:
			d.state.out = d.wave[d.state.index]
			d.state.index++
			if d.state.index == len(d.wave) {
				d.state.index = 0
			}
		}
	}

	// combinational fixed point: recompute every gate output from the
	// previous frame until a full pass changes nothing. All gates in a
	// pass see the same frame, so a two-inverter loop flips back and
	// forth instead of latching on evaluation order.
	if cap(n.next) < len(n.devices) {
		n.next = make([]bool, len(n.devices))
	}
	next := n.next[:len(n.devices)]
	limit := 2*len(n.devices) + 4
	for pass := 0; ; pass++ {
		if pass >= limit {
			n.restore(saved)
			return &OscillationError{Cycle: n.cycle}
		}
		for i, d := range n.devices {
			if d.kind.combinational() {
				next[i] = n.gateValue(d)
			}
		}
		changed := false
		for i, d := range n.devices {
			if d.kind.combinational() && next[i] != d.state.out {
				d.state.out = next[i]
				changed = true
			}
		}
		if !changed {
			return nil
		}
	}
}

func (n *Network) gateValue(d *Device) bool {
	switch d.kind {
	case And, Nand:
		v := true
		for i := range d.ins {
			v = v && n.inputValue(d, i)
		}
		if d.kind == Nand {
			return !v
		}
		return v
	case Or, Nor:
		v := false
		for i := range d.ins {
			v = v || n.inputValue(d, i)
		}
		if d.kind == Nor {
			return !v
		}
		return v
	case Xor:
		return n.inputValue(d, 0) != n.inputValue(d, 1)
	case Not:
		return !n.inputValue(d, 0)
	}
	return d.state.out
}

func (n *Network) snapshot() []devState {
	s := make([]devState, len(n.devices))
	for i, d := range n.devices {
		s[i] = d.state
	}
	return s
}

func (n *Network) restore(s []devState) {
	for i, d := range n.devices {
		d.state = s[i]
	}
}
