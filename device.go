// Licensed under the MIT license. See license text in the LICENSE file.

package logsim

import (
	"strconv"

	"github.com/lsim/logsim/names"
)

// Kind identifies one of the closed set of device kinds.
type Kind int

// Device kinds.
const (
	Switch Kind = iota
	Clock
	And
	Or
	Nand
	Nor
	Xor
	Not
	DType
	RC
	SigGen
)

var kindNames = [...]string{
	Switch: "SWITCH",
	Clock:  "CLOCK",
	And:    "AND",
	Or:     "OR",
	Nand:   "NAND",
	Nor:    "NOR",
	Xor:    "XOR",
	Not:    "NOT",
	DType:  "DTYPE",
	RC:     "RC",
	SigGen: "SIGGEN",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "KIND(" + strconv.Itoa(int(k)) + ")"
}

// KindByName returns the device kind named by the KIND keyword of a device
// statement.
//
func KindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// combinational reports whether outputs of this kind are recomputed during
// the fixed-point phase of a cycle.
func (k Kind) combinational() bool {
	switch k {
	case And, Or, Nand, Nor, Xor, Not:
		return true
	}
	return false
}

// MaxGateInputs is the largest accepted input arity for the configurable
// gate kinds (AND, OR, NAND, NOR).
const MaxGateInputs = 16

// A Device is a single logic element in a network. Its kind and parameters
// are fixed when it is created; only its state mutates while the network
// steps. Exactly the parameter fields meaningful for the kind are set:
//
//	SWITCH   initial
//	CLOCK    half
//	gates    numInputs (fixed at 2 for XOR and 1 for NOT)
//	RC       period
//	SIGGEN   wave
//
type Device struct {
	id   names.ID
	kind Kind

	numInputs int        // gate input arity
	initial   bool       // SWITCH initial position
	half      int        // CLOCK half-period in cycles
	period    int        // RC decay length in cycles
	wave      []bool     // SIGGEN waveform, one value per cycle, repeated
	ins       []names.ID // input pin names, in evaluation order

	state devState
}

// DTYPE input pin indices in Device.ins.
const (
	pinDATA = iota
	pinSET
	pinCLEAR
	pinCLK
)

// devState is the mutable per-cycle state of a device. It is a plain value
// so that the network can snapshot all device state before a cycle and roll
// it back if the cycle fails to converge.
type devState struct {
	out     bool // output value; Q for DTYPE
	outBar  bool // QBAR, DTYPE only
	on      bool // SWITCH position
	counter int  // CLOCK phase, RC countdown
	index   int  // SIGGEN waveform position
	prevClk bool // DTYPE: CLK level seen in the previous cycle
	prevIn  bool // RC: input level seen in the previous cycle
}

// Kind returns the device kind.
func (d *Device) Kind() Kind {
	return d.kind
}

// reset puts the device back into its declared initial condition.
func (d *Device) reset() {
	d.state = devState{}
	switch d.kind {
	case Switch:
		d.state.on = d.initial
	case DType:
		// the default is arbitrary but fixed; QBAR stays Q's complement
		d.state.outBar = true
	}
}
