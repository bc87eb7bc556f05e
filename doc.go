/*
Package logsim simulates networks of digital logic devices described in a
small circuit description language.

A description declares devices (switches, clocks, gates, D-type flip-flops,
RC delays and signal generators), wires their inputs to outputs, and names
the signals to monitor. Parse builds the network and accumulates every
error in the file rather than stopping at the first one. The network is
then stepped one clock cycle at a time, with monitors recording a trace of
each watched signal.

*/
package logsim
