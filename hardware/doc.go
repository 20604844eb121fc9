// Package hardware is the base package for the cube emulation. It and its
// sub-packages contain everything required for a headless emulation.
//
// The Cube type is the root of the emulation and contains references to all
// the cube sub-systems. The CPU instruction core is not part of the
// emulation. Instead, the firmware accesses the special function registers
// with the ReadSFR() and WriteSFR() functions. Each access is an instruction
// boundary and the peripherals are ticked after it.
//
// Between accesses, time is moved forward with Step(), RunUntil() or RunFor().
// Time always moves to the nearest deadline requested by the peripherals and
// never beyond it, so a peripheral is always ticked at the exact time it asked
// for.
package hardware
