// This file is part of Cubesim.
//
// Cubesim is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Cubesim is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Cubesim.  If not, see <https://www.gnu.org/licenses/>.

// Package accel implements the three axis accelerometer attached to the cube's
// i2c bus.
//
// The device has a register pointer which is set by the first byte written
// after the address byte. If bit 7 of the pointer byte is set the pointer
// increments after every subsequent read or write, allowing all three axes to
// be read in one transaction.
package accel

import (
	"fmt"

	"github.com/cubesim/cubesim/environment"
	"github.com/cubesim/cubesim/hardware/i2c"
	"github.com/cubesim/cubesim/logger"
)

// Address of the device on the bus.
const Address = 0x30

// Register addresses.
const (
	WHO_AM_I  = 0x0f
	CTRL_REG1 = 0x20
	CTRL_REG6 = 0x25
	OUT_X_L   = 0x28
	OUT_X_H   = 0x29
	OUT_Y_L   = 0x2a
	OUT_Y_H   = 0x2b
	OUT_Z_L   = 0x2c
	OUT_Z_H   = 0x2d
)

// value of the WHO_AM_I register
const identity = 0x33

// power on value of CTRL_REG1. all axes enabled
const ctrlReg1Default = 0x07

const (
	autoIncrement = 0x80
	pointerMask   = 0x3f
)

// Accel implements the i2c.Device interface.
type Accel struct {
	env *environment.Environment
	i2c.Addressed

	Registers [pointerMask + 1]uint8

	pointer       uint8
	increment bool

	// the next byte written is the register pointer
	expectPointer bool
}

// NewAccel is the preferred method of initialisation for the Accel type.
func NewAccel(env *environment.Environment) *Accel {
	acc := &Accel{
		env: env,
		Addressed: i2c.Addressed{
			Address: Address,
		},
	}
	acc.Reset()
	return acc
}

func (acc *Accel) String() string {
	x, y, z := acc.Axes()
	return fmt.Sprintf("accel: x=%d y=%d z=%d", x, y, z)
}

// Reset registers to their power on values. The axes are taken from the
// preferences.
func (acc *Accel) Reset() {
	clear(acc.Registers[:])
	acc.Registers[WHO_AM_I] = identity
	acc.Registers[CTRL_REG1] = ctrlReg1Default
	acc.pointer = 0
	acc.increment = false
	acc.expectPointer = false
	acc.SetAxes(
		int16(acc.env.Prefs.AccelX.Get().(int)),
		int16(acc.env.Prefs.AccelY.Get().(int)),
		int16(acc.env.Prefs.AccelZ.Get().(int)),
	)
}

// SetAxes changes the current reading of the accelerometer.
func (acc *Accel) SetAxes(x, y, z int16) {
	put := func(reg uint8, v int16) {
		acc.Registers[reg] = uint8(v)
		acc.Registers[reg+1] = uint8(uint16(v) >> 8)
	}
	put(OUT_X_L, x)
	put(OUT_Y_L, y)
	put(OUT_Z_L, z)
}

// Axes returns the current reading of the accelerometer.
func (acc *Accel) Axes() (x, y, z int16) {
	get := func(reg uint8) int16 {
		return int16(uint16(acc.Registers[reg]) | uint16(acc.Registers[reg+1])<<8)
	}
	return get(OUT_X_L), get(OUT_Y_L), get(OUT_Z_L)
}

func (acc *Accel) next() {
	if acc.increment {
		acc.pointer = (acc.pointer + 1) & pointerMask
	}
}

// Start implements the i2c.Device interface.
func (acc *Accel) Start() {
	acc.Addressed.Start()
	acc.expectPointer = false
}

// Write implements the i2c.Device interface.
func (acc *Accel) Write(data uint8) bool {
	if address, ack := acc.Decode(data); address {
		acc.expectPointer = acc.Selected && !acc.Reading
		return ack
	}

	if !acc.Selected || acc.Reading {
		return false
	}

	if acc.expectPointer {
		acc.expectPointer = false
		acc.pointer = data & pointerMask
		acc.increment = data&autoIncrement == autoIncrement
		return true
	}

	// only the control registers are writable. writes to other registers
	// are acknowledged and ignored
	if acc.pointer >= CTRL_REG1 && acc.pointer <= CTRL_REG6 {
		acc.Registers[acc.pointer] = data
		logger.Logf(acc.env, "accel", "register %02x = %02x", acc.pointer, data)
	}
	acc.next()

	return true
}

// Read implements the i2c.Device interface.
func (acc *Accel) Read(_ bool) uint8 {
	if !acc.Selected || !acc.Reading {
		return 0xff
	}
	v := acc.Registers[acc.pointer]
	acc.next()
	return v
}
