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

// Package i2c implements the cube's two-wire (I2C) master peripheral and the
// shared bus its devices are attached to.
//
// The Master is a state machine driven by the W2CON0 control register and
// the W2DAT data register. It has no FIFO, just a single byte transmit buffer
// and a single byte receive buffer, each with a full flag. Every timed phase
// of a transfer (start condition and address, or a data byte) completes after
// a number of bit periods at the selected bus speed. Completion sets the
// READY bit in W2CON1, which is cleared when the CPU reads W2CON1.
//
// Devices implement the Device interface. The bus is open-drain, so a write
// is acknowledged if any device acknowledges it and a read returns the
// bitwise AND of the bytes returned by every device. A device that is not
// being addressed must return 0xff and must not acknowledge.
//
// The READY condition is presented to the core as a level on the IEX3
// interrupt input, which is edge triggered. See cpu.ExternalInterrupt.
package i2c
