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

package cpu

// Special function register addresses.
const (
	IRCON  = 0xc0
	T2CON  = 0xc8
	INTEXP = 0xa6
	W2SADR = 0xd9
	W2DAT  = 0xda
	W2CON1 = 0xe1
	W2CON0 = 0xe2
)

// IRCON bits.
const (
	// interrupt request from the serial peripherals (IEX3)
	IRCON_SPI = 0x04
)

// T2CON bits.
const (
	// IEX3 is triggered on the rising edge if set, otherwise on the falling
	// edge
	T2CON_I3FR = 0x40
)

// INTEXP bits.
const (
	// route the two-wire interrupt to IEX3
	INTEXP_2WIRE = 0x04
)

// SFRNames maps register addresses to names for the registers the emulation
// knows about.
var SFRNames = map[uint8]string{
	IRCON:  "IRCON",
	T2CON:  "T2CON",
	INTEXP: "INTEXP",
	W2SADR: "W2SADR",
	W2DAT:  "W2DAT",
	W2CON1: "W2CON1",
	W2CON0: "W2CON0",
}
