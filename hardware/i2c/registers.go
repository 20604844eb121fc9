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

package i2c

// W2CON0 bits.
const (
	W2CON0_STOP   = 0x20
	W2CON0_START  = 0x10
	W2CON0_400KHZ = 0x08
	W2CON0_100KHZ = 0x04
	W2CON0_SPEED  = 0x0c
	W2CON0_MASTER = 0x02
	W2CON0_ENABLE = 0x01
)

// W2CON1 bits.
const (
	W2CON1_MASKIRQ = 0x20
	W2CON1_ACKN    = 0x02
	W2CON1_READY   = 0x01
)

// Number of bit periods in each timed phase of a transfer.
const (
	// start condition, address byte and acknowledge
	addressBits = 10

	// data byte and acknowledge
	dataBits = 9
)
