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

// Package firmware runs scripts that stand in for the firmware of the cube.
// A script is written in Lua and interacts with the hardware only through the
// special function registers, exactly as the firmware would.
//
// Scripts have access to the following functions:
//
//	sfr_read(address)        read an SFR
//	sfr_write(address, data) write an SFR
//	wait(ticks)              advance time
//	wait_ready([max])        poll W2CON1 until READY is set. returns the W2CON1
//	                         value or nil if max ticks pass first
//	wait_irq([max])          wait for the two-wire interrupt and service it.
//	                         returns false if max ticks pass first
//	now()                    current time in ticks
//	hz(f)                    number of ticks in one period of frequency f
//	log(s)                   add an entry to the log
//	exceptions()             number of exceptions raised by the peripherals
//	accel(x, y, z)           change the accelerometer reading
//	jig_reply({bytes})       fill the test jig's response buffer
//	jig_packet()             next packet received by the test jig or nil
//
// The SFR and BIT tables contain register addresses and bit values, and the
// bit32 table contains band, bor, bxor, bnot, btest, lshift and rshift.
//
// A demonstration script is embedded in the package. It exercises every device
// on the bus.
package firmware
