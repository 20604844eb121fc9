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


// Package debugger runs a firmware script under the control of the user. The
// script is halted after every SFR access and the user chooses, with a single
// key press, what happens next.
//
//	s, space, enter    step to the next access
//	c                  continue without halting
//	r                  print the registers and the state of the I2C master
//	t                  print the SDA and SCL line traces
//	l                  print the tail of the log
//	e                  print the exception log
//	q                  quit
//	h, ?               help
//
// When the input is a terminal it is put into cbreak mode for the duration of
// the run, so keys do not need to be followed by enter. Any other reader is
// consumed one byte at a time. If the input is exhausted the script continues
// without halting.
package debugger
