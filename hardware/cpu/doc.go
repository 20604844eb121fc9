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

// Package cpu models the parts of the cube's 8051 core that peripherals
// interact with: the special function register file, the exception hook and
// the interrupt request lines.
//
// Instruction execution is not emulated. Firmware is expected to access the
// register file through the hardware.Cube type, which dispatches accesses
// with side effects to the owning peripheral.
package cpu
