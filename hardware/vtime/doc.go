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

// Package vtime implements the simulated passage of time.
//
// Clock counts ticks of the cube's 16MHz system clock. It only ever moves
// forward and only the driving loop moves it.
//
// Deadline is the scheduling primitive shared by every peripheral. On each
// tick a peripheral that wants to be revisited calls Set() or SetRelative()
// and the driving loop advances the clock to the earliest requested time. A
// peripheral can be ticked before its own deadline (because another
// peripheral asked for an earlier one) and must re-check its own condition on
// every tick with HasPassed().
package vtime
