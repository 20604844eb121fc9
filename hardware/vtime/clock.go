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

package vtime

import "fmt"

// ClockRate is the number of ticks in one simulated second.
const ClockRate = 16000000

// Ticks is a count of system clock ticks. Used both for absolute time and
// for durations.
type Ticks uint64

// Never is the deadline value that will never be reached.
const Never = ^Ticks(0)

// Latest is the furthest the clock can be advanced. Never is reserved to mean
// that no deadline has been requested.
const Latest = Never - 1

// Hz returns the number of ticks in one period of the frequency.
func Hz(freq uint64) Ticks {
	return Ticks(ClockRate / freq)
}

// Seconds converts a number of ticks into seconds.
func (t Ticks) Seconds() float64 {
	return float64(t) / ClockRate
}

// Clock is the monotonic simulated time counter.
type Clock struct {
	now Ticks
}

func (clk *Clock) String() string {
	return fmt.Sprintf("%d ticks (%.6fs)", clk.now, clk.now.Seconds())
}

// Init resets the clock to zero. This is the only way time can go backwards.
func (clk *Clock) Init() {
	clk.now = 0
}

// Now returns the current time.
func (clk *Clock) Now() Ticks {
	return clk.now
}

// AdvanceTo moves the clock forward. Moving backwards is a host-side
// programming error and will panic.
func (clk *Clock) AdvanceTo(t Ticks) {
	if t < clk.now {
		panic(fmt.Sprintf("vtime: clock moving backwards from %d to %d", clk.now, t))
	}
	clk.now = t
}
