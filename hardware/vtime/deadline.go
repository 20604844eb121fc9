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

// Deadline collects the wake times requested by peripherals during a tick.
// The earliest requested time is the one that matters.
type Deadline struct {
	clk  *Clock
	next Ticks
}

// NewDeadline is the preferred method of initialisation for the Deadline
// type.
func NewDeadline(clk *Clock) *Deadline {
	return &Deadline{
		clk:  clk,
		next: Never,
	}
}

func (dl *Deadline) String() string {
	if dl.next == Never {
		return "never"
	}
	return fmt.Sprintf("%d", dl.next)
}

// Reset forgets all requested wake times. Called by the driving loop before
// ticking the peripherals.
func (dl *Deadline) Reset() {
	dl.next = Never
}

// Now returns the current time of the clock.
func (dl *Deadline) Now() Ticks {
	return dl.clk.Now()
}

// Set requests that the caller be ticked again no later than t.
func (dl *Deadline) Set(t Ticks) {
	if t < dl.next {
		dl.next = t
	}
}

// SetRelative requests that the caller be ticked again in d ticks. Returns
// the absolute time of the request.
func (dl *Deadline) SetRelative(d Ticks) Ticks {
	t := dl.clk.Now() + d
	dl.Set(t)
	return t
}

// HasPassed returns true if the clock has reached t.
func (dl *Deadline) HasPassed(t Ticks) bool {
	return dl.clk.Now() >= t
}

// Next returns the earliest requested time. Returns Never if nothing has been
// requested since the last Reset().
func (dl *Deadline) Next() Ticks {
	return dl.next
}

// Due returns true if a request has been made for the current time, or for a
// time that has already passed.
func (dl *Deadline) Due() bool {
	return dl.next <= dl.clk.Now()
}

// Advance moves the clock forward to t. Moving past the earliest requested
// time would skip a peripheral event and is a host-side programming error
// that will panic.
func (dl *Deadline) Advance(t Ticks) {
	if t > dl.next {
		panic(fmt.Sprintf("vtime: advancing to %d past pending deadline %d", t, dl.next))
	}
	dl.clk.AdvanceTo(t)
}
