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

package faults

import (
	"fmt"
	"io"

	"github.com/cubesim/cubesim/hardware/vtime"
)

// Category of hardware exception. The core treats every category the same
// way but the category is useful for grouping in the log.
type Category string

// List of valid fault categories.
const (
	I2C Category = "i2c"
)

// Entry is a single fault in the log.
type Entry struct {
	Category Category

	// description of the event that triggered the fault
	Event string

	// time of the first and most recent occurrence
	First vtime.Ticks
	Last  vtime.Ticks

	// number of times this fault has been seen
	Count int
}

func (e Entry) String() string {
	if e.Count > 1 {
		return fmt.Sprintf("%s: %s (at %d, x%d last at %d)", e.Category, e.Event, e.First, e.Count, e.Last)
	}
	return fmt.Sprintf("%s: %s (at %d)", e.Category, e.Event, e.First)
}

type key struct {
	category Category
	event    string
}

// Faults is a log of hardware exceptions raised by peripherals.
type Faults struct {
	entries map[key]*Entry

	// entries in the order of their first appearance. the Count field of the
	// entry shows whether it was seen again
	Log []*Entry
}

// NewFaults is the preferred method of initialisation for the Faults type.
func NewFaults() Faults {
	return Faults{
		entries: make(map[key]*Entry),
	}
}

// Clear all entries.
func (flt *Faults) Clear() {
	clear(flt.entries)
	flt.Log = flt.Log[:0]
}

// Total returns the number of faults raised, counting repeats.
func (flt *Faults) Total() int {
	var n int
	for _, e := range flt.Log {
		n += e.Count
	}
	return n
}

// WriteLog writes every entry, one per line.
func (flt *Faults) WriteLog(w io.Writer) {
	for _, e := range flt.Log {
		io.WriteString(w, e.String())
		io.WriteString(w, "\n")
	}
}

// NewEntry records a fault. Repeat faults increase the count of the existing
// entry.
func (flt *Faults) NewEntry(category Category, event string, now vtime.Ticks) *Entry {
	k := key{category: category, event: event}

	e, found := flt.entries[k]
	if !found {
		e = &Entry{
			Category: category,
			Event:    event,
			First:    now,
		}
		flt.entries[k] = e
		flt.Log = append(flt.Log, e)
	}

	e.Count++
	e.Last = now

	return e
}
