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

package lines

import (
	"github.com/cubesim/cubesim/hardware/i2c"
	"github.com/cubesim/cubesim/hardware/vtime"
)

// Sample is the level of both lines at a single point in time.
type Sample struct {
	SDA bool
	SCL bool
}

// Recorder implements the i2c.Observer interface.
type Recorder struct {
	SDA Trace
	SCL Trace

	// number of start and stop conditions seen
	Starts int
	Stops  int

	// time of the most recent event
	Last vtime.Ticks

	// samples that have not yet been taken by Drain()
	pending []Sample
}

// NewRecorder is the preferred method of initialisation for the Recorder type.
func NewRecorder() *Recorder {
	return &Recorder{
		SDA: NewTrace("SDA"),
		SCL: NewTrace("SCL"),
	}
}

func (r *Recorder) add(sda bool, scl bool) {
	r.SDA.Tick(sda)
	r.SCL.Tick(scl)
	if r.SCL.Hi() && !r.SCL.Changed() {
		if r.SDA.Falling() {
			r.Starts++
		} else if r.SDA.Rising() {
			r.Stops++
		}
	}
	r.pending = append(r.pending, Sample{SDA: sda, SCL: scl})
}

// the eight data bits, most significant first, followed by the acknowledge
// bit. an acknowledge pulls the data line low.
func (r *Recorder) byte(data uint8, ack bool) {
	for i := 7; i >= 0; i-- {
		b := data&(1<<i) != 0
		r.add(b, false)
		r.add(b, true)
	}
	r.add(!ack, false)
	r.add(!ack, true)
}

// Observe implements the i2c.Observer interface.
func (r *Recorder) Observe(ev i2c.Event) {
	r.Last = ev.Time

	switch ev.Kind {
	case i2c.EventStart:
		// releasing the data line before raising the clock allows for
		// repeated start conditions
		r.add(true, false)
		r.add(true, true)
		r.add(false, true)
		r.add(false, false)
	case i2c.EventStop:
		r.add(false, false)
		r.add(false, true)
		r.add(true, true)
	case i2c.EventWrite, i2c.EventRead:
		r.byte(ev.Data, ev.Ack)
	}
}

// Drain returns every sample generated since the previous call.
func (r *Recorder) Drain() []Sample {
	s := r.pending
	r.pending = nil
	return s
}
