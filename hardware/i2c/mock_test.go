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

package i2c_test

import (
	"fmt"
	"testing"

	"github.com/cubesim/cubesim/environment"
	"github.com/cubesim/cubesim/hardware/cpu"
	"github.com/cubesim/cubesim/hardware/i2c"
	"github.com/cubesim/cubesim/hardware/preferences"
	"github.com/cubesim/cubesim/hardware/vtime"
	"github.com/cubesim/cubesim/test"
)

// mockDevice acknowledges writes and returns data for reads according to its
// fields, regardless of address. every call is recorded.
type mockDevice struct {
	ack  bool
	data uint8
	log  []string
}

func (d *mockDevice) Start() {
	d.log = append(d.log, "start")
}

func (d *mockDevice) Stop() {
	d.log = append(d.log, "stop")
}

func (d *mockDevice) Write(data uint8) bool {
	d.log = append(d.log, fmt.Sprintf("write %02x", data))
	return d.ack
}

func (d *mockDevice) Read(ack bool) uint8 {
	d.log = append(d.log, fmt.Sprintf("read ack=%v", ack))
	return d.data
}

// eventRecorder implements the i2c.Observer interface.
type eventRecorder struct {
	events []i2c.Event
}

func (r *eventRecorder) Observe(ev i2c.Event) {
	r.events = append(r.events, ev)
}

// harness is a minimal driving loop around a single master.
type harness struct {
	t    *testing.T
	clk  *vtime.Clock
	dl   *vtime.Deadline
	core *cpu.Core
	bus  *i2c.Bus
	m    *i2c.Master
	rec  *eventRecorder
}

func newHarness(t *testing.T, devices ...i2c.Device) *harness {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	p, err := preferences.NewPreferences()
	test.DemandSuccess(t, err)
	env, err := environment.NewEnvironment("test", p)
	test.DemandSuccess(t, err)
	env.Normalise()

	h := &harness{
		t:   t,
		clk: &vtime.Clock{},
		rec: &eventRecorder{},
	}
	h.dl = vtime.NewDeadline(h.clk)
	h.core = cpu.NewCore(env, h.clk)
	h.bus = i2c.NewBus(env, h.clk)
	for _, d := range devices {
		h.bus.Attach(d)
	}
	h.bus.AddObserver(h.rec)
	h.m = i2c.NewMaster(env, h.bus)

	return h
}

// tick the master once at the current time.
func (h *harness) tick() {
	h.dl.Reset()
	h.m.Tick(h.dl, h.core)
}

// settle ticks the master until it no longer asks to be ticked at the current
// time.
func (h *harness) settle() {
	h.t.Helper()
	for i := 0; ; i++ {
		if i > 10 {
			h.t.Fatalf("master did not settle at %d", h.clk.Now())
		}
		h.tick()
		if !h.dl.Due() {
			return
		}
	}
}

// advance to the next deadline and settle. fails if there is no deadline.
func (h *harness) advance() {
	h.t.Helper()
	next := h.dl.Next()
	if next == vtime.Never {
		h.t.Fatalf("no deadline to advance to")
	}
	h.dl.Advance(next)
	h.settle()
}

func (h *harness) con0(v uint8) {
	h.core.SFR[cpu.W2CON0] = v
}
