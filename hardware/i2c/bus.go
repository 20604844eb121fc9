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

import (
	"fmt"

	"github.com/cubesim/cubesim/environment"
	"github.com/cubesim/cubesim/hardware/vtime"
	"github.com/cubesim/cubesim/logger"
)

// EventKind identifies the type of bus activity.
type EventKind int

// List of valid EventKind values.
const (
	EventStart EventKind = iota
	EventStop
	EventWrite
	EventRead
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventStop:
		return "stop"
	case EventWrite:
		return "write"
	case EventRead:
		return "read"
	}
	return "unknown"
}

// Event describes a single piece of bus activity.
type Event struct {
	Kind EventKind
	Time vtime.Ticks

	// data and acknowledge for read and write events. for a write the ack is
	// the combined ack of the devices, for a read it is the ack sent by the
	// master
	Data uint8
	Ack  bool
}

func (ev Event) String() string {
	switch ev.Kind {
	case EventWrite, EventRead:
		return fmt.Sprintf("%s %02x ack=%v", ev.Kind, ev.Data, ev.Ack)
	}
	return ev.Kind.String()
}

// Observer is notified of all bus activity.
type Observer interface {
	Observe(ev Event)
}

// Bus connects the master to the ordered list of devices.
type Bus struct {
	env *environment.Environment
	clk *vtime.Clock

	devices   []Device
	observers []Observer
}

// NewBus is the preferred method of initialisation for the Bus type.
func NewBus(env *environment.Environment, clk *vtime.Clock) *Bus {
	return &Bus{
		env: env,
		clk: clk,
	}
}

// Attach a device to the bus.
func (b *Bus) Attach(d Device) {
	b.devices = append(b.devices, d)
}

// Devices returns the attached devices in the order they were attached.
func (b *Bus) Devices() []Device {
	return b.devices
}

// AddObserver adds an observer of bus activity.
func (b *Bus) AddObserver(o Observer) {
	b.observers = append(b.observers, o)
}

func (b *Bus) notify(ev Event) {
	ev.Time = b.clk.Now()
	if b.env.Prefs.Trace.Get().(bool) {
		logger.Logf(b.env, "i2c bus", "%s", ev)
	}
	for _, o := range b.observers {
		o.Observe(ev)
	}
}

// Start signals a start condition to every device.
func (b *Bus) Start() {
	for _, d := range b.devices {
		d.Start()
	}
	b.notify(Event{Kind: EventStart})
}

// Stop signals a stop condition to every device.
func (b *Bus) Stop() {
	for _, d := range b.devices {
		d.Stop()
	}
	b.notify(Event{Kind: EventStop})
}

// Write a byte to every device. The acknowledge is the wired-OR of every
// device's acknowledge.
func (b *Bus) Write(data uint8) bool {
	var ack bool
	for _, d := range b.devices {
		// every device sees the byte, even after one has acknowledged
		ack = d.Write(data) || ack
	}
	b.notify(Event{Kind: EventWrite, Data: data, Ack: ack})
	return ack
}

// Read a byte from every device. The result is the wired-AND of every
// device's byte. With no devices the bus floats high.
func (b *Bus) Read(ack bool) uint8 {
	data := uint8(0xff)
	for _, d := range b.devices {
		data &= d.Read(ack)
	}
	b.notify(Event{Kind: EventRead, Data: data, Ack: ack})
	return data
}
