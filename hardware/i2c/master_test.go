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
	"strings"
	"testing"

	"github.com/cubesim/cubesim/hardware/cpu"
	"github.com/cubesim/cubesim/hardware/i2c"
	"github.com/cubesim/cubesim/hardware/vtime"
	"github.com/cubesim/cubesim/test"
)

const bit100 = vtime.Ticks(160)
const bit400 = vtime.Ticks(40)

func TestReadScenario(t *testing.T) {
	a := &mockDevice{ack: true, data: 0xf3}
	b := &mockDevice{ack: false, data: 0x3f}
	h := newHarness(t, a, b)

	h.con0(i2c.W2CON0_ENABLE | i2c.W2CON0_100KHZ | i2c.W2CON0_START)
	h.m.WriteData(h.core, 0xa1)
	h.settle()

	// start and address phase takes 10 bit periods
	test.ExpectEquality(t, h.m.State(), i2c.WaitingReadAddress)
	test.ExpectEquality(t, h.m.Timer(), 10*bit100)
	test.ExpectEquality(t, h.dl.Next(), 10*bit100)
	test.ExpectEquality(t, h.core.SFR[cpu.W2CON0], i2c.W2CON0_ENABLE|i2c.W2CON0_100KHZ)
	test.ExpectEquality(t, len(a.log), 2)
	test.ExpectEquality(t, a.log[0], "start")
	test.ExpectEquality(t, a.log[1], "write a1")

	// nothing is ready yet
	test.ExpectEquality(t, h.core.SFR[cpu.W2CON1], 0)

	// address phase completes. the read phase is started at the same instant
	h.advance()
	test.ExpectEquality(t, h.clk.Now(), 10*bit100)
	test.ExpectEquality(t, h.m.State(), i2c.Reading)
	test.ExpectEquality(t, h.m.Timer(), 19*bit100)
	test.ExpectEquality(t, h.core.SFR[cpu.W2CON1], i2c.W2CON1_READY)

	// stop requested during the read window
	h.con0(h.core.SFR[cpu.W2CON0] | i2c.W2CON0_STOP)

	h.advance()
	test.ExpectEquality(t, h.clk.Now(), 19*bit100)
	test.ExpectEquality(t, h.m.State(), i2c.Idle)
	test.ExpectEquality(t, h.m.Timer(), 0)
	test.ExpectEquality(t, h.dl.Next(), vtime.Never)
	test.ExpectEquality(t, h.core.SFR[cpu.W2CON0]&i2c.W2CON0_STOP, 0)
	test.ExpectEquality(t, h.core.SFR[cpu.W2CON1]&i2c.W2CON1_READY, i2c.W2CON1_READY)

	// the final byte is not acknowledged by the master and the bus is stopped
	test.ExpectEquality(t, a.log[2], "read ack=false")
	test.ExpectEquality(t, a.log[3], "stop")
	test.ExpectEquality(t, b.log[3], "stop")

	// received byte is the wired-AND of the devices
	test.ExpectEquality(t, h.m.ReadData(h.core), 0x33)
	test.ExpectEquality(t, h.core.Exceptions(), 0)

	kinds := []i2c.EventKind{i2c.EventStart, i2c.EventWrite, i2c.EventRead, i2c.EventStop}
	test.DemandEquality(t, len(h.rec.events), len(kinds))
	for i, k := range kinds {
		test.ExpectEquality(t, h.rec.events[i].Kind, k, i)
	}
	test.ExpectEquality(t, h.rec.events[2].Time, 19*bit100)
}

func TestWriteScenario(t *testing.T) {
	a := &mockDevice{ack: false}
	b := &mockDevice{ack: true}
	h := newHarness(t, a, b)

	// implied start condition
	h.con0(i2c.W2CON0_ENABLE | i2c.W2CON0_400KHZ)
	h.m.WriteData(h.core, 0xa0)
	h.settle()
	test.ExpectEquality(t, h.m.State(), i2c.Writing)
	test.ExpectEquality(t, h.m.Timer(), 10*bit400)

	// data byte written during the address phase waits for it to complete
	h.m.WriteData(h.core, 0x12)
	h.settle()
	test.ExpectEquality(t, len(b.log), 2)

	h.advance()
	test.ExpectEquality(t, b.log[2], "write 12")
	test.ExpectEquality(t, h.m.Timer(), 19*bit400)

	// ack from one device is enough
	test.ExpectEquality(t, h.core.SFR[cpu.W2CON1], i2c.W2CON1_READY)

	h.con0(h.core.SFR[cpu.W2CON0] | i2c.W2CON0_STOP)
	h.advance()
	test.ExpectEquality(t, h.m.State(), i2c.Idle)
	test.ExpectEquality(t, b.log[3], "stop")
	test.ExpectEquality(t, h.core.SFR[cpu.W2CON0], i2c.W2CON0_ENABLE|i2c.W2CON0_400KHZ)
	test.ExpectEquality(t, h.dl.Next(), vtime.Never)
	test.ExpectEquality(t, h.core.Exceptions(), 0)
}

func TestNoAcknowledge(t *testing.T) {
	a := &mockDevice{ack: false}
	b := &mockDevice{ack: false}
	h := newHarness(t, a, b)

	h.con0(i2c.W2CON0_ENABLE | i2c.W2CON0_400KHZ)
	h.m.WriteData(h.core, 0x40)
	h.settle()
	h.advance()
	test.ExpectEquality(t, h.core.SFR[cpu.W2CON1], i2c.W2CON1_READY|i2c.W2CON1_ACKN)
}

func TestWiredAND(t *testing.T) {
	patterns := []struct {
		data     []uint8
		expected uint8
	}{
		{[]uint8{0xff, 0xff}, 0xff},
		{[]uint8{0xf0, 0x0f}, 0x00},
		{[]uint8{0xaa, 0xff, 0xfe}, 0xaa},
		{[]uint8{0x81, 0xc3, 0xe7}, 0x81},
		{[]uint8{}, 0xff},
	}

	for i, p := range patterns {
		var devices []i2c.Device
		for _, d := range p.data {
			devices = append(devices, &mockDevice{ack: true, data: d})
		}
		h := newHarness(t, devices...)

		h.con0(i2c.W2CON0_ENABLE | i2c.W2CON0_400KHZ | i2c.W2CON0_STOP)
		h.m.WriteData(h.core, 0x31)
		h.settle()
		h.advance()
		h.advance()
		test.ExpectEquality(t, h.m.ReadData(h.core), p.expected, i)
	}
}

func TestIdempotentTick(t *testing.T) {
	a := &mockDevice{ack: true, data: 0x55}
	h := newHarness(t, a)

	h.con0(i2c.W2CON0_ENABLE | i2c.W2CON0_100KHZ)
	h.m.WriteData(h.core, 0xa1)
	h.settle()

	timer := h.m.Timer()
	state := h.m.State()
	con0 := h.core.SFR[cpu.W2CON0]
	con1 := h.core.SFR[cpu.W2CON1]
	n := len(a.log)

	check := func() {
		t.Helper()
		test.ExpectEquality(t, h.m.Timer(), timer)
		test.ExpectEquality(t, h.m.State(), state)
		test.ExpectEquality(t, h.core.SFR[cpu.W2CON0], con0)
		test.ExpectEquality(t, h.core.SFR[cpu.W2CON1], con1)
		test.ExpectEquality(t, len(a.log), n)
		test.ExpectEquality(t, h.dl.Next(), timer)
	}

	for range 5 {
		h.tick()
		check()
	}

	// an intermediate wake caused by some other peripheral
	h.dl.Advance(timer / 2)
	h.tick()
	check()

	h.dl.Advance(timer - 1)
	h.tick()
	h.tick()
	check()
}

func TestReadClears(t *testing.T) {
	h := newHarness(t, &mockDevice{ack: true})

	h.con0(i2c.W2CON0_ENABLE | i2c.W2CON0_100KHZ)
	h.m.WriteData(h.core, 0xa0)
	h.settle()
	h.advance()

	test.ExpectEquality(t, h.m.ReadCON1(h.core)&i2c.W2CON1_READY, i2c.W2CON1_READY)
	test.ExpectEquality(t, h.m.ReadCON1(h.core)&i2c.W2CON1_READY, 0)

	// ticking does not set it again
	h.settle()
	test.ExpectEquality(t, h.m.ReadCON1(h.core)&i2c.W2CON1_READY, 0)
}

func TestDisable(t *testing.T) {
	a := &mockDevice{ack: true, data: 0x01}
	h := newHarness(t, a)

	h.con0(i2c.W2CON0_ENABLE | i2c.W2CON0_100KHZ)
	h.m.WriteData(h.core, 0xa1)
	h.settle()
	h.advance()
	test.ExpectEquality(t, h.m.State(), i2c.Reading)

	// a pending transmit byte is discarded too
	h.m.WriteData(h.core, 0x99)

	h.con0(0x00)
	h.settle()
	test.ExpectEquality(t, h.m.State(), i2c.Idle)
	test.ExpectEquality(t, h.m.Timer(), 0)
	test.ExpectEquality(t, h.dl.Next(), vtime.Never)
	test.ExpectEquality(t, h.core.Exceptions(), 0)

	// re-enabling does not send the discarded byte
	n := len(a.log)
	h.con0(i2c.W2CON0_ENABLE | i2c.W2CON0_100KHZ)
	h.settle()
	test.ExpectEquality(t, len(a.log), n)
	test.ExpectEquality(t, h.m.State(), i2c.Idle)

	// and the receive buffer is empty
	h.m.ReadData(h.core)
	test.ExpectEquality(t, h.core.Exceptions(), 1)
}

func TestTransmitFull(t *testing.T) {
	a := &mockDevice{ack: true}
	h := newHarness(t, a)

	// master is disabled so the buffer is never consumed
	h.m.WriteData(h.core, 0x10)
	test.ExpectEquality(t, h.core.Exceptions(), 0)
	h.m.WriteData(h.core, 0x20)
	test.ExpectEquality(t, h.core.Exceptions(), 1)
	test.ExpectEquality(t, h.core.Faults.Log[0].Event, "transmit buffer full")

	// the first byte is the one that is sent
	h.con0(i2c.W2CON0_ENABLE | i2c.W2CON0_100KHZ)
	h.settle()
	test.ExpectEquality(t, h.core.Exceptions(), 1)
	test.DemandEquality(t, len(a.log), 2)
	test.ExpectEquality(t, a.log[1], "write 10")
}

func TestReceiveEmpty(t *testing.T) {
	h := newHarness(t)
	h.m.ReadData(h.core)
	test.ExpectEquality(t, h.core.Exceptions(), 1)
	test.ExpectEquality(t, h.core.Faults.Log[0].Event, "receive buffer empty")
}

func TestChainedReads(t *testing.T) {
	a := &mockDevice{ack: true, data: 0x42}
	h := newHarness(t, a)

	h.con0(i2c.W2CON0_ENABLE | i2c.W2CON0_100KHZ)
	h.m.WriteData(h.core, 0xa1)
	h.settle()
	h.advance()

	// first byte. no stop so the master acknowledges and keeps reading
	h.advance()
	test.ExpectEquality(t, a.log[2], "read ack=true")
	test.ExpectEquality(t, h.m.State(), i2c.Reading)
	test.ExpectEquality(t, h.m.Timer(), 28*bit100)
	test.ExpectEquality(t, h.m.ReadData(h.core), 0x42)

	// second byte costs another 9 bit periods
	h.advance()
	test.ExpectEquality(t, h.clk.Now(), 28*bit100)
	test.ExpectEquality(t, h.m.Timer(), 37*bit100)
	test.ExpectEquality(t, h.core.Exceptions(), 0)

	// not reading the byte before the next one arrives is an overrun
	h.con0(h.core.SFR[cpu.W2CON0] | i2c.W2CON0_STOP)
	h.advance()
	test.ExpectEquality(t, h.core.Exceptions(), 1)
	test.ExpectEquality(t, h.core.Faults.Log[0].Event, "receive overrun")
	test.ExpectEquality(t, h.m.State(), i2c.Idle)
}

func TestBadSpeed(t *testing.T) {
	a := &mockDevice{ack: true}
	h := newHarness(t, a)

	events := map[uint8]string{
		0x00:              "i2c: bad speed (0x00)",
		i2c.W2CON0_SPEED: "i2c: bad speed (0x0c)",
	}

	for speed, event := range events {
		h.m.Init()
		h.core.Reset()
		h.con0(i2c.W2CON0_ENABLE | speed)
		h.m.WriteData(h.core, 0xa0)
		h.settle()

		test.ExpectEquality(t, h.core.Exceptions(), 1, speed)
		test.ExpectEquality(t, h.m.Timer(), 0, speed)
		test.ExpectEquality(t, h.m.State(), i2c.Writing, speed)
		test.ExpectEquality(t, h.m.String(), "writing", speed)

		log := &test.CompareWriter{}
		h.core.Faults.WriteLog(log)
		test.ExpectSuccess(t, strings.HasPrefix(log.String(), event), speed)

		// the transfer can still be stopped
		h.con0(h.core.SFR[cpu.W2CON0] | i2c.W2CON0_STOP)
		h.settle()
		test.ExpectEquality(t, h.m.State(), i2c.Idle, speed)
		test.ExpectEquality(t, h.m.String(), "idle", speed)
	}
}

func TestRepeatedStart(t *testing.T) {
	a := &mockDevice{ack: true, data: 0x0f}
	h := newHarness(t, a)

	h.con0(i2c.W2CON0_ENABLE | i2c.W2CON0_400KHZ)
	h.m.WriteData(h.core, 0x30)
	h.settle()
	h.m.WriteData(h.core, 0x28)
	h.advance()

	// register address written. restart in read direction
	h.con0(h.core.SFR[cpu.W2CON0] | i2c.W2CON0_START)
	h.m.WriteData(h.core, 0x31)
	h.advance()
	test.ExpectEquality(t, h.m.State(), i2c.WaitingReadAddress)
	test.ExpectEquality(t, a.log[3], "start")
	test.ExpectEquality(t, a.log[4], "write 31")
	test.ExpectEquality(t, h.core.SFR[cpu.W2CON0]&i2c.W2CON0_START, 0)
}

func TestInterruptEdge(t *testing.T) {
	transfer := func(h *harness) {
		h.con0(i2c.W2CON0_ENABLE | i2c.W2CON0_400KHZ)
		h.m.WriteData(h.core, 0xa0)
		h.settle()
		test.ExpectEquality(t, h.core.SFR[cpu.IRCON], 0)
		h.advance()
	}

	// rising edge
	h := newHarness(t, &mockDevice{ack: true})
	h.core.SFR[cpu.INTEXP] = cpu.INTEXP_2WIRE
	h.core.SFR[cpu.T2CON] = cpu.T2CON_I3FR
	transfer(h)
	test.ExpectSuccess(t, h.m.Interrupt())
	test.ExpectEquality(t, h.core.SFR[cpu.IRCON], cpu.IRCON_SPI)
	test.ExpectSuccess(t, h.core.NeedInterruptDispatch)
	test.ExpectSuccess(t, h.core.ServiceInterrupt(cpu.IRCON_SPI))
	test.ExpectEquality(t, h.core.SFR[cpu.IRCON], 0)
	test.ExpectFailure(t, h.core.NeedInterruptDispatch)

	// the level staying high is not another edge
	h.tick()
	h.tick()
	test.ExpectEquality(t, h.core.SFR[cpu.IRCON], 0)

	// nor is the falling edge
	h.m.ReadCON1(h.core)
	h.tick()
	test.ExpectFailure(t, h.m.Interrupt())
	test.ExpectEquality(t, h.core.SFR[cpu.IRCON], 0)

	// falling edge
	h = newHarness(t, &mockDevice{ack: true})
	h.core.SFR[cpu.INTEXP] = cpu.INTEXP_2WIRE
	transfer(h)
	test.ExpectSuccess(t, h.m.Interrupt())
	test.ExpectEquality(t, h.core.SFR[cpu.IRCON], 0)
	h.m.ReadCON1(h.core)
	h.tick()
	test.ExpectFailure(t, h.m.Interrupt())
	test.ExpectEquality(t, h.core.SFR[cpu.IRCON], cpu.IRCON_SPI)

	// masked by the peripheral
	h = newHarness(t, &mockDevice{ack: true})
	h.core.SFR[cpu.INTEXP] = cpu.INTEXP_2WIRE
	h.core.SFR[cpu.T2CON] = cpu.T2CON_I3FR
	h.core.SFR[cpu.W2CON1] = i2c.W2CON1_MASKIRQ
	transfer(h)
	test.ExpectFailure(t, h.m.Interrupt())
	test.ExpectEquality(t, h.core.SFR[cpu.W2CON1]&i2c.W2CON1_READY, i2c.W2CON1_READY)
	test.ExpectEquality(t, h.core.SFR[cpu.IRCON], 0)

	// not routed to IEX3
	h = newHarness(t, &mockDevice{ack: true})
	h.core.SFR[cpu.T2CON] = cpu.T2CON_I3FR
	transfer(h)
	test.ExpectFailure(t, h.m.Interrupt())
	test.ExpectEquality(t, h.core.SFR[cpu.IRCON], 0)
}
