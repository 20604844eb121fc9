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
	"github.com/cubesim/cubesim/hardware/cpu"
	"github.com/cubesim/cubesim/hardware/cpu/faults"
	"github.com/cubesim/cubesim/hardware/vtime"
	"github.com/cubesim/cubesim/logger"
)

// State of the master's transfer.
type State int

// List of valid State values.
const (
	// not in a transfer
	Idle State = iota

	// transmitting data bytes
	Writing

	// the address byte of a read is being transmitted
	WaitingReadAddress

	// receiving data bytes
	Reading
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Writing:
		return "writing"
	case WaitingReadAddress:
		return "waiting read address"
	case Reading:
		return "reading"
	}
	return "unknown"
}

// Master is the two-wire master peripheral.
type Master struct {
	env *environment.Environment
	bus *Bus

	state State

	// time at which the current timed phase completes. zero if no phase is in
	// progress
	timer vtime.Ticks

	// the combined acknowledge of the most recent byte written to the bus.
	// presented in W2CON1 when the timed phase completes
	nextAck bool

	tx     uint8
	txFull bool
	rx     uint8
	rxFull bool

	// level to edge translation of the READY signal
	iex3 cpu.ExternalInterrupt
}

// NewMaster is the preferred method of initialisation for the Master type.
func NewMaster(env *environment.Environment, bus *Bus) *Master {
	m := &Master{
		env:  env,
		bus:  bus,
		iex3: cpu.NewIEX3(),
	}
	m.Init()
	return m
}

func (m *Master) String() string {
	s := m.state.String()
	if m.timer != 0 {
		s = fmt.Sprintf("%s until %d", s, m.timer)
	}
	if m.txFull {
		s = fmt.Sprintf("%s tx=%02x", s, m.tx)
	}
	if m.rxFull {
		s = fmt.Sprintf("%s rx=%02x", s, m.rx)
	}
	return s
}

// Init resets the master to the power-on state.
func (m *Master) Init() {
	m.state = Idle
	m.timer = 0
	m.nextAck = false
	m.tx = 0
	m.txFull = false
	m.rx = 0
	m.rxFull = false
	m.iex3.Reset()
}

// State returns the current state of the transfer.
func (m *Master) State() State {
	return m.state
}

// Timer returns the completion time of the current timed phase. Zero if no
// phase is in progress.
func (m *Master) Timer() vtime.Ticks {
	return m.timer
}

// Interrupt returns the level of the interrupt signal at the most recent tick.
func (m *Master) Interrupt() bool {
	return m.iex3.Level()
}

func (m *Master) trace(pattern string, args ...any) {
	if m.env.Prefs.Trace.Get().(bool) {
		logger.Logf(m.env, "i2c", pattern, args...)
	}
}

// Tick must be called whenever the driving loop ticks the peripherals. The
// control registers are read afresh on every call because the CPU may have
// changed them since the previous tick.
func (m *Master) Tick(dl *vtime.Deadline, c *cpu.Core) {
	con0 := c.SFR[cpu.W2CON0]
	con1 := c.SFR[cpu.W2CON1]

	if con0&W2CON0_ENABLE == 0 {
		if m.state != Idle {
			m.trace("state reset")
		}
		m.state = Idle
		m.timer = 0
		m.txFull = false
		m.rxFull = false

	} else if m.timer != 0 {
		if dl.HasPassed(m.timer) {
			// reads are emulated at the end of their time window so that the
			// CPU has had the opportunity to request a stop condition
			m.trace("timer fired")
			m.timer = 0

			if m.state == Reading {
				stop := con0&W2CON0_STOP == W2CON0_STOP

				if m.rxFull {
					c.Except(faults.I2C, "receive overrun")
				}

				m.rx = m.bus.Read(!stop)
				m.rxFull = true

				if stop {
					m.bus.Stop()
					m.state = Idle
					con0 &^= W2CON0_STOP
					c.SFR[cpu.W2CON0] = con0
				} else {
					m.timerSet(dl, c, dataBits)
				}
			}

			if m.nextAck {
				con1 &^= W2CON1_ACKN
			} else {
				con1 |= W2CON1_ACKN
			}
			con1 |= W2CON1_READY
			c.SFR[cpu.W2CON1] = con1

		} else {
			dl.Set(m.timer)
		}

	} else {
		if (m.state == Idle && m.txFull) || con0&W2CON0_START == W2CON0_START {
			// explicit or implied start condition and address byte
			if m.txFull {
				m.bus.Start()
				m.nextAck = m.bus.Write(m.tx)
				if m.tx&0x01 == 0x01 {
					m.state = WaitingReadAddress
				} else {
					m.state = Writing
				}
				con0 &^= W2CON0_START
				c.SFR[cpu.W2CON0] = con0
				m.txFull = false
				m.timerSet(dl, c, addressBits)
			}

		} else if m.state == Writing {
			// writes are emulated at the beginning of their time window
			if m.txFull {
				m.nextAck = m.bus.Write(m.tx)
				m.txFull = false
				m.timerSet(dl, c, dataBits)
			} else if con0&W2CON0_STOP == W2CON0_STOP {
				m.bus.Stop()
				m.state = Idle
				con0 &^= W2CON0_STOP
				c.SFR[cpu.W2CON0] = con0
			}

		} else if m.state == WaitingReadAddress {
			m.state = Reading
			m.timerSet(dl, c, dataBits)
		}
	}

	// ask to be ticked again at this instant if there is more work that does
	// not depend on the passing of time
	if con0&W2CON0_ENABLE == W2CON0_ENABLE && m.timer == 0 && m.pending(con0) {
		dl.Set(dl.Now())
	}

	// the interrupt signal is a level. the core's IEX3 input is edge
	// triggered
	level := con0&W2CON0_ENABLE == W2CON0_ENABLE &&
		con1&W2CON1_READY == W2CON1_READY &&
		con1&W2CON1_MASKIRQ == 0 &&
		c.SFR[cpu.INTEXP]&cpu.INTEXP_2WIRE == cpu.INTEXP_2WIRE

	if level != m.iex3.Level() {
		m.trace("IEX3 level %v -> %v", m.iex3.Level(), level)
	}
	m.iex3.Update(c, level)
}

// pending returns true if the state machine would make a transition on the
// next tick without the passing of time.
func (m *Master) pending(con0 uint8) bool {
	switch m.state {
	case Idle:
		return m.txFull
	case Writing:
		return m.txFull || con0&W2CON0_STOP == W2CON0_STOP
	case WaitingReadAddress:
		return true
	}
	return m.txFull && con0&W2CON0_START == W2CON0_START
}

// timerSet starts a timed phase lasting the number of bit periods.
func (m *Master) timerSet(dl *vtime.Deadline, c *cpu.Core, bits int) {
	switch c.SFR[cpu.W2CON0] & W2CON0_SPEED {
	case W2CON0_400KHZ:
		m.timer = dl.SetRelative(vtime.Hz(400000) * vtime.Ticks(bits))
	case W2CON0_100KHZ:
		m.timer = dl.SetRelative(vtime.Hz(100000) * vtime.Ticks(bits))
	default:
		c.Except(faults.I2C, fmt.Sprintf("bad speed (0x%02x)", c.SFR[cpu.W2CON0]&W2CON0_SPEED))
		return
	}
	m.trace("timer started, %d bits", bits)
}

// WriteData is called when the CPU writes to W2DAT.
func (m *Master) WriteData(c *cpu.Core, data uint8) {
	m.trace("write %02x", data)
	if m.txFull {
		c.Except(faults.I2C, "transmit buffer full")
		return
	}
	m.tx = data
	m.txFull = true
}

// ReadData is called when the CPU reads from W2DAT. Reading an empty buffer
// raises an exception and returns the stale buffer contents.
func (m *Master) ReadData(c *cpu.Core) uint8 {
	if !m.rxFull {
		c.Except(faults.I2C, "receive buffer empty")
	}
	m.trace("read %02x", m.rx)
	m.rxFull = false
	return m.rx
}

// ReadCON1 is called when the CPU reads from W2CON1. The READY bit is cleared
// after every read.
func (m *Master) ReadCON1(c *cpu.Core) uint8 {
	v := c.SFR[cpu.W2CON1]
	c.SFR[cpu.W2CON1] = v &^ W2CON1_READY
	m.trace("con1 -> %02x", v)
	return v
}
