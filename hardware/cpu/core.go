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

package cpu

import (
	"fmt"
	"strings"

	"github.com/cubesim/cubesim/environment"
	"github.com/cubesim/cubesim/hardware/cpu/faults"
	"github.com/cubesim/cubesim/hardware/vtime"
	"github.com/cubesim/cubesim/logger"
)

// Core is the register file and the interrupt and exception state of the
// CPU. It is shared by every peripheral and is only accessed from the
// driving loop.
type Core struct {
	env *environment.Environment
	clk *vtime.Clock

	// the register file is indexed by address. only the top half is used,
	// the bottom half is internal RAM and is not part of the emulation
	SFR [256]uint8

	// set by a peripheral when an interrupt request bit has been raised.
	// cleared by ServiceInterrupt()
	NeedInterruptDispatch bool

	// every exception raised by a peripheral
	Faults faults.Faults
}

// NewCore is the preferred method of initialisation for the Core type.
func NewCore(env *environment.Environment, clk *vtime.Clock) *Core {
	return &Core{
		env:    env,
		clk:    clk,
		Faults: faults.NewFaults(),
	}
}

func (c *Core) String() string {
	s := strings.Builder{}
	for _, a := range []uint8{W2CON0, W2CON1, IRCON, T2CON, INTEXP} {
		s.WriteString(fmt.Sprintf("%s=%02x ", SFRNames[a], c.SFR[a]))
	}
	return strings.TrimSpace(s.String())
}

// Reset the register file to the power-on state.
func (c *Core) Reset() {
	clear(c.SFR[:])
	c.NeedInterruptDispatch = false
	c.Faults.Clear()
}

// Except raises a hardware exception. Exceptions are never fatal to the
// emulation. They are logged and recorded for inspection.
func (c *Core) Except(category faults.Category, event string) {
	e := c.Faults.NewEntry(category, event, c.clk.Now())
	logger.Logf(c.env, "cpu", "exception: %s: %s (x%d)", category, event, e.Count)
}

// Exceptions returns the number of exceptions raised since reset.
func (c *Core) Exceptions() int {
	return c.Faults.Total()
}

// ServiceInterrupt clears the dispatch flag and returns true if the request
// bits in IRCON were set. The request bits are cleared as they would be when
// the core vectors to the interrupt handler.
func (c *Core) ServiceInterrupt(mask uint8) bool {
	c.NeedInterruptDispatch = false
	if c.SFR[IRCON]&mask == 0 {
		return false
	}
	c.SFR[IRCON] &^= mask
	return true
}
