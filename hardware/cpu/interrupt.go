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

// ExternalInterrupt translates a level-sensitive peripheral signal into a
// request on one of the core's edge-triggered interrupt inputs.
type ExternalInterrupt struct {
	// register and bit that selects the rising edge. if the bit is clear the
	// falling edge is used
	polarityReg  uint8
	polarityMask uint8

	// register and bit raised on the selected edge
	requestReg  uint8
	requestMask uint8

	// the level seen on the most recent call to Update()
	level bool
}

// NewIEX3 returns the external interrupt input used by the two-wire and SPI
// peripherals.
func NewIEX3() ExternalInterrupt {
	return ExternalInterrupt{
		polarityReg:  T2CON,
		polarityMask: T2CON_I3FR,
		requestReg:   IRCON,
		requestMask:  IRCON_SPI,
	}
}

// Reset the remembered level.
func (ei *ExternalInterrupt) Reset() {
	ei.level = false
}

// Level returns the most recent level.
func (ei *ExternalInterrupt) Level() bool {
	return ei.level
}

// Update is called every tick with the current level of the peripheral
// signal. Returns true if an interrupt request was raised.
func (ei *ExternalInterrupt) Update(c *Core, level bool) bool {
	if level == ei.level {
		return false
	}
	ei.level = level

	rising := c.SFR[ei.polarityReg]&ei.polarityMask == ei.polarityMask
	if rising != level {
		return false
	}

	c.SFR[ei.requestReg] |= ei.requestMask
	c.NeedInterruptDispatch = true

	return true
}
