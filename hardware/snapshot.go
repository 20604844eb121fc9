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

package hardware

import (
	"github.com/cubesim/cubesim/hardware/i2c"
	"github.com/cubesim/cubesim/hardware/vtime"
)

// State is a copy of the parts of the cube that are interesting to an
// observer. It is produced by the Snapshot() function and is safe to pass to
// another goroutine.
type State struct {
	Time     vtime.Ticks
	Deadline vtime.Ticks
	SFR      [256]uint8

	I2C      i2c.State
	I2CTimer vtime.Ticks
	IEX3     bool

	Exceptions int

	AccelX int16
	AccelY int16
	AccelZ int16
}

// Snapshot the state of the cube.
func (cube *Cube) Snapshot() *State {
	s := &State{
		Time:       cube.Clock.Now(),
		Deadline:   cube.Deadline.Next(),
		SFR:        cube.CPU.SFR,
		I2C:        cube.I2C.State(),
		I2CTimer:   cube.I2C.Timer(),
		IEX3:       cube.I2C.Interrupt(),
		Exceptions: cube.CPU.Exceptions(),
	}
	s.AccelX, s.AccelY, s.AccelZ = cube.Accel.Axes()
	return s
}
