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
	"fmt"

	"github.com/cubesim/cubesim/hardware/vtime"
)

// the number of times the peripherals can ask to be ticked again at the same
// instant before it is considered a fault in the emulation
const maxRevisits = 16

// tick the peripherals at the current time. peripherals are ticked again if
// they ask to be revisited at the current time.
func (cube *Cube) tick() {
	for i := 0; i < maxRevisits; i++ {
		cube.Deadline.Reset()
		cube.I2C.Tick(cube.Deadline, cube.CPU)
		if !cube.Deadline.Due() {
			return
		}
	}
	panic(fmt.Sprintf("cube: peripherals have not settled at %d", cube.Clock.Now()))
}

// Step advances time to the next deadline and ticks the peripherals. Returns
// false if no peripheral has a deadline, in which case time does not change.
func (cube *Cube) Step() bool {
	next := cube.Deadline.Next()
	if next == vtime.Never {
		return false
	}
	cube.Deadline.Advance(next)
	cube.tick()
	return true
}

// RunUntil advances time to the target, stopping at every deadline on the
// way. Targets beyond vtime.Latest are treated as vtime.Latest. A target
// earlier than the current time will panic.
func (cube *Cube) RunUntil(target vtime.Ticks) {
	target = min(target, vtime.Latest)
	for cube.Deadline.Next() <= target {
		if !cube.Step() {
			break // for loop
		}
	}
	cube.Deadline.Advance(target)
	cube.tick()
}

// RunFor advances time by the number of ticks. The result is clamped to
// vtime.Latest.
func (cube *Cube) RunFor(d vtime.Ticks) {
	now := cube.Clock.Now()
	if d > vtime.Latest-now {
		cube.RunUntil(vtime.Latest)
		return
	}
	cube.RunUntil(now + d)
}
