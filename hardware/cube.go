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

	"github.com/cubesim/cubesim/environment"
	"github.com/cubesim/cubesim/hardware/cpu"
	"github.com/cubesim/cubesim/hardware/i2c"
	"github.com/cubesim/cubesim/hardware/i2c/accel"
	"github.com/cubesim/cubesim/hardware/i2c/eeprom"
	"github.com/cubesim/cubesim/hardware/i2c/testjig"
	"github.com/cubesim/cubesim/hardware/vtime"
	"github.com/cubesim/cubesim/logger"
)

// Access describes a single SFR access by the firmware.
type Access struct {
	Time    vtime.Ticks
	Address uint8
	Data    uint8
	Write   bool
}

func (a Access) String() string {
	name, ok := cpu.SFRNames[a.Address]
	if !ok {
		name = fmt.Sprintf("%02x", a.Address)
	}
	if a.Write {
		return fmt.Sprintf("%d: %s <- %02x", a.Time, name, a.Data)
	}
	return fmt.Sprintf("%d: %s -> %02x", a.Time, name, a.Data)
}

// Cube is the main container for the emulated components of the cube.
type Cube struct {
	Env *environment.Environment

	Clock    *vtime.Clock
	Deadline *vtime.Deadline
	CPU      *cpu.Core

	Bus *i2c.Bus
	I2C *i2c.Master

	// devices on the bus. the test jig and eeprom are nil if they have not
	// been attached
	Accel   *accel.Accel
	TestJig *testjig.TestJig
	EEPROM  *eeprom.EEPROM

	// called after every SFR access and after the peripherals have been
	// ticked. may be nil
	OnAccess func(Access)
}

// NewCube creates a new cube and everything associated with the hardware.
// Which devices are attached to the bus is decided by the preferences at the
// time of creation.
func NewCube(env *environment.Environment) *Cube {
	cube := &Cube{
		Env:   env,
		Clock: &vtime.Clock{},
	}

	cube.Deadline = vtime.NewDeadline(cube.Clock)
	cube.CPU = cpu.NewCore(env, cube.Clock)
	cube.Bus = i2c.NewBus(env, cube.Clock)
	cube.I2C = i2c.NewMaster(env, cube.Bus)

	cube.Accel = accel.NewAccel(env)
	cube.Bus.Attach(cube.Accel)

	if env.Prefs.TestJig.Get().(bool) {
		cube.TestJig = testjig.NewTestJig(env)
		cube.Bus.Attach(cube.TestJig)
	}

	if env.Prefs.EEPROM.Get().(bool) {
		cube.EEPROM = eeprom.NewEEPROM(env)
		cube.Bus.Attach(cube.EEPROM)
	}

	cube.Init()

	return cube
}

func (cube *Cube) String() string {
	return fmt.Sprintf("%s | %s | %s", cube.Clock, cube.CPU, cube.I2C)
}

// Init resets every part of the cube to the power-on state. Time is reset to
// zero.
func (cube *Cube) Init() {
	cube.Clock.Init()
	cube.Deadline.Reset()
	cube.CPU.Reset()
	cube.I2C.Init()
	cube.Accel.Reset()
	if cube.TestJig != nil {
		cube.TestJig.Reset()
	}
	if cube.EEPROM != nil {
		cube.EEPROM.Reset()
	}
	cube.tick()
}

// Shutdown should be called when the emulation is finished with. Unsaved
// EEPROM data is written to disk.
func (cube *Cube) Shutdown() {
	if cube.EEPROM != nil && cube.EEPROM.Dirty() {
		cube.EEPROM.Save()
	}
}

func (cube *Cube) access(address uint8, data uint8, write bool) {
	cube.tick()
	if cube.OnAccess != nil {
		cube.OnAccess(Access{
			Time:    cube.Clock.Now(),
			Address: address,
			Data:    data,
			Write:   write,
		})
	}
}

// ReadSFR reads a special function register. Registers with read side
// effects are handled by the peripheral that owns them.
func (cube *Cube) ReadSFR(address uint8) uint8 {
	var data uint8

	switch address {
	case cpu.W2DAT:
		data = cube.I2C.ReadData(cube.CPU)
	case cpu.W2CON1:
		data = cube.I2C.ReadCON1(cube.CPU)
	default:
		data = cube.CPU.SFR[address]
	}

	cube.access(address, data, false)

	return data
}

// WriteSFR writes to a special function register.
func (cube *Cube) WriteSFR(address uint8, data uint8) {
	switch address {
	case cpu.W2DAT:
		cube.I2C.WriteData(cube.CPU, data)
	default:
		cube.CPU.SFR[address] = data
	}

	cube.access(address, data, true)
}

// ServiceInterrupt acknowledges the two-wire interrupt if it has been
// requested. Returns false if it has not.
func (cube *Cube) ServiceInterrupt() bool {
	if !cube.CPU.NeedInterruptDispatch {
		return false
	}
	if cube.CPU.ServiceInterrupt(cpu.IRCON_SPI) {
		logger.Logf(cube.Env, "cube", "interrupt serviced at %d", cube.Clock.Now())
		return true
	}
	return false
}
