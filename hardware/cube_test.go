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

package hardware_test

import (
	"strings"
	"testing"

	"github.com/cubesim/cubesim/environment"
	"github.com/cubesim/cubesim/hardware"
	"github.com/cubesim/cubesim/hardware/cpu"
	"github.com/cubesim/cubesim/hardware/i2c"
	"github.com/cubesim/cubesim/hardware/preferences"
	"github.com/cubesim/cubesim/hardware/vtime"
	"github.com/cubesim/cubesim/logger"
	"github.com/cubesim/cubesim/test"
)

func newCube(t *testing.T) *hardware.Cube {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	p, err := preferences.NewPreferences()
	test.DemandSuccess(t, err)
	env, err := environment.NewEnvironment(environment.MainEmulation, p)
	test.DemandSuccess(t, err)
	return hardware.NewCube(env)
}

// poll W2CON1 until the READY bit is seen, stepping between polls
func waitReady(t *testing.T, cube *hardware.Cube) uint8 {
	t.Helper()
	for range 10 {
		v := cube.ReadSFR(cpu.W2CON1)
		if v&i2c.W2CON1_READY == i2c.W2CON1_READY {
			return v
		}
		if !cube.Step() {
			t.Fatalf("nothing scheduled while waiting for ready")
		}
	}
	t.Fatalf("ready never seen")
	return 0
}

func TestDevices(t *testing.T) {
	cube := newCube(t)
	test.ExpectEquality(t, len(cube.Bus.Devices()), 3)
	test.ExpectSuccess(t, cube.TestJig != nil)
	test.ExpectSuccess(t, cube.EEPROM != nil)

	test.ExpectSuccess(t, cube.Env.Prefs.TestJig.Set(false))
	test.ExpectSuccess(t, cube.Env.Prefs.EEPROM.Set(false))
	cube = hardware.NewCube(cube.Env)
	test.ExpectEquality(t, len(cube.Bus.Devices()), 1)
	test.ExpectSuccess(t, cube.TestJig == nil)
	test.ExpectSuccess(t, cube.EEPROM == nil)
}

func TestWhoAmI(t *testing.T) {
	cube := newCube(t)

	var accesses []hardware.Access
	cube.OnAccess = func(a hardware.Access) {
		accesses = append(accesses, a)
	}

	// register pointer
	cube.WriteSFR(cpu.W2CON0, i2c.W2CON0_ENABLE|i2c.W2CON0_400KHZ)
	cube.WriteSFR(cpu.W2DAT, 0x30)
	cube.WriteSFR(cpu.W2DAT, 0x0f)
	test.ExpectEquality(t, waitReady(t, cube)&i2c.W2CON1_ACKN, 0)
	test.ExpectEquality(t, waitReady(t, cube)&i2c.W2CON1_ACKN, 0)
	test.ExpectEquality(t, cube.Clock.Now(), 19*vtime.Hz(400000))

	// repeated start and read
	cube.WriteSFR(cpu.W2CON0, i2c.W2CON0_ENABLE|i2c.W2CON0_400KHZ|i2c.W2CON0_START)
	cube.WriteSFR(cpu.W2DAT, 0x31)
	waitReady(t, cube)
	cube.WriteSFR(cpu.W2CON0, i2c.W2CON0_ENABLE|i2c.W2CON0_400KHZ|i2c.W2CON0_STOP)
	waitReady(t, cube)
	test.ExpectEquality(t, cube.ReadSFR(cpu.W2DAT), 0x33)

	test.ExpectEquality(t, cube.I2C.State(), i2c.Idle)
	test.ExpectEquality(t, cube.CPU.Exceptions(), 0)
	test.ExpectEquality(t, cube.Clock.Now(), 38*vtime.Hz(400000))

	test.DemandEquality(t, accesses[0].Write, true)
	test.ExpectEquality(t, accesses[0].String(), "0: W2CON0 <- 09")
	last := accesses[len(accesses)-1]
	test.ExpectEquality(t, last.Address, cpu.W2DAT)
	test.ExpectEquality(t, last.Data, 0x33)
	test.ExpectEquality(t, last.Write, false)
}

func TestInterrupt(t *testing.T) {
	cube := newCube(t)
	cube.WriteSFR(cpu.INTEXP, cpu.INTEXP_2WIRE)
	cube.WriteSFR(cpu.T2CON, cpu.T2CON_I3FR)

	test.ExpectFailure(t, cube.ServiceInterrupt())

	cube.WriteSFR(cpu.W2CON0, i2c.W2CON0_ENABLE|i2c.W2CON0_100KHZ|i2c.W2CON0_STOP)
	cube.WriteSFR(cpu.W2DAT, 0xa0)
	test.ExpectSuccess(t, cube.Step())
	test.ExpectEquality(t, cube.Clock.Now(), 10*vtime.Hz(100000))
	test.ExpectSuccess(t, cube.CPU.NeedInterruptDispatch)
	test.ExpectSuccess(t, cube.ServiceInterrupt())
	test.ExpectFailure(t, cube.ServiceInterrupt())
	test.ExpectEquality(t, cube.CPU.SFR[cpu.IRCON]&cpu.IRCON_SPI, 0)

	// stop condition was sent at the same instant
	test.ExpectEquality(t, cube.I2C.State(), i2c.Idle)
	test.ExpectFailure(t, cube.Step())
}

func TestRunUntil(t *testing.T) {
	cube := newCube(t)

	// write transaction to the test jig with stop
	cube.WriteSFR(cpu.W2CON0, i2c.W2CON0_ENABLE|i2c.W2CON0_100KHZ|i2c.W2CON0_STOP)
	cube.WriteSFR(cpu.W2DAT, 0xaa)
	test.ExpectEquality(t, cube.Deadline.Next(), 10*vtime.Hz(100000))

	cube.RunUntil(10000)
	test.ExpectEquality(t, cube.Clock.Now(), 10000)
	test.ExpectEquality(t, cube.I2C.State(), i2c.Idle)
	test.ExpectEquality(t, cube.Deadline.Next(), vtime.Never)
	test.ExpectEquality(t, len(cube.TestJig.Packets()), 1)

	cube.RunFor(500)
	test.ExpectEquality(t, cube.Clock.Now(), 10500)

	// time cannot move backwards
	defer func() {
		test.ExpectInequality(t, recover(), nil)
	}()
	cube.RunUntil(10000)
}

func TestRunToEndOfTime(t *testing.T) {
	cube := newCube(t)

	// pending transfer is completed on the way
	cube.WriteSFR(cpu.W2CON0, i2c.W2CON0_ENABLE|i2c.W2CON0_100KHZ|i2c.W2CON0_STOP)
	cube.WriteSFR(cpu.W2DAT, 0xaa)
	cube.RunUntil(vtime.Never)
	test.ExpectEquality(t, cube.Clock.Now(), vtime.Latest)
	test.ExpectEquality(t, len(cube.TestJig.Packets()), 1)

	// nothing further to run
	cube.RunUntil(vtime.Never)
	test.ExpectEquality(t, cube.Clock.Now(), vtime.Latest)
	cube.RunFor(1)
	test.ExpectEquality(t, cube.Clock.Now(), vtime.Latest)
}

func TestRunForClamped(t *testing.T) {
	cube := newCube(t)
	cube.RunFor(100)
	test.ExpectEquality(t, cube.Clock.Now(), 100)
	cube.RunFor(vtime.Never - 50)
	test.ExpectEquality(t, cube.Clock.Now(), vtime.Latest)
}

func TestInit(t *testing.T) {
	cube := newCube(t)

	cube.WriteSFR(cpu.W2CON0, i2c.W2CON0_ENABLE|i2c.W2CON0_400KHZ)
	cube.WriteSFR(cpu.W2DAT, 0x30)
	cube.WriteSFR(cpu.W2DAT, 0x00)
	cube.WriteSFR(cpu.W2DAT, 0x00)
	test.ExpectEquality(t, cube.CPU.Exceptions(), 1)
	cube.RunFor(1000)
	cube.Accel.SetAxes(1, 2, 3)

	cube.Init()
	test.ExpectEquality(t, cube.Clock.Now(), 0)
	test.ExpectEquality(t, cube.CPU.Exceptions(), 0)
	test.ExpectEquality(t, cube.CPU.SFR[cpu.W2CON0], 0)
	test.ExpectEquality(t, cube.I2C.State(), i2c.Idle)
	test.ExpectEquality(t, cube.Deadline.Next(), vtime.Never)

	s := cube.Snapshot()
	test.ExpectEquality(t, s.AccelZ, 16384)
	test.ExpectEquality(t, s.Time, 0)
}

func TestTrace(t *testing.T) {
	cube := newCube(t)
	test.ExpectSuccess(t, cube.Env.Prefs.Trace.Set(true))
	logger.Clear()

	cube.WriteSFR(cpu.W2CON0, i2c.W2CON0_ENABLE|i2c.W2CON0_400KHZ|i2c.W2CON0_STOP)
	cube.WriteSFR(cpu.W2DAT, 0x30)
	cube.RunFor(1000)

	s := &strings.Builder{}
	logger.Write(s)
	test.ExpectSuccess(t, strings.Contains(s.String(), "i2c bus: start"))
	test.ExpectSuccess(t, strings.Contains(s.String(), "i2c bus: write 30 ack=true"))
	test.ExpectSuccess(t, strings.Contains(s.String(), "i2c bus: stop"))
}

func TestShutdown(t *testing.T) {
	cube := newCube(t)
	cube.EEPROM.Poke(0x10, 0x20)
	test.ExpectSuccess(t, cube.EEPROM.Dirty())
	cube.Shutdown()
	test.ExpectFailure(t, cube.EEPROM.Dirty())

	cube = hardware.NewCube(cube.Env)
	test.ExpectEquality(t, cube.EEPROM.Peek(0x10), 0x20)
}
