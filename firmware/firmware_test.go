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

package firmware_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cubesim/cubesim/curated"
	"github.com/cubesim/cubesim/environment"
	"github.com/cubesim/cubesim/firmware"
	"github.com/cubesim/cubesim/hardware"
	"github.com/cubesim/cubesim/hardware/preferences"
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

func run(t *testing.T, cube *hardware.Cube, script string) error {
	t.Helper()
	return firmware.NewRunner(cube).Run(context.Background(), t.Name(), script)
}

func TestDemo(t *testing.T) {
	cube := newCube(t)
	logger.Clear()

	err := firmware.NewRunner(cube).Run(context.Background(), firmware.DemoName, firmware.Demo)
	test.DemandSuccess(t, err)

	s := &strings.Builder{}
	logger.Write(s)
	for _, l := range []string{
		"firmware: accel id 33\n",
		"firmware: accel x=100 y=-200 z=16384\n",
		"firmware: eeprom de ad be ef\n",
		"firmware: jig packet 01 02 03\n",
		"firmware: jig reply 55 aa\n",
		"firmware: exceptions 0\n",
	} {
		test.ExpectSuccess(t, strings.Contains(s.String(), l), strings.TrimSpace(l))
	}

	test.ExpectEquality(t, cube.CPU.Exceptions(), 0)
	test.ExpectEquality(t, cube.EEPROM.Peek(0x0100), 0xde)
	test.ExpectEquality(t, cube.EEPROM.Peek(0x0103), 0xef)
	test.ExpectEquality(t, cube.CPU.SFR[0xa6], 0)

	// the empty packet sent in the interrupt test has not been taken by the
	// script
	p := cube.TestJig.Packets()
	test.DemandEquality(t, len(p), 1)
	test.ExpectEquality(t, len(p[0]), 0)
}

func TestScriptError(t *testing.T) {
	cube := newCube(t)

	err := run(t, cube, `error("boom")`)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, firmware.ScriptError))
	test.ExpectSuccess(t, strings.Contains(err.Error(), "boom"))

	err = run(t, cube, `sfr_write(`)
	test.ExpectSuccess(t, curated.Is(err, firmware.ScriptError))

	err = run(t, cube, `sfr_read(0x100)`)
	test.ExpectSuccess(t, curated.Is(err, firmware.ScriptError))

	err = run(t, cube, `accel(0, 0, 40000)`)
	test.ExpectSuccess(t, curated.Is(err, firmware.ScriptError))
}

func TestTime(t *testing.T) {
	cube := newCube(t)
	test.ExpectSuccess(t, run(t, cube, `
		assert(now() == 0)
		wait(1000)
		assert(now() == 1000)
		assert(hz(100000) == 160)
		assert(hz(400000) == 40)
	`))
	test.ExpectEquality(t, cube.Clock.Now(), 1000)
}

func TestTimeout(t *testing.T) {
	cube := newCube(t)
	test.ExpectSuccess(t, run(t, cube, `
		assert(wait_ready(500) == nil)
		assert(now() == 500)
		assert(wait_irq(100) == false)
		assert(now() == 600)
	`))
}

func TestRegisters(t *testing.T) {
	cube := newCube(t)
	test.ExpectSuccess(t, run(t, cube, `
		assert(SFR.W2CON0 == 0xe2)
		assert(BIT.W2CON1_READY == 0x01)
		sfr_write(SFR.T2CON, BIT.T2CON_I3FR)
		assert(sfr_read(SFR.T2CON) == 0x40)

		-- reading an empty receive buffer is an exception
		sfr_read(SFR.W2DAT)
		assert(exceptions() == 1)
	`))
	test.ExpectEquality(t, cube.CPU.Exceptions(), 1)
}

func TestBit32(t *testing.T) {
	cube := newCube(t)
	test.ExpectSuccess(t, run(t, cube, `
		assert(bit32.band(0xff, 0x0f) == 0x0f)
		assert(bit32.band(0xff, 0x3c, 0x0f) == 0x0c)
		assert(bit32.bor(0x10, 0x01) == 0x11)
		assert(bit32.bxor(0xff, 0x0f) == 0xf0)
		assert(bit32.bnot(0) == 0xffffffff)
		assert(bit32.btest(0x03, 0x02))
		assert(not bit32.btest(0x03, 0x04))
		assert(bit32.lshift(1, 4) == 16)
		assert(bit32.rshift(0x80, 7) == 1)
	`))
}

func TestTestJig(t *testing.T) {
	cube := newCube(t)
	test.ExpectSuccess(t, run(t, cube, `
		assert(jig_packet() == nil)
		jig_reply({1, 2, 3})
	`))
	test.ExpectEquality(t, cube.TestJig.Response(), 3)

	test.ExpectSuccess(t, cube.Env.Prefs.TestJig.Set(false))
	cube = hardware.NewCube(cube.Env)
	err := run(t, cube, `jig_reply({1})`)
	test.ExpectSuccess(t, curated.Is(err, firmware.ScriptError))
}

func TestCancel(t *testing.T) {
	cube := newCube(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := firmware.NewRunner(cube).Run(ctx, "loop", `while true do end`)
	test.ExpectSuccess(t, curated.Is(err, firmware.ScriptError))
}

func TestRunFile(t *testing.T) {
	cube := newCube(t)

	fn := filepath.Join(t.TempDir(), "script.lua")
	test.DemandSuccess(t, os.WriteFile(fn, []byte(`wait(10)`), 0o600))
	test.ExpectSuccess(t, firmware.NewRunner(cube).RunFile(context.Background(), fn))
	test.ExpectEquality(t, cube.Clock.Now(), 10)

	err := firmware.NewRunner(cube).RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua"))
	test.ExpectSuccess(t, curated.Is(err, firmware.FileError))
}
