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

package eeprom_test

import (
	"testing"

	"github.com/cubesim/cubesim/environment"
	"github.com/cubesim/cubesim/hardware/i2c/eeprom"
	"github.com/cubesim/cubesim/hardware/preferences"
	"github.com/cubesim/cubesim/test"
)

func newEnv(t *testing.T) *environment.Environment {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	p, err := preferences.NewPreferences()
	test.DemandSuccess(t, err)
	env, err := environment.NewEnvironment(environment.MainEmulation, p)
	test.DemandSuccess(t, err)
	return env
}

// write the two address bytes in a write transaction
func address(ee *eeprom.EEPROM, a uint16) {
	ee.Start()
	ee.Write(0xa0)
	ee.Write(uint8(a >> 8))
	ee.Write(uint8(a))
}

func TestErased(t *testing.T) {
	ee := eeprom.NewEEPROM(newEnv(t))
	test.ExpectFailure(t, ee.Dirty())
	for _, a := range []uint16{0x0000, 0x1234, 0x7fff} {
		test.ExpectEquality(t, ee.Peek(a), 0xff, a)
	}
}

func TestWriteRead(t *testing.T) {
	ee := eeprom.NewEEPROM(newEnv(t))

	address(ee, 0x0102)
	for _, v := range []uint8{0xde, 0xad, 0xbe, 0xef} {
		test.ExpectSuccess(t, ee.Write(v))
	}
	ee.Stop()
	test.ExpectSuccess(t, ee.Dirty())
	test.ExpectEquality(t, ee.Peek(0x0102), 0xde)
	test.ExpectEquality(t, ee.Peek(0x0105), 0xef)
	test.ExpectSuccess(t, ee.PageAccess[0x0102/eeprom.PageSize])

	// random read: address phase, repeated start, sequential read
	address(ee, 0x0103)
	ee.Start()
	test.ExpectSuccess(t, ee.Write(0xa1))
	test.ExpectEquality(t, ee.Read(true), 0xad)
	test.ExpectEquality(t, ee.Read(true), 0xbe)
	test.ExpectEquality(t, ee.Read(false), 0xef)
	ee.Stop()

	// reads continue from the pointer
	ee.Start()
	ee.Write(0xa1)
	test.ExpectEquality(t, ee.Read(false), 0xff)
	ee.Stop()
	test.ExpectEquality(t, ee.Pointer, 0x0107)
}

func TestPageWrap(t *testing.T) {
	ee := eeprom.NewEEPROM(newEnv(t))

	address(ee, 0x007e)
	ee.Write(0x01)
	ee.Write(0x02)
	ee.Write(0x03)
	ee.Stop()

	test.ExpectEquality(t, ee.Peek(0x007e), 0x01)
	test.ExpectEquality(t, ee.Peek(0x007f), 0x02)
	test.ExpectEquality(t, ee.Peek(0x0040), 0x03)
	test.ExpectEquality(t, ee.Peek(0x0080), 0xff)

	// reads cross page boundaries and wrap at the end of memory
	ee.Poke(0x7fff, 0x55)
	ee.Poke(0x0000, 0x66)
	address(ee, 0x7fff)
	ee.Start()
	ee.Write(0xa1)
	test.ExpectEquality(t, ee.Read(true), 0x55)
	test.ExpectEquality(t, ee.Read(false), 0x66)
	ee.Stop()
}

func TestNotAddressed(t *testing.T) {
	ee := eeprom.NewEEPROM(newEnv(t))
	ee.Start()
	test.ExpectFailure(t, ee.Write(0x30))
	test.ExpectFailure(t, ee.Write(0x00))
	test.ExpectEquality(t, ee.Read(false), 0xff)
	ee.Stop()
	test.ExpectFailure(t, ee.Dirty())
}

func TestPersistence(t *testing.T) {
	env := newEnv(t)
	ee := eeprom.NewEEPROM(env)

	address(ee, 0x2000)
	ee.Write(0x42)
	ee.Stop()
	ee.Save()
	test.ExpectFailure(t, ee.Dirty())

	// a new device loads the saved data
	ee = eeprom.NewEEPROM(env)
	test.ExpectEquality(t, ee.Peek(0x2000), 0x42)

	// reset discards unsaved changes
	ee.Poke(0x2000, 0x00)
	test.ExpectSuccess(t, ee.Dirty())
	ee.Reset()
	test.ExpectEquality(t, ee.Peek(0x2000), 0x42)
}
