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

// Package eeprom implements the serial EEPROM attached to the cube's i2c bus.
//
// The memory is addressed with two bytes (big endian) written after the
// address byte. Writes wrap around at the end of each page. Sequential reads
// continue across page boundaries and wrap around at the end of memory.
//
// The contents are loaded from disk when the device is created and saved to
// disk with the Save() function.
package eeprom

import (
	"fmt"
	"os"

	"github.com/cubesim/cubesim/environment"
	"github.com/cubesim/cubesim/hardware/i2c"
	"github.com/cubesim/cubesim/logger"
	"github.com/cubesim/cubesim/resources"
)

// Address of the device on the bus.
const Address = 0xa0

const eepromPath = "eeprom"

const (
	Size     = 0x8000
	PageSize = 0x40
	NumPages = Size / PageSize
)

// EEPROM implements the i2c.Device interface.
type EEPROM struct {
	env *environment.Environment
	i2c.Addressed

	// the next address a read or write operation will access
	Pointer uint16

	// amend Data only through put() and Poke()
	Data []uint8

	// the data as it is on disk. data is mutable and we need a way of
	// comparing what's on disk with what's in memory.
	DiskData []uint8

	// whether a page has been accessed
	PageAccess []bool

	// number of address bytes received in the current write transaction
	addressBytes int
}

// NewEEPROM is the preferred method of initialisation for the EEPROM type.
// This function will initialise the memory and Load() any existing data from
// disk.
func NewEEPROM(env *environment.Environment) *EEPROM {
	ee := &EEPROM{
		env: env,
		Addressed: i2c.Addressed{
			Address: Address,
		},
		Data:       make([]uint8, Size),
		DiskData:   make([]uint8, Size),
		PageAccess: make([]bool, NumPages),
	}

	// erased memory
	for i := range ee.Data {
		ee.Data[i] = 0xff
	}
	copy(ee.DiskData, ee.Data)

	ee.Load()

	return ee
}

func (ee *EEPROM) String() string {
	return fmt.Sprintf("eeprom: pointer=%04x dirty=%v", ee.Pointer, ee.Dirty())
}

// Reset the pointer and access flags and reload the data from disk.
func (ee *EEPROM) Reset() {
	ee.Addressed.Stop()
	ee.Pointer = 0
	ee.addressBytes = 0
	clear(ee.PageAccess)
	ee.Load()
}

// Dirty returns true if the data differs from the data on disk.
func (ee *EEPROM) Dirty() bool {
	for i := range ee.Data {
		if ee.Data[i] != ee.DiskData[i] {
			return true
		}
	}
	return false
}

// Load EEPROM data from disk.
func (ee *EEPROM) Load() {
	fn, err := resources.JoinPath(eepromPath)
	if err != nil {
		logger.Logf(ee.env, "eeprom", "could not load eeprom file: %v", err)
		return
	}

	f, err := os.Open(fn)
	if err != nil {
		logger.Logf(ee.env, "eeprom", "could not load eeprom file: %v", err)
		return
	}
	defer f.Close()

	fs, err := os.Stat(fn)
	if err != nil {
		logger.Logf(ee.env, "eeprom", "could not load eeprom file: %v", err)
		return
	}
	if fs.Size() != int64(len(ee.Data)) {
		logger.Logf(ee.env, "eeprom", "eeprom file is of incorrect length. %d should be %d", fs.Size(), len(ee.Data))
	}

	_, err = f.Read(ee.Data)
	if err != nil {
		logger.Logf(ee.env, "eeprom", "could not load eeprom file: %v", err)
		return
	}

	// copy of data read from disk
	copy(ee.DiskData, ee.Data)

	logger.Logf(ee.env, "eeprom", "eeprom file loaded from %s", fn)
}

// Save EEPROM data to disk.
func (ee *EEPROM) Save() {
	fn, err := resources.JoinPath(eepromPath)
	if err != nil {
		logger.Logf(ee.env, "eeprom", "could not write eeprom file: %v", err)
		return
	}

	f, err := os.Create(fn)
	if err != nil {
		logger.Logf(ee.env, "eeprom", "could not write eeprom file: %v", err)
		return
	}
	defer func() {
		err := f.Close()
		if err != nil {
			logger.Logf(ee.env, "eeprom", "could not close eeprom file: %v", err)
		}
	}()

	n, err := f.Write(ee.Data)
	if err != nil {
		logger.Logf(ee.env, "eeprom", "could not write eeprom file: %v", err)
		return
	}

	if n != len(ee.Data) {
		logger.Logf(ee.env, "eeprom", "eeprom file has been truncated during write. %d should be %d", n, len(ee.Data))
		return
	}

	logger.Logf(ee.env, "eeprom", "eeprom file saved to %s", fn)

	// copy of data that's just been written to disk
	copy(ee.DiskData, ee.Data)
}

// Peek at a value in EEPROM.
func (ee *EEPROM) Peek(address uint16) uint8 {
	return ee.Data[address%Size]
}

// Poke a value into EEPROM.
func (ee *EEPROM) Poke(address uint16, data uint8) {
	ee.Data[address%Size] = data
}

func (ee *EEPROM) access() {
	ee.PageAccess[ee.Pointer/PageSize] = true
}

// writes stay on the same page, looping back to the start of the current page
func (ee *EEPROM) put(v uint8) {
	ee.access()
	ee.Data[ee.Pointer] = v
	ee.Pointer = ee.Pointer&^(PageSize-1) | (ee.Pointer+1)&(PageSize-1)
}

func (ee *EEPROM) get() uint8 {
	ee.access()
	v := ee.Data[ee.Pointer]
	ee.Pointer = (ee.Pointer + 1) % Size
	return v
}

// Start implements the i2c.Device interface.
func (ee *EEPROM) Start() {
	ee.Addressed.Start()
	ee.addressBytes = 0
}

// Write implements the i2c.Device interface.
func (ee *EEPROM) Write(data uint8) bool {
	if address, ack := ee.Decode(data); address {
		return ack
	}

	if !ee.Selected || ee.Reading {
		return false
	}

	switch ee.addressBytes {
	case 0:
		ee.Pointer = uint16(data) << 8
		ee.addressBytes++
	case 1:
		ee.Pointer = (ee.Pointer | uint16(data)) % Size
		ee.addressBytes++
	default:
		ee.put(data)
	}

	return true
}

// Read implements the i2c.Device interface.
func (ee *EEPROM) Read(_ bool) uint8 {
	if !ee.Selected || !ee.Reading {
		return 0xff
	}
	return ee.get()
}
