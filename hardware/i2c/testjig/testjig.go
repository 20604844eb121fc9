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

// Package testjig implements the host side test fixture that the cube talks to
// over the i2c bus during factory testing.
//
// Data written to the test jig is collected into packets. A packet is complete
// when the transaction ends with a stop condition or a repeated start.
// Data read from the test jig comes from a response buffer filled by the host.
package testjig

import (
	"github.com/cubesim/cubesim/environment"
	"github.com/cubesim/cubesim/hardware/i2c"
	"github.com/cubesim/cubesim/logger"
)

// Address of the device on the bus.
const Address = 0xaa

// TestJig implements the i2c.Device interface.
type TestJig struct {
	env *environment.Environment
	i2c.Addressed

	// completed packets not yet taken by the host
	packets [][]uint8

	// packet being received. nil if no write transaction is in progress
	current []uint8

	response []uint8
}

// NewTestJig is the preferred method of initialisation for the TestJig type.
func NewTestJig(env *environment.Environment) *TestJig {
	return &TestJig{
		env: env,
		Addressed: i2c.Addressed{
			Address: Address,
		},
	}
}

// Reset discards packets and the response buffer.
func (tj *TestJig) Reset() {
	tj.Addressed.Stop()
	tj.packets = nil
	tj.current = nil
	tj.response = nil
}

func (tj *TestJig) deliver() {
	if tj.current == nil {
		return
	}
	logger.Logf(tj.env, "testjig", "packet received: % 02x", tj.current)
	tj.packets = append(tj.packets, tj.current)
	tj.current = nil
}

// Packets returns and forgets the completed packets, oldest first.
func (tj *TestJig) Packets() [][]uint8 {
	p := tj.packets
	tj.packets = nil
	return p
}

// SetResponse replaces the bytes returned by subsequent reads.
func (tj *TestJig) SetResponse(data []uint8) {
	tj.response = append([]uint8{}, data...)
}

// Response returns the number of bytes remaining in the response buffer.
func (tj *TestJig) Response() int {
	return len(tj.response)
}

// Start implements the i2c.Device interface.
func (tj *TestJig) Start() {
	tj.deliver()
	tj.Addressed.Start()
}

// Stop implements the i2c.Device interface.
func (tj *TestJig) Stop() {
	tj.deliver()
	tj.Addressed.Stop()
}

// Write implements the i2c.Device interface.
func (tj *TestJig) Write(data uint8) bool {
	if address, ack := tj.Decode(data); address {
		if tj.Selected && !tj.Reading {
			tj.current = []uint8{}
		}
		return ack
	}

	if !tj.Selected || tj.Reading {
		return false
	}

	tj.current = append(tj.current, data)
	return true
}

// Read implements the i2c.Device interface.
func (tj *TestJig) Read(_ bool) uint8 {
	if !tj.Selected || !tj.Reading {
		return 0xff
	}
	if len(tj.response) == 0 {
		return 0xff
	}
	v := tj.response[0]
	tj.response = tj.response[1:]
	return v
}
