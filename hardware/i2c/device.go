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

package i2c

// Device is implemented by everything attached to the bus.
type Device interface {
	// start condition. the next byte written will be an address
	Start()

	// stop condition
	Stop()

	// Write a byte to the device. Returns true if the device pulls SDA low
	// during the acknowledge bit.
	Write(data uint8) bool

	// Read a byte from the device. The ack argument is the acknowledge the
	// master will send after the byte. A false value tells the device that
	// this is the last byte of the read.
	Read(ack bool) uint8
}

// Addressed is a helper for devices that respond to a single 8 bit address
// (the 7 bit address shifted left). It decodes the address byte that follows
// a start condition.
type Addressed struct {
	Address uint8

	// whether the most recent address byte selected the device and in which
	// direction
	Selected bool
	Reading  bool

	// true until the first byte after a start condition has been written
	expectAddress bool
}

// Start resets the address decoder.
func (a *Addressed) Start() {
	a.Selected = false
	a.Reading = false
	a.expectAddress = true
}

// Stop deselects the device.
func (a *Addressed) Stop() {
	a.Selected = false
	a.Reading = false
	a.expectAddress = false
}

// Decode should be called by the device's Write() function. Returns true if
// the byte was the address byte, in which case the returned ack value should
// be used as the device's acknowledge.
func (a *Addressed) Decode(data uint8) (address bool, ack bool) {
	if !a.expectAddress {
		return false, false
	}
	a.expectAddress = false
	a.Selected = data&0xfe == a.Address&0xfe
	a.Reading = a.Selected && data&0x01 == 0x01
	return true, a.Selected
}
