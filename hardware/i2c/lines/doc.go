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

// Package lines reconstructs the electrical activity of the SDA and SCL lines
// from the byte level events reported by the i2c bus.
//
// Every bit is represented by two samples. In the first sample the clock is
// low and the data line takes the value of the bit. In the second sample the
// clock is high. Start and stop conditions are the only places where the data
// line changes while the clock is high.
//
// The samples can be consumed with the Drain() function, for example by the
// wavwriter package. The most recent activity of each line is also kept in a
// Trace, suitable for display.
package lines
