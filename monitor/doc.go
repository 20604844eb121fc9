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


// Package monitor implements the development mode of the emulator. A firmware
// script is run on the cube and run again, on a freshly initialised cube,
// every time the script file changes on disk.
//
// While the script is running a terminal dashboard shows the registers, the
// state of the I2C master, the SDA and SCL line traces and the log. Commands
// are typed into the input line at the bottom of the dashboard:
//
//	run     run the script again
//	stop    stop the script
//	exit    leave the monitor
package monitor
