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

// Package prefs binds typed preference values to a preferences file on disk.
//
// Values are declared as one of the types Bool, Int, Float or String and
// registered with a Disk under a key. Keys are conventionally dotted, for
// example "cube.i2c.trace". The file format is one key/value pair per line:
//
//	cube.i2c.trace :: false
//
// Keys in the file that have not been registered with the Disk are preserved
// when the Disk is saved. This means that more than one Disk can share the
// same file.
//
// Values can also be overridden from the command line with the command line
// stack. See PushCommandLineStack() for the format.
package prefs
