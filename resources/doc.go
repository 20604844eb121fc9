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

// Package resources prepares paths for files that persist between sessions,
// such as the preferences file and EEPROM images.
//
// JoinPath() returns the path to the named resource, creating intermediate
// directories as required. It does not create the file itself.
//
// The base directory is "cubesim" in the current working directory if that
// directory exists. This is the portable arrangement and is convenient during
// development. Otherwise the base is rooted in the user's configuration
// directory. On a Linux system this would be something like:
//
//	/home/user/.config/cubesim/
package resources
