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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It handles program modes and allows different flags for each mode.
//
// Arguments are given with NewArgs() and parsed with Parse(). Sub-modes
// that may follow the flags of the current mode are added with AddSubModes(),
// the first sub-mode being the default. For example, with the sub-modes RUN
// and DEBUG, both of the following select the RUN mode:
//
//	cubesim RUN demo.lua
//	cubesim demo.lua
//
// Once a mode has been selected, NewMode() prepares for the flags of that
// mode and Parse() is called again:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "DEBUG")
//	if r, _ := md.Parse(); r != modalflag.ParseContinue {
//		return
//	}
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		log := md.AddBool("log", false, "echo log to stdout")
//		...
//	}
//
// Help is printed automatically when the -help flag is seen. It includes the
// flags of the current mode and the list of sub-modes.
package modalflag
