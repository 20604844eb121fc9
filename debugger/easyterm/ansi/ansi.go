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


// Package ansi defines the few ANSI sequences used to colour debugger output.
package ansi

// the pen sequences used by the debugger
var Pens = map[string]string{
	"red":    "\033[91m",
	"green":  "\033[92m",
	"yellow": "\033[93m",
	"blue":   "\033[94m",
	"cyan":   "\033[96m",
}

// NormalPen resets the pen and any attributes.
const NormalPen = "\033[0m"
