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

// Package curated wraps the plain error type with a pattern that can be
// tested for later.
//
// Curated errors are created with Errorf(). The pattern and the values are
// stored separately and formatting is deferred until Error() is called. The
// pattern is what identifies the error:
//
//	e := curated.Errorf("i2c: bad speed (0x%02x)", speed)
//
//	if curated.Is(e, "i2c: bad speed (0x%02x)") {
//		...
//	}
//
// Has() is similar to Is() but looks through any curated errors that have
// been used as values, so wrapping an error does not hide it:
//
//	f := curated.Errorf("firmware: %v", e)
//	curated.Has(f, "i2c: bad speed (0x%02x)") // true
//	curated.Is(f, "i2c: bad speed (0x%02x)")  // false
//
// Error() normalises the message so that adjacent duplicate parts are
// removed. Parts are separated by the sub-string ": ". This means that a
// function can prefix its package name without checking whether the callee
// has done the same:
//
//	prefs: prefs: no prefs file
//
// is returned as
//
//	prefs: no prefs file
//
// Pattern strings that are meant to be tested for should be exported as
// constants by the package that creates them.
package curated
