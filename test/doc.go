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

// Package test contains helper functions that remove common boilerplate from
// tests.
//
// The Expect functions report a failure with t.Errorf() and allow the test to
// continue. The Demand functions stop the test with t.Fatalf(). Both accept
// optional tags which are prefixed to the failure message. This is useful
// when testing in a loop:
//
//	for i, v := range values {
//		test.ExpectEquality(t, v, expected[i], i)
//	}
//
// ExpectSuccess() and ExpectFailure() interpret their value according to type.
// A bool is successful if it is true. An error is successful if it is nil. An
// untyped nil is a success because that is how a nil error arrives through an
// interface.
//
// CompareWriter implements io.Writer and can be used to capture output for
// comparison.
package test
