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

package modalflag_test

import (
	"testing"

	"github.com/cubesim/cubesim/modalflag"
	"github.com/cubesim/cubesim/test"
)

func TestNoModes(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"-test", "1", "2"})
	testFlag := md.AddBool("test", false, "test flag")
	test.ExpectFailure(t, *testFlag)

	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.Mode(), "")
	test.ExpectEquality(t, md.Path(), "")
	test.ExpectSuccess(t, *testFlag)
	test.ExpectEquality(t, len(md.RemainingArgs()), 2)
	test.ExpectEquality(t, md.GetArg(1), "2")
	test.ExpectEquality(t, md.GetArg(2), "")
}

func TestUnknownFlag(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"-unknown"})
	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseError)
	test.ExpectFailure(t, err)
}

func TestSubModes(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"debug", "-until", "100", "script.lua"})
	md.AddSubModes("RUN", "DEBUG")

	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.Mode(), "DEBUG")

	md.NewMode()
	until := md.AddUint64("until", 0, "run until")
	p, _ = md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectEquality(t, *until, 100)
	test.ExpectEquality(t, md.GetArg(0), "script.lua")
	test.ExpectEquality(t, md.Path(), "DEBUG")
}

func TestDefaultSubMode(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"script.lua"})
	md.AddSubModes("RUN", "DEBUG")
	_, _ = md.Parse()
	test.ExpectEquality(t, md.Mode(), "RUN")

	// flags belonging to the default sub-mode
	md.NewArgs([]string{"-log", "script.lua"})
	md.AddSubModes("RUN", "DEBUG")
	p, _ := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectEquality(t, md.Mode(), "RUN")

	md.NewMode()
	log := md.AddBool("log", false, "echo log")
	_, _ = md.Parse()
	test.ExpectSuccess(t, *log)
	test.ExpectEquality(t, md.GetArg(0), "script.lua")
}

func TestHelp(t *testing.T) {
	tw := &test.CompareWriter{}
	md := modalflag.Modes{Output: tw}

	md.NewArgs([]string{"-help"})
	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseHelp)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, tw.String(), "No help available\n")

	tw.Clear()
	md.NewArgs([]string{"-help"})
	md.AddSubModes("RUN", "DEBUG")
	md.Parse()
	test.ExpectEquality(t, tw.String(), "Usage:\n  available sub-modes: RUN, DEBUG\n    default: RUN\n")

	tw.Clear()
	md.NewArgs([]string{"run", "-help"})
	md.AddSubModes("RUN", "DEBUG")
	md.Parse()
	md.NewMode()
	md.AddBool("log", false, "echo log")
	md.AdditionalHelp("extra")
	md.Parse()
	test.ExpectEquality(t, tw.String(), "Usage for RUN mode\n  -log\n    \techo log\n\nextra\n")
}
