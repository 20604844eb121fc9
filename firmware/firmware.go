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

package firmware

import (
	"context"
	_ "embed"
	"os"
	"strings"

	"github.com/cubesim/cubesim/curated"
	"github.com/cubesim/cubesim/hardware"
	"github.com/cubesim/cubesim/logger"
	lua "github.com/yuin/gopher-lua"
)

// Demo is the embedded demonstration script.
//
//go:embed demo.lua
var Demo string

// DemoName is the chunk name used when running the demonstration script.
const DemoName = "demo.lua"

// Sentinal error patterns returned by Run() and RunFile().
const (
	ScriptError = "firmware: %v"
	FileError   = "firmware: file: %v"
)

// Runner executes firmware scripts against a cube.
type Runner struct {
	cube *hardware.Cube

	// packets taken from the test jig but not yet returned by jig_packet()
	packets [][]uint8
}

// NewRunner is the preferred method of initialisation for the Runner type.
func NewRunner(cube *hardware.Cube) *Runner {
	return &Runner{
		cube: cube,
	}
}

// RunFile loads and runs the script in the named file.
func (r *Runner) RunFile(ctx context.Context, filename string) error {
	b, err := os.ReadFile(filename)
	if err != nil {
		return curated.Errorf(FileError, err)
	}
	return r.Run(ctx, filename, string(b))
}

// Run the script. The name is used in error messages. The script runs until
// it ends or until the context is cancelled.
//
// The cube is not reset before the script is run.
func (r *Runner) Run(ctx context.Context, name string, script string) error {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	r.install(L)

	fn, err := L.Load(strings.NewReader(script), name)
	if err != nil {
		return curated.Errorf(ScriptError, err)
	}

	logger.Logf(r.cube.Env, "firmware", "running %s", name)

	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return curated.Errorf(ScriptError, err)
	}

	logger.Logf(r.cube.Env, "firmware", "%s finished at %d", name, r.cube.Clock.Now())

	return nil
}
