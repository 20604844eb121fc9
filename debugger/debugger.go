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


package debugger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/cubesim/cubesim/debugger/easyterm"
	"github.com/cubesim/cubesim/debugger/easyterm/ansi"
	"github.com/cubesim/cubesim/firmware"
	"github.com/cubesim/cubesim/hardware"
	"github.com/cubesim/cubesim/hardware/cpu"
	"github.com/cubesim/cubesim/hardware/i2c/lines"
	"github.com/cubesim/cubesim/logger"
)

// the number of log entries shown by the l key
const logTail = 10

// Debugger halts a firmware script after every SFR access.
type Debugger struct {
	cube   *hardware.Cube
	runner *firmware.Runner
	lines  *lines.Recorder

	input  io.Reader
	output io.Writer

	// nil if the input is not a terminal
	term *easyterm.Terminal

	// halt after the next access
	stepping bool

	// the user has asked to quit
	quit   bool
	cancel context.CancelFunc
}

// NewDebugger is the preferred method of initialisation for the Debugger
// type. If input and output are both terminals then output is coloured and
// key presses are read without waiting for enter.
func NewDebugger(cube *hardware.Cube, input io.Reader, output io.Writer) *Debugger {
	dbg := &Debugger{
		cube:   cube,
		runner: firmware.NewRunner(cube),
		lines:  lines.NewRecorder(),
		input:  input,
		output: output,
	}
	cube.Bus.AddObserver(dbg.lines)

	in, ok := input.(*os.File)
	if !ok || !easyterm.IsTerminal(in) {
		return dbg
	}
	out, ok := output.(*os.File)
	if !ok || !easyterm.IsTerminal(out) {
		return dbg
	}

	dbg.term = &easyterm.Terminal{}
	if err := dbg.term.Initialise(in, out); err != nil {
		logger.Logf(logger.Allow, "debugger", "%v", err)
		dbg.term = nil
	}

	return dbg
}

// CleanUp releases the terminal, if one is being used.
func (dbg *Debugger) CleanUp() {
	if dbg.term != nil {
		dbg.term.CleanUp()
	}
}

// Run the script until it ends or until the user quits. Quitting is not an
// error.
func (dbg *Debugger) Run(ctx context.Context, name string, script string) error {
	ctx, dbg.cancel = context.WithCancel(ctx)
	defer dbg.cancel()

	if dbg.term != nil {
		dbg.term.CBreakMode()
		defer dbg.term.CanonicalMode()
	}

	dbg.cube.OnAccess = dbg.halt
	defer func() {
		dbg.cube.OnAccess = nil
	}()

	dbg.stepping = true
	dbg.quit = false

	dbg.printf("", "debugging %s (h for help)\n", name)
	err := dbg.runner.Run(ctx, name, script)
	if dbg.quit {
		dbg.printf("yellow", "quit at %d\n", dbg.cube.Clock.Now())
		return nil
	}

	if err != nil {
		dbg.printf("red", "%v\n", err)
	} else {
		dbg.printf("green", "finished at %d\n", dbg.cube.Clock.Now())
	}
	dbg.printf("", "%d exceptions\n", dbg.cube.CPU.Exceptions())

	return err
}

func (dbg *Debugger) printf(pen string, format string, args ...any) {
	if dbg.term != nil && pen != "" {
		io.WriteString(dbg.output, ansi.Pens[pen])
		defer io.WriteString(dbg.output, ansi.NormalPen)
	}
	fmt.Fprintf(dbg.output, format, args...)
}

func (dbg *Debugger) readKey() (byte, error) {
	var b [1]byte
	for {
		n, err := dbg.input.Read(b[:])
		if n == 1 {
			return b[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// halt is installed as the OnAccess hook of the cube.
func (dbg *Debugger) halt(a hardware.Access) {
	if !dbg.stepping || dbg.quit {
		return
	}

	if a.Write {
		dbg.printf("cyan", "%s\n", a)
	} else {
		dbg.printf("blue", "%s\n", a)
	}

	for {
		key, err := dbg.readKey()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Logf(logger.Allow, "debugger", "%v", err)
			}
			dbg.stepping = false
			return
		}

		switch key {
		case 's', easyterm.KeySpace, easyterm.KeyLineFeed, easyterm.KeyCarriageReturn:
			return
		case 'c':
			dbg.stepping = false
			return
		case 'q', easyterm.KeyInterrupt:
			dbg.quit = true
			dbg.cancel()
			return
		case 'r':
			dbg.registers()
		case 't':
			dbg.traces()
		case 'l':
			logger.Tail(dbg.output, logTail)
		case 'e':
			dbg.cube.CPU.Faults.WriteLog(dbg.output)
		case 'h', '?':
			dbg.help()
		}
	}
}

func (dbg *Debugger) registers() {
	s := dbg.cube.Snapshot()
	for _, a := range slices.Sorted(maps.Keys(cpu.SFRNames)) {
		dbg.printf("", "%s=%02x ", cpu.SFRNames[a], s.SFR[a])
	}
	dbg.printf("", "\n")
	dbg.printf("", "time=%d deadline=%d i2c=%s timer=%d iex3=%v exceptions=%d\n",
		s.Time, s.Deadline, s.I2C, s.I2CTimer, s.IEX3, s.Exceptions)
	dbg.printf("", "accel x=%d y=%d z=%d\n", s.AccelX, s.AccelY, s.AccelZ)
}

// the traces are cropped to fit the width of the terminal
func (dbg *Debugger) traces() {
	for _, tr := range []*lines.Trace{&dbg.lines.SDA, &dbg.lines.SCL} {
		activity := tr.Activity
		if dbg.term != nil {
			w := dbg.term.Width() - len(tr.Label) - 1
			if w > 0 && w < len(activity) {
				activity = activity[len(activity)-w:]
			}
		}
		crop := lines.Trace{Label: tr.Label, Activity: activity}
		dbg.printf("green", "%s\n", crop.String())
	}
	dbg.printf("", "starts=%d stops=%d last=%d\n", dbg.lines.Starts, dbg.lines.Stops, dbg.lines.Last)
}

func (dbg *Debugger) help() {
	dbg.printf("", "s step  c continue  r registers  t traces  l log  e exceptions  q quit\n")
}
