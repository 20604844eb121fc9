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


package monitor

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/cubesim/cubesim/hardware"
	"github.com/cubesim/cubesim/hardware/cpu"
	"github.com/cubesim/cubesim/hardware/i2c/lines"
)

type view struct {
	log    *tview.TextView
	regs   *tview.TextView
	traces *tview.TextView
	status *tview.TextView
	input  *tview.InputField
	cols   *tview.Flex
	rows   *tview.Flex
	app    *tview.Application

	// called with every command typed into the input line
	command func(cmd string)

	// updates are not queued once the application has stopped
	stopped atomic.Bool
}

func newView(command func(string)) *view {
	v := &view{
		log: tview.NewTextView().
			SetMaxLines(1000),
		regs: tview.NewTextView().
			SetWrap(false),
		traces: tview.NewTextView().
			SetWrap(false),
		status: tview.NewTextView().
			SetWrap(false),
		input: tview.NewInputField(),
		cols:  tview.NewFlex(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app:     tview.NewApplication(),
		command: command,
	}
	v.log.SetChangedFunc(func() { v.app.Draw() })
	v.regs.SetBackgroundColor(tcell.ColorDarkBlue)
	v.traces.SetBackgroundColor(tcell.ColorDarkGrey)
	v.traces.SetTextColor(tcell.ColorBlack)
	v.cols.
		AddItem(v.regs, 0, 1, false).
		AddItem(v.log, 0, 2, false)
	v.rows.
		AddItem(v.cols, 0, 1, false).
		AddItem(v.traces, 3, 0, false).
		AddItem(v.status, 1, 0, false).
		AddItem(v.input, 1, 0, true)
	v.app.SetRoot(v.rows, true)

	v.input.SetAutocompleteFunc(func(t string) (entries []string) {
		if t == "" {
			return
		}
		for _, c := range []string{"run", "stop", "exit"} {
			if strings.HasPrefix(c, t) {
				entries = append(entries, c)
			}
		}
		return
	})
	v.input.SetAutocompletedFunc(func(t string, index, src int) bool {
		if src != tview.AutocompletedNavigate {
			v.input.SetText(t)
		}
		return src == tview.AutocompletedEnter || src == tview.AutocompletedClick
	})
	v.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		cmd := strings.TrimSpace(v.input.GetText())
		if cmd == "" {
			return
		}
		v.input.SetText("")
		if cmd == "exit" {
			v.app.Stop()
			return
		}
		v.command(cmd)
	})

	return v
}

func (v *view) Run() error {
	defer v.stopped.Store(true)
	return v.app.Run()
}

func (v *view) Stop() {
	v.stopped.Store(true)
	v.app.Stop()
}

// update is safe to call from any goroutine.
func (v *view) update(s *hardware.State, r *lines.Recorder) {
	if v.stopped.Load() {
		return
	}
	regs := stateMsg(s)
	traces := traceMsg(r)
	v.app.QueueUpdateDraw(func() {
		v.regs.SetText(regs)
		v.traces.SetText(traces)
	})
}

// setStatus is safe to call from any goroutine.
func (v *view) setStatus(msg string, fault bool) {
	if v.stopped.Load() {
		return
	}
	v.app.QueueUpdateDraw(func() {
		if fault {
			v.status.SetTextColor(tcell.ColorWhite)
			v.status.SetBackgroundColor(tcell.ColorDarkRed)
		} else {
			v.status.SetTextColor(tcell.ColorBlack)
			v.status.SetBackgroundColor(tcell.ColorDarkGrey)
		}
		v.status.SetText(msg)
	})
}

func stateMsg(s *hardware.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "time     %d\n", s.Time)
	fmt.Fprintf(&b, "deadline %d\n", s.Deadline)
	b.WriteByte('\n')
	for _, a := range slices.Sorted(maps.Keys(cpu.SFRNames)) {
		fmt.Fprintf(&b, "%-8s %02x\n", cpu.SFRNames[a], s.SFR[a])
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "i2c      %s\n", s.I2C)
	fmt.Fprintf(&b, "timer    %d\n", s.I2CTimer)
	fmt.Fprintf(&b, "iex3     %v\n", s.IEX3)
	fmt.Fprintf(&b, "except   %d\n", s.Exceptions)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "accel    %d %d %d\n", s.AccelX, s.AccelY, s.AccelZ)
	return b.String()
}

func traceMsg(r *lines.Recorder) string {
	return fmt.Sprintf("%s\n%s\nstarts %d stops %d at %d",
		r.SDA.String(), r.SCL.String(), r.Starts, r.Stops, r.Last)
}
