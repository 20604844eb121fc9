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
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cubesim/cubesim/hardware"
	"github.com/cubesim/cubesim/hardware/i2c/lines"
	"github.com/cubesim/cubesim/logger"
)

// Monitor ties a Session to the file watcher and the dashboard.
type Monitor struct {
	session  *Session
	view     *view
	filename string

	// commands from the dashboard are forwarded to the main loop
	commands chan string
}

// NewMonitor is the preferred method of initialisation for the Monitor type.
func NewMonitor(cube *hardware.Cube, filename string) *Monitor {
	filename = filepath.Clean(filename)

	mon := &Monitor{
		filename: filename,
		commands: make(chan string, 1),
	}

	mon.view = newView(func(cmd string) {
		select {
		case mon.commands <- cmd:
		default:
			logger.Logf(logger.Allow, "monitor", "busy: %s ignored", cmd)
		}
	})

	mon.session = NewSession(cube, filename)
	mon.session.OnState = func(s *hardware.State, r *lines.Recorder) {
		mon.view.update(s, r)
	}
	mon.session.OnDone = func(err error) {
		if err != nil {
			if errors.Is(err, context.Canceled) {
				mon.view.setStatus("stopped", false)
			} else {
				mon.view.setStatus(err.Error(), true)
			}
			return
		}
		mon.view.setStatus(fmt.Sprintf("%s finished", filepath.Base(filename)), false)
	}

	return mon
}

// Run the monitor until the user exits the dashboard or the context is
// cancelled.
func (mon *Monitor) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger.SetEcho(mon.view.log)
	defer logger.SetEcho(nil)

	viewErr := make(chan error, 1)
	go func() {
		viewErr <- mon.view.Run()
		cancel()
	}()

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- Watch(ctx, mon.filename, func() {
			select {
			case mon.commands <- "run":
			default:
			}
		})
	}()

	mon.start(ctx)

	for {
		select {
		case <-ctx.Done():
			mon.session.Stop()
			mon.view.Stop()
			return <-viewErr
		case err := <-watchErr:
			if err != nil {
				mon.session.Stop()
				mon.view.Stop()
				return err
			}
		case cmd := <-mon.commands:
			switch cmd {
			case "run":
				mon.start(ctx)
			case "stop":
				mon.session.Stop()
			default:
				logger.Logf(logger.Allow, "monitor", "unknown command: %s", cmd)
			}
		}
	}
}

func (mon *Monitor) start(ctx context.Context) {
	logger.Logf(logger.Allow, "monitor", "run %s", filepath.Base(mon.filename))
	mon.view.setStatus(fmt.Sprintf("%s running", filepath.Base(mon.filename)), false)
	mon.session.Restart(ctx)
}
