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
	"sync"

	"github.com/cubesim/cubesim/firmware"
	"github.com/cubesim/cubesim/hardware"
	"github.com/cubesim/cubesim/hardware/i2c/lines"
)

// the number of SFR accesses between state updates
const stateInterval = 64

// Session runs the script file in the background. Only one run is active at
// a time.
type Session struct {
	cube     *hardware.Cube
	runner   *firmware.Runner
	filename string

	Lines *lines.Recorder

	// called from the goroutine running the script. the state is a snapshot
	// and can be kept by the callee. may be nil
	OnState func(*hardware.State, *lines.Recorder)

	// called from the goroutine running the script when the run has ended.
	// err is nil if the script finished normally and is the error of the
	// context if the run was stopped. may be nil
	OnDone func(err error)

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	accesses int
}

// NewSession is the preferred method of initialisation for the Session type.
func NewSession(cube *hardware.Cube, filename string) *Session {
	s := &Session{
		cube:     cube,
		runner:   firmware.NewRunner(cube),
		filename: filename,
		Lines:    lines.NewRecorder(),
	}
	cube.Bus.AddObserver(s.Lines)
	cube.OnAccess = s.access
	return s
}

func (s *Session) access(_ hardware.Access) {
	s.accesses++
	if s.accesses%stateInterval == 0 {
		s.state()
	}
}

func (s *Session) state() {
	if s.OnState != nil {
		s.OnState(s.cube.Snapshot(), s.Lines)
	}
}

// Restart stops any active run, initialises the cube and runs the script
// file again. Restart does not block.
func (s *Session) Restart(ctx context.Context) {
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cube.Init()
	s.accesses = 0

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		err := s.runner.RunFile(ctx, s.filename)
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		s.state()
		if s.OnDone != nil {
			s.OnDone(err)
		}
	}(s.done)
}

// Stop the active run and wait for it to end. Does nothing if there is no
// active run.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}
