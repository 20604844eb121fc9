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
	"fmt"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"

	"github.com/cubesim/cubesim/logger"
)

// editors often write a file in several steps. changes closer together than
// this are reported once
const settle = 100 * time.Millisecond

// Watch calls changed every time the file is modified, until the context is
// cancelled. The directory containing the file is watched rather than the
// file itself so that editors which replace the file are handled.
func Watch(ctx context.Context, filename string, changed func()) error {
	filename = filepath.Clean(filename)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Watch(filepath.Dir(filename)); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}

	var run <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-run:
			run = nil
			changed()
		case ev := <-watcher.Event:
			if filepath.Clean(ev.Name) == filename && !ev.IsAttrib() {
				run = time.After(settle)
			}
		case err := <-watcher.Error:
			logger.Logf(logger.Allow, "monitor", "watcher: %v", err)
		}
	}
}
