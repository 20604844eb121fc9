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

package prefs

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/cubesim/cubesim/curated"
)

// DefaultPrefsFile is the name of the file used by the hardware preferences.
const DefaultPrefsFile = "preferences"

// WarningBoilerPlate is the first line of every preferences file.
const WarningBoilerPlate = "*** do not edit this file by hand ***"

// the separator between key and value in the preferences file.
const separator = " :: "

// Sentinal error patterns.
const (
	NoPrefsFile = "prefs: no prefs file (%s)"
	DiskError   = "prefs: %v"
)

// Disk binds preference values to a file.
type Disk struct {
	path    string
	entries map[string]Pref
}

// NewDisk is the preferred method of initialisation for the Disk type. The
// file is not accessed until Load() or Save() is called.
func NewDisk(path string) (*Disk, error) {
	if path == "" {
		return nil, curated.Errorf(DiskError, "no path for prefs file")
	}
	return &Disk{
		path:    path,
		entries: make(map[string]Pref),
	}, nil
}

// Add a preference value under the key.
func (dsk *Disk) Add(key string, p Pref) error {
	if strings.Contains(key, separator) || strings.ContainsAny(key, "\n") {
		return curated.Errorf(DiskError, fmt.Sprintf("illegal key %q", key))
	}
	if _, ok := dsk.entries[key]; ok {
		return curated.Errorf(DiskError, fmt.Sprintf("key %q already added", key))
	}
	dsk.entries[key] = p
	return nil
}

func (dsk *Disk) String() string {
	s := strings.Builder{}
	for _, k := range dsk.keys() {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, separator, dsk.entries[k]))
	}
	return s.String()
}

func (dsk *Disk) keys() []string {
	k := make([]string, 0, len(dsk.entries))
	for key := range dsk.entries {
		k = append(k, key)
	}
	sort.Strings(k)
	return k
}

// Reset every preference value to its zero value.
func (dsk *Disk) Reset() error {
	for _, p := range dsk.entries {
		if err := p.Reset(); err != nil {
			return curated.Errorf(DiskError, err)
		}
	}
	return nil
}

// read the preferences file into a map of strings. a missing file returns an
// empty map and the NoPrefsFile error.
func (dsk *Disk) read() (map[string]string, error) {
	v := make(map[string]string)

	f, err := os.Open(dsk.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return v, curated.Errorf(NoPrefsFile, dsk.path)
		}
		return v, curated.Errorf(DiskError, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	// the first line must be the warning
	if !scanner.Scan() || scanner.Text() != WarningBoilerPlate {
		return v, curated.Errorf(DiskError, fmt.Sprintf("%s is not a preferences file", dsk.path))
	}

	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), separator)
		if ok {
			v[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return v, curated.Errorf(DiskError, err)
	}

	return v, nil
}

// Save all values to the file. Entries in an existing file that do not belong
// to this Disk are kept.
func (dsk *Disk) Save() (rerr error) {
	v, err := dsk.read()
	if err != nil && !curated.Is(err, NoPrefsFile) {
		return err
	}

	for k, p := range dsk.entries {
		v[k] = p.String()
	}

	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f, err := os.Create(dsk.path)
	if err != nil {
		return curated.Errorf(DiskError, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			rerr = curated.Errorf(DiskError, err)
		}
	}()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%s\n", WarningBoilerPlate)
	for _, k := range keys {
		fmt.Fprintf(w, "%s%s%s\n", k, separator, v[k])
	}

	if err := w.Flush(); err != nil {
		return curated.Errorf(DiskError, err)
	}

	return nil
}

// Load values from the file. Command line overrides are applied after the
// file has been read, even if the file does not exist.
//
// Returns NoPrefsFile if the file does not exist. Callers usually treat that
// as a non-error.
func (dsk *Disk) Load() error {
	v, loadErr := dsk.read()
	if loadErr != nil && !curated.Is(loadErr, NoPrefsFile) {
		return loadErr
	}

	for k, p := range dsk.entries {
		if s, ok := v[k]; ok {
			if err := p.Set(s); err != nil {
				return curated.Errorf(DiskError, err)
			}
		}
		if ok, s := GetCommandLinePref(k); ok {
			if err := p.Set(s); err != nil {
				return curated.Errorf(DiskError, err)
			}
		}
	}

	return loadErr
}
