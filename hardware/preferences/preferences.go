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

package preferences

import (
	"fmt"
	"math"

	"github.com/cubesim/cubesim/curated"
	"github.com/cubesim/cubesim/prefs"
	"github.com/cubesim/cubesim/resources"
)

// Preferences for the cube hardware.
type Preferences struct {
	dsk *prefs.Disk

	// log every start, stop, read and write on the i2c bus
	Trace prefs.Bool

	// attach the test jig and the serial eeprom to the i2c bus. the
	// accelerometer is always attached
	TestJig prefs.Bool
	EEPROM  prefs.Bool

	// accelerometer reading at power on
	AccelX prefs.Int
	AccelY prefs.Int
	AccelZ prefs.Int
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values are loaded from the preferences file if it exists.
func NewPreferences() (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	for _, a := range []*prefs.Int{&p.AccelX, &p.AccelY, &p.AccelZ} {
		a.SetHookPre(func(v prefs.Value) error {
			if v.(int) < math.MinInt16 || v.(int) > math.MaxInt16 {
				return fmt.Errorf("accelerometer value out of range (%d)", v.(int))
			}
			return nil
		})
	}

	pth, err := resources.JoinPath(prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	for k, v := range map[string]prefs.Pref{
		"cube.i2c.trace": &p.Trace,
		"cube.testjig":   &p.TestJig,
		"cube.eeprom":    &p.EEPROM,
		"cube.accel.x":   &p.AccelX,
		"cube.accel.y":   &p.AccelY,
		"cube.accel.z":   &p.AccelZ,
	} {
		if err := p.dsk.Add(k, v); err != nil {
			return nil, err
		}
	}

	if err := p.dsk.Load(); err != nil {
		// ignore missing prefs file errors
		if !curated.Is(err, prefs.NoPrefsFile) {
			return nil, err
		}
	}

	return p, nil
}

// SetDefaults reverts all preferences to the default values. The cube rests
// face up so the accelerometer reads 1g on the z axis.
func (p *Preferences) SetDefaults() {
	p.Trace.Set(false)
	p.TestJig.Set(true)
	p.EEPROM.Set(true)
	p.AccelX.Set(0)
	p.AccelY.Set(0)
	p.AccelZ.Set(16384)
}

// Load hardware preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save hardware preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
