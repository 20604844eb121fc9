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

// Package wavwriter captures the reconstructed SDA and SCL lines of the i2c
// bus as a two channel WAV file, suitable for viewing in an audio editor or
// a logic analyser that accepts WAV input. The left channel is SDA and the
// right channel is SCL.
//
// Note that samples are buffered in memory in their entirety and written to
// disk by Close(). It is therefore probably only suitable for short
// sessions.
package wavwriter

import (
	"os"

	"github.com/cubesim/cubesim/curated"
	"github.com/cubesim/cubesim/hardware/i2c"
	"github.com/cubesim/cubesim/hardware/i2c/lines"
	"github.com/cubesim/cubesim/logger"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// SampleRate of the WAV file. There are two samples per bit so this is
// correct for transfers at 100kHz. Transfers at 400kHz will appear to be
// slowed down by a factor of four.
const SampleRate = 200000

const (
	bitDepth   = 8
	numChans   = 2
	pcmFormat  = 1
	levelHigh  = 0xff
	levelLow   = 0x00
	logTag     = "wavwriter"
)

// WavWriter implements the i2c.Observer interface.
type WavWriter struct {
	env      logger.Permission
	filename string
	recorder *lines.Recorder
	buffer   []int
}

// New is the preferred method of initialisation for the WavWriter type.
func New(env logger.Permission, filename string) *WavWriter {
	return &WavWriter{
		env:      env,
		filename: filename,
		recorder: lines.NewRecorder(),
		buffer:   make([]int, 0),
	}
}

func level(v bool) int {
	if v {
		return levelHigh
	}
	return levelLow
}

// Observe implements the i2c.Observer interface.
func (aw *WavWriter) Observe(ev i2c.Event) {
	aw.recorder.Observe(ev)
	for _, s := range aw.recorder.Drain() {
		aw.buffer = append(aw.buffer, level(s.SDA), level(s.SCL))
	}
}

// Samples returns the number of samples (per channel) captured so far.
func (aw *WavWriter) Samples() int {
	return len(aw.buffer) / numChans
}

// Close writes the captured samples to disk.
func (aw *WavWriter) Close() (rerr error) {
	f, err := os.Create(aw.filename)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	defer func() {
		err := f.Close()
		if err != nil {
			rerr = curated.Errorf("wavwriter: %v", err)
		}
	}()

	enc := wav.NewEncoder(f, SampleRate, bitDepth, numChans, pcmFormat)
	if enc == nil {
		return curated.Errorf("wavwriter: %v", "bad parameters for wav encoding")
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChans,
			SampleRate:  SampleRate,
		},
		Data:           aw.buffer,
		SourceBitDepth: bitDepth,
	}

	logger.Logf(aw.env, logTag, "writing %d samples to %s", aw.Samples(), aw.filename)

	if err := enc.Write(buf); err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	if err := enc.Close(); err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	return nil
}
