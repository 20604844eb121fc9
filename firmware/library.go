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
	"fmt"

	"github.com/cubesim/cubesim/hardware/cpu"
	"github.com/cubesim/cubesim/hardware/i2c"
	"github.com/cubesim/cubesim/hardware/vtime"
	"github.com/cubesim/cubesim/logger"
	lua "github.com/yuin/gopher-lua"
)

// the maximum number of ticks wait_ready() and wait_irq() will wait for if
// no value is given. 10ms
const defaultWait = vtime.ClockRate / 100

var sfrTable = map[string]uint8{
	"IRCON":  cpu.IRCON,
	"T2CON":  cpu.T2CON,
	"INTEXP": cpu.INTEXP,
	"W2SADR": cpu.W2SADR,
	"W2DAT":  cpu.W2DAT,
	"W2CON1": cpu.W2CON1,
	"W2CON0": cpu.W2CON0,
}

var bitTable = map[string]uint8{
	"W2CON0_STOP":    i2c.W2CON0_STOP,
	"W2CON0_START":   i2c.W2CON0_START,
	"W2CON0_400KHZ":  i2c.W2CON0_400KHZ,
	"W2CON0_100KHZ":  i2c.W2CON0_100KHZ,
	"W2CON0_MASTER":  i2c.W2CON0_MASTER,
	"W2CON0_ENABLE":  i2c.W2CON0_ENABLE,
	"W2CON1_MASKIRQ": i2c.W2CON1_MASKIRQ,
	"W2CON1_ACKN":    i2c.W2CON1_ACKN,
	"W2CON1_READY":   i2c.W2CON1_READY,
	"IRCON_SPI":      cpu.IRCON_SPI,
	"T2CON_I3FR":     cpu.T2CON_I3FR,
	"INTEXP_2WIRE":   cpu.INTEXP_2WIRE,
}

func (r *Runner) install(L *lua.LState) {
	table := func(m map[string]uint8) *lua.LTable {
		t := L.NewTable()
		for k, v := range m {
			L.SetField(t, k, lua.LNumber(v))
		}
		return t
	}
	L.SetGlobal("SFR", table(sfrTable))
	L.SetGlobal("BIT", table(bitTable))

	bit32 := L.NewTable()
	L.SetFuncs(bit32, map[string]lua.LGFunction{
		"band":   bitOp(func(a, b uint32) uint32 { return a & b }, 0xffffffff),
		"bor":    bitOp(func(a, b uint32) uint32 { return a | b }, 0),
		"bxor":   bitOp(func(a, b uint32) uint32 { return a ^ b }, 0),
		"bnot":   bnot,
		"btest":  btest,
		"lshift": shift(func(a uint32, n uint) uint32 { return a << n }),
		"rshift": shift(func(a uint32, n uint) uint32 { return a >> n }),
	})
	L.SetGlobal("bit32", bit32)

	for name, fn := range map[string]lua.LGFunction{
		"sfr_read":   r.sfrRead,
		"sfr_write":  r.sfrWrite,
		"wait":       r.wait,
		"wait_ready": r.waitReady,
		"wait_irq":   r.waitIRQ,
		"now":        r.now,
		"hz":         hz,
		"log":        r.log,
		"exceptions": r.exceptions,
		"accel":      r.accel,
		"jig_reply":  r.jigReply,
		"jig_packet": r.jigPacket,
	} {
		L.SetGlobal(name, L.NewFunction(fn))
	}
}

func checkAddress(L *lua.LState, n int) uint8 {
	a := L.CheckInt(n)
	if a < 0 || a > 0xff {
		L.ArgError(n, fmt.Sprintf("SFR address out of range (%#x)", a))
	}
	return uint8(a)
}

func checkTicks(L *lua.LState, n int, def vtime.Ticks) vtime.Ticks {
	t := L.OptInt64(n, int64(def))
	if t < 0 {
		L.ArgError(n, "negative number of ticks")
	}
	return vtime.Ticks(t)
}

func (r *Runner) sfrRead(L *lua.LState) int {
	L.Push(lua.LNumber(r.cube.ReadSFR(checkAddress(L, 1))))
	return 1
}

func (r *Runner) sfrWrite(L *lua.LState) int {
	a := checkAddress(L, 1)
	r.cube.WriteSFR(a, uint8(L.CheckInt(2)))
	return 0
}

func (r *Runner) wait(L *lua.LState) int {
	r.cube.RunFor(checkTicks(L, 1, 0))
	return 0
}

// poll the condition function until it returns true or the maximum number of
// ticks has passed. time is advanced to the next deadline between polls.
func (r *Runner) poll(d vtime.Ticks, cond func() bool) bool {
	limit := r.cube.Clock.Now() + d
	for {
		if cond() {
			return true
		}
		if r.cube.Clock.Now() >= limit {
			return false
		}
		if r.cube.Deadline.Next() <= limit {
			r.cube.Step()
		} else {
			r.cube.RunUntil(limit)
		}
	}
}

func (r *Runner) waitReady(L *lua.LState) int {
	var con1 uint8
	ok := r.poll(checkTicks(L, 1, defaultWait), func() bool {
		con1 = r.cube.ReadSFR(cpu.W2CON1)
		return con1&i2c.W2CON1_READY == i2c.W2CON1_READY
	})
	if ok {
		L.Push(lua.LNumber(con1))
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

func (r *Runner) waitIRQ(L *lua.LState) int {
	ok := r.poll(checkTicks(L, 1, defaultWait), r.cube.ServiceInterrupt)
	L.Push(lua.LBool(ok))
	return 1
}

func (r *Runner) now(L *lua.LState) int {
	L.Push(lua.LNumber(r.cube.Clock.Now()))
	return 1
}

func hz(L *lua.LState) int {
	f := L.CheckInt64(1)
	if f <= 0 || f > vtime.ClockRate {
		L.ArgError(1, "frequency out of range")
	}
	L.Push(lua.LNumber(vtime.Hz(uint64(f))))
	return 1
}

func (r *Runner) log(L *lua.LState) int {
	logger.Log(r.cube.Env, "firmware", L.CheckString(1))
	return 0
}

func (r *Runner) exceptions(L *lua.LState) int {
	L.Push(lua.LNumber(r.cube.CPU.Exceptions()))
	return 1
}

func checkInt16(L *lua.LState, n int) int16 {
	v := L.CheckInt(n)
	if v < -32768 || v > 32767 {
		L.ArgError(n, "value out of range")
	}
	return int16(v)
}

func (r *Runner) accel(L *lua.LState) int {
	r.cube.Accel.SetAxes(checkInt16(L, 1), checkInt16(L, 2), checkInt16(L, 3))
	return 0
}

func (r *Runner) jigReply(L *lua.LState) int {
	if r.cube.TestJig == nil {
		L.RaiseError("test jig is not attached")
	}
	t := L.CheckTable(1)
	data := make([]uint8, 0, t.Len())
	for i := 1; i <= t.Len(); i++ {
		v, ok := t.RawGetInt(i).(lua.LNumber)
		if !ok {
			L.ArgError(1, "table must contain only numbers")
		}
		data = append(data, uint8(v))
	}
	r.cube.TestJig.SetResponse(data)
	return 0
}

func (r *Runner) jigPacket(L *lua.LState) int {
	if r.cube.TestJig == nil {
		L.RaiseError("test jig is not attached")
	}
	r.packets = append(r.packets, r.cube.TestJig.Packets()...)
	if len(r.packets) == 0 {
		L.Push(lua.LNil)
		return 1
	}
	p := r.packets[0]
	r.packets = r.packets[1:]

	t := L.NewTable()
	for _, b := range p {
		t.Append(lua.LNumber(b))
	}
	L.Push(t)
	return 1
}

func bitOp(op func(a, b uint32) uint32, identity uint32) lua.LGFunction {
	return func(L *lua.LState) int {
		v := identity
		for i := 1; i <= L.GetTop(); i++ {
			v = op(v, uint32(L.CheckInt64(i)))
		}
		L.Push(lua.LNumber(v))
		return 1
	}
}

func bnot(L *lua.LState) int {
	L.Push(lua.LNumber(^uint32(L.CheckInt64(1))))
	return 1
}

func btest(L *lua.LState) int {
	v := uint32(0xffffffff)
	for i := 1; i <= L.GetTop(); i++ {
		v &= uint32(L.CheckInt64(i))
	}
	L.Push(lua.LBool(v != 0))
	return 1
}

func shift(op func(a uint32, n uint) uint32) lua.LGFunction {
	return func(L *lua.LState) int {
		n := L.CheckInt(2)
		if n < 0 || n > 31 {
			L.ArgError(2, "shift out of range")
		}
		L.Push(lua.LNumber(op(uint32(L.CheckInt64(1)), uint(n))))
		return 1
	}
}
