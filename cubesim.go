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


package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/bradleyjkemp/memviz"

	"github.com/cubesim/cubesim/debugger"
	"github.com/cubesim/cubesim/environment"
	"github.com/cubesim/cubesim/firmware"
	"github.com/cubesim/cubesim/hardware"
	"github.com/cubesim/cubesim/hardware/vtime"
	"github.com/cubesim/cubesim/logger"
	"github.com/cubesim/cubesim/modalflag"
	"github.com/cubesim/cubesim/monitor"
	"github.com/cubesim/cubesim/prefs"
	"github.com/cubesim/cubesim/statsview"
	"github.com/cubesim/cubesim/version"
	"github.com/cubesim/cubesim/wavwriter"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	exitVal := launch(ctx, os.Args[1:])
	stop()
	os.Exit(exitVal)
}

// launch returns the value to be used with os.Exit()
func launch(ctx context.Context, args []string) int {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("RUN", "DEBUG", "DEV", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0
	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		return 10
	}

	switch md.Mode() {
	case "RUN":
		err = run(ctx, md)
	case "DEBUG":
		err = debug(ctx, md)
	case "DEV":
		err = dev(ctx, md)
	case "VERSION":
		err = showVersion(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		return 20
	}

	return 0
}

// the preferences string is pushed to the command line stack before the
// cube is created. the returned function pops the stack and should be
// deferred
func newCube(prefsString string) (*hardware.Cube, func(), error) {
	prefs.PushCommandLineStack(prefsString)
	done := func() {
		if unused := prefs.PopCommandLineStack(); unused != "" {
			logger.Logf(logger.Allow, "cubesim", "unused preferences: %s", unused)
		}
	}

	env, err := environment.NewEnvironment(environment.MainEmulation, nil)
	if err != nil {
		done()
		return nil, nil, err
	}

	return hardware.NewCube(env), done, nil
}

// the script named on the command line or the built-in demo
func script(md *modalflag.Modes) (string, string, error) {
	switch len(md.RemainingArgs()) {
	case 0:
		return firmware.DemoName, firmware.Demo, nil
	case 1:
		b, err := os.ReadFile(md.GetArg(0))
		if err != nil {
			return "", "", err
		}
		return md.GetArg(0), string(b), nil
	}
	return "", "", fmt.Errorf("too many arguments for %s mode", md)
}

func run(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()
	md.AdditionalHelp("the built-in demo is run if no firmware script is given")

	log := md.AddBool("log", false, "echo debugging log to stdout")
	wav := md.AddString("wav", "", "record the SDA and SCL lines to wav file")
	viz := md.AddString("memviz", "", "write a graph of the cube to file, in dot format, when the run ends")
	prefsString := md.AddString("prefs", "", "preferences for this run only (eg. \"cube.accel.x::100; cube.testjig::false\")")
	until := md.AddUint64("until", 0, "continue running the cube until this number of ticks")

	var stats *bool
	if statsview.Available() {
		stats = md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	}

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stdout)
	} else {
		logger.SetEcho(nil)
	}

	if stats != nil && *stats {
		statsview.Launch(os.Stdout)
	}

	name, src, err := script(md)
	if err != nil {
		return err
	}

	cube, done, err := newCube(*prefsString)
	if err != nil {
		return err
	}
	defer done()
	defer cube.Shutdown()

	var ww *wavwriter.WavWriter
	if *wav != "" {
		ww = wavwriter.New(cube.Env, *wav)
		cube.Bus.AddObserver(ww)
	}

	err = firmware.NewRunner(cube).Run(ctx, name, src)
	if err != nil {
		return err
	}

	if t := vtime.Ticks(*until); t > cube.Clock.Now() {
		cube.RunUntil(t)
	}

	fmt.Printf("%s finished at %d (%.3fms)\n", name, cube.Clock.Now(),
		float64(cube.Clock.Now())*1000/float64(vtime.ClockRate))
	if n := cube.CPU.Exceptions(); n > 0 {
		fmt.Printf("%d exceptions\n", n)
		cube.CPU.Faults.WriteLog(os.Stdout)
	}

	if ww != nil {
		if err := ww.Close(); err != nil {
			return err
		}
	}

	if *viz != "" {
		f, err := os.Create(*viz)
		if err != nil {
			return err
		}
		memviz.Map(f, cube)
		if err := f.Close(); err != nil {
			return err
		}
	}

	return nil
}

func debug(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()
	md.AdditionalHelp("the built-in demo is debugged if no firmware script is given")

	prefsString := md.AddString("prefs", "", "preferences for this run only")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	name, src, err := script(md)
	if err != nil {
		return err
	}

	cube, done, err := newCube(*prefsString)
	if err != nil {
		return err
	}
	defer done()
	defer cube.Shutdown()

	dbg := debugger.NewDebugger(cube, os.Stdin, os.Stdout)
	defer dbg.CleanUp()

	return dbg.Run(ctx, name, src)
}

func dev(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()

	prefsString := md.AddString("prefs", "", "preferences for this session")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("a single firmware script is required for %s mode", md)
	}

	cube, done, err := newCube(*prefsString)
	if err != nil {
		return err
	}
	defer done()
	defer cube.Shutdown()

	return monitor.NewMonitor(cube, md.GetArg(0)).Run(ctx)
}

func showVersion(md *modalflag.Modes) error {
	md.NewMode()

	revision := md.AddBool("revision", false, "display revision information from version control")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	ver, rev, _ := version.Version()
	fmt.Printf("%s %s\n", version.ApplicationName, ver)
	if *revision {
		fmt.Println(rev)
	}

	return nil
}
