// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package main implements the Neodymium virtual machine host.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/retroenv/retrogolib/buildinfo"

	"github.com/ezrec/neodymium/arch"
	"github.com/ezrec/neodymium/cpu"
	"github.com/ezrec/neodymium/display"
	"github.com/ezrec/neodymium/emulator"
	"github.com/ezrec/neodymium/m6502"
	"github.com/ezrec/neodymium/translate"
)

var f = translate.From

var (
	version = "0.1.0"
	commit  = ""
	date    = ""
)

var (
	ErrArchitecture = errors.New(f("unknown architecture"))
	ErrAssemble     = errors.New(f("only neo8 programs can be assembled"))
	ErrArguments    = errors.New(f("too many arguments"))
)

type optionFlags struct {
	image    string
	arch     string
	compile  string
	output   string
	throttle time.Duration
	frames   string
	record   string
	lang     string
	trace    bool
	version  bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// fail logs an error, and returns the exit code of its condition.
func fail(err error) int {
	cond := arch.ConditionOf(err)
	if err == error(cond) {
		log.Printf("neodymium: %v", cond)
	} else {
		log.Printf("neodymium: %v: %v", cond, err)
	}
	return cond.ExitCode()
}

// run executes the command line, and returns the process exit code.
func run(args []string, stdout io.Writer) int {
	flags := flag.NewFlagSet("neodymium", flag.ContinueOnError)
	options := optionFlags{}

	flags.BoolVar(&options.version, "v", false, "Print the version, and exit")
	flags.BoolVar(&options.version, "version", false, "Print the version, and exit")
	flags.StringVar(&options.arch, "a", "neo8", "Architecture (neo8, 6502)")
	flags.StringVar(&options.compile, "c", "", "Assembler file to compile, instead of a binary image")
	flags.StringVar(&options.output, "o", "", "Save the compiled image, do not execute")
	flags.DurationVar(&options.throttle, "t", 0, "Delay between instructions")
	flags.StringVar(&options.frames, "f", "", "Directory to write a PNG per display refresh")
	flags.StringVar(&options.record, "r", "", "File to record display refreshes to, as PPM frames")
	flags.StringVar(&options.lang, "lang", "", "Message locale, instead of the host locale")
	flags.BoolVar(&options.trace, "trace", false, "Verbose execution trace")

	err := flags.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return fail(err)
	}

	if len(options.lang) != 0 {
		translate.SetLocales(options.lang)
	}

	if options.version {
		fmt.Fprintf(stdout, "neodymium %s\n", buildinfo.Version(version, commit, date))
		return 0
	}

	err = hostSupported()
	if err != nil {
		return fail(err)
	}

	if flags.NArg() > 1 {
		return fail(ErrArguments)
	}
	options.image = flags.Arg(0)

	var prog *cpu.Program
	if len(options.compile) != 0 {
		if options.arch != "neo8" {
			return fail(ErrAssemble)
		}
		prog, err = assemble(options.compile, options.trace)
		if err != nil {
			return fail(err)
		}
		if len(options.output) != 0 {
			err = os.WriteFile(options.output, prog.Binary(), 0o644)
			if err != nil {
				return fail(err)
			}
			return 0
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var code byte
	switch options.arch {
	case "neo8":
		machine := cpu.NewCpu()
		machine.Verbose = options.trace

		var disp display.Tee
		disp, err = openDisplays(options)
		if err != nil {
			return fail(err)
		}
		defer closeDisplays(disp)
		if len(disp) != 0 {
			machine.Display = disp
		}

		code, err = execute(ctx, machine, prog, options)
	case "6502":
		machine := m6502.NewCpu()
		machine.Verbose = options.trace
		code, err = execute(ctx, machine, prog, options)
	default:
		err = ErrArchitecture
	}
	if err != nil {
		return fail(err)
	}

	return int(code)
}

// execute loads a program or image into a machine, and runs it to a halt.
func execute[A arch.Architecture](ctx context.Context, machine A, prog *cpu.Program, options optionFlags) (code byte, err error) {
	emu := emulator.New(machine)
	emu.Verbose = options.trace
	emu.Throttle = options.throttle

	if emu.Verbose {
		log.Printf("neodymium: %v (%v)", emu.Identify(), translate.Language())
	}

	if prog != nil {
		err = emu.LoadProgram(prog)
	} else {
		var image []byte
		image, err = emulator.ReadImage(options.image)
		if err != nil {
			return
		}
		err = emu.Load(image)
	}
	if err != nil {
		return
	}

	code, err = emu.Run(ctx)

	return
}

// assemble compiles an assembler source file.
func assemble(path string, verbose bool) (prog *cpu.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		cond := arch.COND_FILE_OPEN
		if errors.Is(err, os.ErrNotExist) {
			cond = arch.COND_FILE_NOT_FOUND
		}
		err = &emulator.ErrImage{Path: path, Condition: cond, Err: err}
		return
	}
	defer inf.Close()

	asm := &cpu.Assembler{Verbose: verbose}
	for key, value := range cpu.NewCpu().Defines() {
		asm.Predefine(key, value)
	}

	prog, err = asm.Parse(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
		return
	}

	return
}

// openDisplays creates the displays requested on the command line.
func openDisplays(options optionFlags) (disp display.Tee, err error) {
	if len(options.frames) != 0 {
		err = os.MkdirAll(options.frames, 0o755)
		if err != nil {
			return
		}
		disp = append(disp, &display.Snapshot{FS: display.DirFS(options.frames)})
	}

	if len(options.record) != 0 {
		var ouf *os.File
		ouf, err = os.Create(options.record)
		if err != nil {
			return
		}
		disp = append(disp, &display.Recorder{Output: ouf, Zoom: display.ZOOM})
	}

	return
}

// closeDisplays closes the files of the displays.
func closeDisplays(disp display.Tee) {
	for _, surface := range disp {
		rc, ok := surface.(*display.Recorder)
		if !ok {
			continue
		}
		closer, ok := rc.Output.(io.Closer)
		if ok {
			closer.Close()
		}
	}
}
