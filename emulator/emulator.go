// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator drives a machine architecture: it loads a program,
// ticks the machine until it halts, and locates runtime errors.
package emulator

import (
	"context"
	"errors"
	"iter"
	"log"
	"maps"
	"time"

	"github.com/ezrec/neodymium/arch"
	"github.com/ezrec/neodymium/cpu"
)

// Definer is a machine that provides assembler defines.
type Definer interface {
	Defines() iter.Seq2[string, string]
}

// Emulator state. A machine, and the listing of the program it runs.
type Emulator[A arch.Architecture] struct {
	Verbose  bool          // If set, enables verbose logging.
	Machine  A             // Reference to the machine simulation.
	Program  *cpu.Program  // Listing of the running program, if any.
	Throttle time.Duration // Delay between ticks.

	Ticks int // Ticks since the last load.
}

// New creates a new emulator for a machine.
func New[A arch.Architecture](machine A) (emu *Emulator[A]) {
	emu = &Emulator[A]{
		Machine: machine,
		Program: &cpu.Program{},
	}

	return
}

// Identify returns the machine identity.
func (emu *Emulator[A]) Identify() string {
	return emu.Machine.Identify()
}

// Defines returns an iterator over all of the machine defines.
func (emu *Emulator[A]) Defines() iter.Seq2[string, string] {
	definer, ok := any(emu.Machine).(Definer)
	if !ok {
		return maps.All(map[string]string{})
	}

	return definer.Defines()
}

// Load a program image into the machine.
func (emu *Emulator[A]) Load(image []byte) (err error) {
	if emu.Verbose {
		log.Printf("emulator: load %v bytes into %v", len(image), emu.Identify())
	}

	emu.Ticks = 0
	err = emu.Machine.Load(image)

	return
}

// LoadProgram loads an assembled program, and keeps its listing.
func (emu *Emulator[A]) LoadProgram(prog *cpu.Program) (err error) {
	emu.Program = prog
	err = emu.Load(prog.Binary())

	return
}

// Pc returns the address of the next instruction, if the machine reports it.
func (emu *Emulator[A]) Pc() (pc uint16, ok bool) {
	counter, ok := any(emu.Machine).(arch.Counter)
	if !ok {
		return
	}

	pc = counter.Pc()
	return
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator[A]) LineNo() int {
	pc, ok := emu.Pc()
	if !ok || emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(pc)
	if dbg.Statement == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator[A]) Tick() (result arch.Result, err error) {
	pc, _ := emu.Pc()
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Address: pc, LineNo: lineno, Err: err}
		}
	}()

	result, err = emu.Machine.Tick()
	emu.Ticks++

	return
}

// Run ticks the machine until it halts, fails, or the context is done.
func (emu *Emulator[A]) Run(ctx context.Context) (code byte, err error) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		if ctx.Err() != nil {
			err = errors.Join(ErrInterrupted, ctx.Err())
			return
		}

		var result arch.Result
		result, err = emu.Tick()
		if err != nil {
			return
		}

		if result.Halted() {
			code = result.Code()
			if emu.Verbose {
				log.Printf("emulator: halt %v after %v ticks", code, emu.Ticks)
			}
			return
		}

		if emu.Throttle > 0 {
			if timer == nil {
				timer = time.NewTimer(emu.Throttle)
			} else {
				timer.Reset(emu.Throttle)
			}
			select {
			case <-ctx.Done():
			case <-timer.C:
			}
		}
	}
}
