package emulator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/neodymium/arch"
	"github.com/ezrec/neodymium/cpu"
	"github.com/ezrec/neodymium/m6502"
)

func assemble(t *testing.T, program ...string) *cpu.Program {
	asm := &cpu.Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}
	return prog
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := New(cpu.NewCpu())

	assert.False(emu.Verbose)
	assert.Equal("Neo8 v0.1.0", emu.Identify())
	assert.Equal(0, emu.LineNo())

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("0xa000", defines["SCREEN_ADDRESS"])
	assert.Equal("16", defines["SCREEN_WIDTH"])

	pc, ok := emu.Pc()
	assert.True(ok)
	assert.Equal(uint16(0), pc)
}

func TestEmulatorRun(t *testing.T) {
	assert := assert.New(t)

	emu := New(cpu.NewCpu())
	assert.NoError(emu.Load([]byte{0x02, 0x00, 0x05, 0xff}))

	code, err := emu.Run(context.Background())
	assert.NoError(err)
	assert.Equal(byte(0), code)
	assert.Equal(2, emu.Ticks)
	assert.Equal(byte(5), emu.Machine.Register[0])
}

func TestEmulatorProgram(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"MOV $0, #3",
		"MOV $1, #0",
		"loop: ADD $1, #2",
		"DEC $0",
		"CMP $0, #0",
		"JNZ [loop]",
		"HALT $1",
	)

	emu := New(cpu.NewCpu())
	emu.Verbose = true
	assert.NoError(emu.LoadProgram(prog))

	for _, st := range prog.Statements[:3] {
		assert.Equal(st.LineNo, emu.LineNo())
		_, err := emu.Tick()
		assert.NoError(err)
	}

	code, err := emu.Run(context.Background())
	assert.NoError(err)
	assert.Equal(byte(6), code)
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"NOP",
		".byte 0x02 0x08 0x01 ; MOV $8, #1",
	)

	emu := New(cpu.NewCpu())
	assert.NoError(emu.LoadProgram(prog))

	_, err := emu.Run(context.Background())

	var re *ErrRuntime
	assert.True(errors.As(err, &re))
	if re != nil {
		assert.Equal(2, re.LineNo)
		assert.Equal(uint16(1), re.Address)
	}
	assert.ErrorIs(err, cpu.ErrIllegalRegister(0))
	assert.Equal(arch.COND_SEGFAULT, arch.ConditionOf(err))
	assert.Equal(139, arch.ExitCode(err))
}

func TestEmulatorInterrupt(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, "loop: JMP [loop]")

	emu := New(cpu.NewCpu())
	assert.NoError(emu.LoadProgram(prog))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := emu.Run(ctx)
	assert.ErrorIs(err, context.Canceled)
	assert.ErrorIs(err, ErrInterrupted)
	assert.Equal(arch.COND_KILLED, arch.ConditionOf(err))
	assert.Equal(0, emu.Ticks)
}

func TestEmulatorThrottle(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, "loop: JMP [loop]")

	emu := New(cpu.NewCpu())
	emu.Throttle = 5 * time.Millisecond
	assert.NoError(emu.LoadProgram(prog))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := emu.Run(ctx)
	assert.ErrorIs(err, context.DeadlineExceeded)
	assert.Greater(emu.Ticks, 0)
	assert.Less(emu.Ticks, 20)
}

func TestEmulator6502(t *testing.T) {
	assert := assert.New(t)

	emu := New(m6502.NewCpu())
	assert.Equal("6502 v1.0.0-alpha", emu.Identify())
	assert.NoError(emu.Load([]byte{0xa9, 0x07, 0x00}))

	code, err := emu.Run(context.Background())
	assert.NoError(err)
	assert.Equal(byte(7), code)
	assert.Equal(0, emu.LineNo())

	count := 0
	for range emu.Defines() {
		count++
	}
	assert.Equal(0, count)
}

func TestReadImage(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()

	good := filepath.Join(dir, "good.bin")
	assert.NoError(os.WriteFile(good, []byte{0x02, 0x00, 0x05, 0xff}, 0o644))

	big := filepath.Join(dir, "big.bin")
	assert.NoError(os.WriteFile(big, make([]byte, cpu.MEMORY_SIZE+1), 0o644))

	full := filepath.Join(dir, "full.bin")
	assert.NoError(os.WriteFile(full, make([]byte, cpu.MEMORY_SIZE), 0o644))

	image, err := ReadImage(good)
	assert.NoError(err)
	assert.Equal([]byte{0x02, 0x00, 0x05, 0xff}, image)

	image, err = ReadImage(full)
	assert.NoError(err)
	assert.Equal(cpu.MEMORY_SIZE, len(image))

	table := [](struct {
		path string
		cond arch.Condition
		exit int
	}){
		{"", arch.COND_NO_FILE_ARG, 2},
		{filepath.Join(dir, "missing.bin"), arch.COND_FILE_NOT_FOUND, 3},
		{big, arch.COND_FILE_TOO_BIG, 4},
		{dir, arch.COND_FILE_OPEN, 5},
	}

	for _, entry := range table {
		image, err := ReadImage(entry.path)
		assert.Nil(image, entry.path)
		assert.Error(err, entry.path)
		assert.Equal(entry.cond, arch.ConditionOf(err), entry.path)
		assert.Equal(entry.exit, arch.ExitCode(err), entry.path)
	}
}
