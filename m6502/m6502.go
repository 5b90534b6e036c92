package m6502

import (
	"fmt"
	"log"

	"github.com/retroenv/retrogolib/nes/addressing"
	nescpu "github.com/retroenv/retrogolib/nes/cpu"

	"github.com/ezrec/neodymium/arch"
	"github.com/ezrec/neodymium/cpu"
)

const IDENTITY = "6502 v1.0.0-alpha"

// Status register flags.
const (
	FLAG_C = byte(1 << 0) // Carry
	FLAG_Z = byte(1 << 1) // Zero
	FLAG_I = byte(1 << 2) // Interrupt disable
	FLAG_D = byte(1 << 3) // Decimal
	FLAG_B = byte(1 << 4) // Break
	FLAG_U = byte(1 << 5) // Unused, always set
	FLAG_V = byte(1 << 6) // Overflow
	FLAG_N = byte(1 << 7) // Negative
)

// Cpu is the simulation context of the 6502 machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory cpu.Memory // Address space and program counter.

	A      byte // Accumulator
	X      byte // X index
	Y      byte // Y index
	Sp     byte // Stack pointer, in page 1.
	Status byte // Status flags.

	Ticks int // CPU ticks counter.
}

var _ arch.Architecture = (*Cpu)(nil)
var _ arch.Counter = (*Cpu)(nil)

// NewCpu creates a new 6502 CPU.
func NewCpu() (c *Cpu) {
	c = &Cpu{}
	c.Reset()

	return
}

func (c *Cpu) Identify() string {
	return IDENTITY
}

func (c *Cpu) Pc() uint16 {
	return c.Memory.Pc
}

// String returns the current CPU state as a string.
func (c *Cpu) String() string {
	return fmt.Sprintf("pc: %04x a: %02x x: %02x y: %02x sp: %02x p: %02x",
		c.Memory.Pc, c.A, c.X, c.Y, c.Sp, c.Status)
}

// Reset the registers, and set the program counter to zero.
func (c *Cpu) Reset() {
	if c.Verbose {
		log.Printf("6502: reset")
	}

	c.A, c.X, c.Y = 0, 0, 0
	c.Sp = 0xfd
	c.Status = FLAG_U | FLAG_I
	c.Memory.Pc = 0
	c.Ticks = 0
}

// Load a program image at address zero, and reset the CPU.
func (c *Cpu) Load(image []byte) (err error) {
	err = c.Memory.Load(image)
	if err != nil {
		return
	}

	c.Reset()

	return
}

// setNZ updates the zero and negative flags from a loaded value.
func (c *Cpu) setNZ(value byte) {
	c.Status &^= FLAG_Z | FLAG_N
	if value == 0 {
		c.Status |= FLAG_Z
	}
	c.Status |= value & FLAG_N
}

// Tick executes a single CPU instruction cycle.
func (c *Cpu) Tick() (result arch.Result, err error) {
	result = arch.CONTINUE

	pc := c.Memory.Pc
	b := c.Memory.FetchNext()
	c.Ticks++

	opcode := nescpu.Opcodes[b]
	if opcode.Instruction == nil {
		err = ErrOpcode(b)
		return
	}

	ins := opcode.Instruction
	name := ins.Name
	if c.Verbose {
		log.Printf("%04x: %v", pc, name)
	}

	immediate := opcode.Addressing == addressing.ImmediateAddressing

	switch {
	case ins == nescpu.Nop && opcode.Addressing == addressing.ImpliedAddressing:
	case ins == nescpu.Brk:
		result = arch.Halt(c.A)
	case ins == nescpu.Lda && immediate:
		c.A = c.Memory.FetchNext()
		c.setNZ(c.A)
	case ins == nescpu.Ldx && immediate:
		c.X = c.Memory.FetchNext()
		c.setNZ(c.X)
	case ins == nescpu.Ldy && immediate:
		c.Y = c.Memory.FetchNext()
		c.setNZ(c.Y)
	default:
		err = ErrNotImplemented(name)
	}

	return
}
