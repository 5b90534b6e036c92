package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/neodymium/arch"
	"github.com/ezrec/neodymium/display"
	"github.com/ezrec/neodymium/internal"
)

const IDENTITY = "Neo8 v0.1.0"

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":    fmt.Sprintf("%v", MEMORY_SIZE),
	"STACK_ADDRESS":  fmt.Sprintf("0x%04x", STACK_ADDRESS),
	"SCREEN_ADDRESS": fmt.Sprintf("0x%04x", SCREEN_ADDRESS),
}

// Cpu is the simulation context of the Neo8 machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory   Memory    // Address space and program counter.
	Stack    Stack     // Stack window over Memory.
	Register Registers // Register bank.
	Flags    Flags     // Condition flags.

	Display display.Display // Framebuffer surface, if any.

	Ticks int // CPU ticks counter.
}

var _ arch.Architecture = (*Cpu)(nil)
var _ arch.Counter = (*Cpu)(nil)

// NewCpu creates a new CPU, with the stack mapped at STACK_ADDRESS.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Stack = Stack{
		Memory: &cpu.Memory,
		Base:   STACK_ADDRESS,
	}

	return
}

// Identify returns the name and version of the architecture.
func (cpu *Cpu) Identify() string {
	return IDENTITY
}

// Pc returns the current program counter.
func (cpu *Cpu) Pc() uint16 {
	return cpu.Memory.Pc
}

// Defines for the cpu, including the framebuffer geometry.
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_cpu_defines), display.Defines())
}

// Framebuffer returns a view of the framebuffer in memory.
func (cpu *Cpu) Framebuffer() []byte {
	return cpu.Memory.Window(SCREEN_ADDRESS, display.SIZE)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("%5s: %04x\n", "pc", cpu.Memory.Pc)
	text += fmt.Sprintf("%5s: %02x\n", "sp", cpu.Stack.Sp)
	text += fmt.Sprintf("%5s: %v\n", "flags", cpu.Flags)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("%5s: %02x\n", fmt.Sprintf("r%d", n), val)
	}

	return
}

// Reset the CPU state.
// - Clears the registers, flags and stack cursor.
// - Sets the program counter to zero.
// - Zeros the tick counter.
// - Refreshes the attached display.
//
// Memory is left untouched.
func (cpu *Cpu) Reset() (err error) {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Flags.Reset()
	cpu.Stack.Reset()
	cpu.Memory.Pc = 0
	cpu.Ticks = 0

	err = cpu.refresh()

	return
}

// Load a program image at address zero, and reset the CPU.
func (cpu *Cpu) Load(image []byte) (err error) {
	err = cpu.Memory.Load(image)
	if err != nil {
		return
	}

	err = cpu.Reset()

	return
}

// refresh hands the framebuffer to the display.
// Only a closed display is an error.
func (cpu *Cpu) refresh() (err error) {
	if cpu.Display == nil {
		return
	}

	err = cpu.Display.Refresh(cpu.Framebuffer())
	if errors.Is(err, display.ErrClosed) {
		return
	}
	if err != nil && cpu.Verbose {
		log.Printf("cpu: display: %v", err)
	}

	return nil
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (result arch.Result, err error) {
	if cpu.Verbose {
		log.Printf("%04x: %v", cpu.Memory.Pc, cpu.Memory.Decode(cpu.Memory.Pc))
	}

	op := Opcode(cpu.Memory.FetchNext())
	result, err = cpu.Execute(op)
	cpu.Ticks++

	return
}

// operands are the decoded operands of an instruction.
type operands struct {
	regs  []Register // Register-direct operands, in order.
	value byte       // Value of the last register or immediate operand.
	addr  uint16     // Address of an address or register pair operand.
}

// fetchOperands fetches the operands of a form, left to right.
func (cpu *Cpu) fetchOperands(form Form) (ops operands, err error) {
	mem := &cpu.Memory

	for _, operand := range form.Operands {
		switch operand {
		case OPERAND_REG:
			var reg Register
			reg, err = cpu.Register.Resolve(mem.FetchNext())
			if err != nil {
				return
			}
			ops.regs = append(ops.regs, reg)
			ops.value = reg.Get()
		case OPERAND_IMM:
			ops.value = mem.FetchNext()
		case OPERAND_ADDR:
			ops.addr = mem.Fetch16()
		case OPERAND_PAIR:
			var hi, lo Register
			hi, err = cpu.Register.Resolve(mem.FetchNext())
			if err != nil {
				return
			}
			lo, err = cpu.Register.Resolve(mem.FetchNext())
			if err != nil {
				return
			}
			ops.addr = uint16(hi.Get())<<8 | uint16(lo.Get())
		}
	}

	return
}

func (cpu *Cpu) jumpIf(cond bool, addr uint16) {
	if cond {
		cpu.Memory.Pc = addr
	}
}

// Execute executes a single instruction, whose opcode has been fetched.
func (cpu *Cpu) Execute(op Opcode) (result arch.Result, err error) {
	result = arch.CONTINUE

	form, ok := op.Form()
	if !ok {
		err = ErrOpcode(op)
		return
	}

	ops, err := cpu.fetchOperands(form)
	if err != nil {
		return
	}

	mem := &cpu.Memory
	flags := &cpu.Flags

	var dst Register
	if len(ops.regs) > 0 {
		dst = ops.regs[0]
	}

	switch op {
	case OP_NOP:
	case OP_MOV_REG, OP_MOV_IMM:
		dst.Set(ops.value)
	case OP_MOV_ADDR, OP_MOV_PAIR:
		dst.Set(mem.Read8(ops.addr))
	case OP_NOT:
		dst.Set(^dst.Get())
	case OP_AND_REG, OP_AND_IMM:
		dst.Set(dst.Get() & ops.value)
	case OP_JMP_ADDR, OP_JMP_PAIR:
		mem.Pc = ops.addr
	case OP_CMP_IMM, OP_CMP_REG:
		flags.UpdateFrom(int64(dst.Get()) + int64(ops.value))
	case OP_JZ_ADDR, OP_JZ_PAIR:
		cpu.jumpIf(flags.Zero, ops.addr)
	case OP_JNZ_ADDR, OP_JNZ_PAIR:
		cpu.jumpIf(!flags.Zero, ops.addr)
	case OP_JU_ADDR, OP_JU_PAIR:
		cpu.jumpIf(flags.Underflow, ops.addr)
	case OP_JNU_ADDR, OP_JNU_PAIR:
		cpu.jumpIf(!flags.Underflow, ops.addr)
	case OP_JO_ADDR, OP_JO_PAIR:
		cpu.jumpIf(flags.Overflow, ops.addr)
	case OP_JNO_ADDR, OP_JNO_PAIR:
		cpu.jumpIf(!flags.Overflow, ops.addr)
	case OP_PUSH_REG, OP_PUSH_IMM:
		cpu.Stack.Push(ops.value)
	case OP_POP:
		dst.Set(cpu.Stack.Pop())
	case OP_ADD_IMM, OP_ADD_REG, OP_SUB_IMM, OP_SUB_REG:
		// SUB adds, the same as ADD.
		sum := int64(dst.Get()) + int64(ops.value)
		flags.UpdateFrom(sum)
		dst.Set(byte(sum))
	case OP_INC:
		val := dst.Get() + 1
		if val == 0 {
			flags.UpdateFrom(0)
		}
		dst.Set(val)
	case OP_DEC:
		val := dst.Get() - 1
		if val == 0xff {
			flags.UpdateFrom(-1)
		}
		dst.Set(val)
	case OP_MUL_IMM, OP_MUL_REG:
		product := int64(dst.Get()) * int64(ops.value)
		flags.UpdateFrom(product)
		dst.Set(byte(product))
	case OP_DIV_IMM, OP_DIV_REG:
		quotient := divide(dst.Get(), ops.value)
		flags.UpdateFrom(quotient)
		dst.Set(byte(quotient))
	case OP_MOD_REG, OP_MOD_IMM:
		if ops.value == 0 {
			err = ErrDivideByZero
			return
		}
		remainder := uint64(dst.Get()) % uint64(ops.value)
		flags.UpdateFrom(int64(remainder))
		dst.Set(byte(remainder))
	case OP_PWR_IMM, OP_PWR_REG:
		var val byte
		val, err = cpu.power(dst.Get(), ops.value)
		if err != nil {
			return
		}
		dst.Set(val)
	case OP_SQRT:
		val := fastSqrt(dst.Get())
		*flags = Flags{Zero: val == 0}
		dst.Set(val)
	case OP_FSQRT:
		root := exactSqrt(dst.Get())
		*flags = Flags{Zero: root == 0}
		dst.Set(truncate(root))
	case OP_CALL_ADDR, OP_CALL_PAIR:
		cpu.Stack.Push16(mem.Pc)
		mem.Pc = ops.addr
	case OP_RET:
		mem.Pc = cpu.Stack.Pop16()
	case OP_STORE_PAIR_REG, OP_STORE_ADDR_REG, OP_STORE_PAIR_IMM, OP_STORE_ADDR_IMM:
		mem.Write8(ops.addr, ops.value)
	case OP_FLUSH:
		err = cpu.refresh()
	case OP_HALT_REG, OP_HALT_IMM:
		result = arch.Halt(ops.value)
	case OP_HALT:
		result = arch.Halt(0)
	default:
		err = ErrOpcode(op)
	}

	return
}

// power computes base**exp, setting only the overflow flag.
func (cpu *Cpu) power(base, exp byte) (val byte, err error) {
	if base == 0 || exp == 0 {
		err = ErrPowerZero
		return
	}

	cpu.Flags = Flags{Overflow: powerOverflows(base, exp)}
	val = truncate(pow(base, exp))

	return
}
