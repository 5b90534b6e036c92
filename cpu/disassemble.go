package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Instruction is a single decoded instruction.
type Instruction struct {
	Address uint16 // Address of the opcode byte.
	Opcode  Opcode
	Bytes   []byte // Encoded instruction, opcode first.
}

func registerName(addr byte) string {
	if addr == REG_SINK {
		return "$z"
	}
	return fmt.Sprintf("$%d", addr)
}

// String renders the instruction in assembler syntax.
func (ins Instruction) String() string {
	form, ok := ins.Opcode.Form()
	if !ok {
		return fmt.Sprintf(".byte 0x%02x", byte(ins.Opcode))
	}
	if len(ins.Bytes) < ins.Opcode.Length() {
		return fmt.Sprintf("%v ?", form.Mnemonic)
	}

	args := make([]string, 0, len(form.Operands))
	data := ins.Bytes[1:]
	for _, operand := range form.Operands {
		var arg string
		switch operand {
		case OPERAND_REG:
			arg = registerName(data[0])
		case OPERAND_IMM:
			arg = fmt.Sprintf("#%d", data[0])
		case OPERAND_ADDR:
			arg = fmt.Sprintf("[#0x%02x%02x]", data[0], data[1])
		case OPERAND_PAIR:
			arg = fmt.Sprintf("[%v,%v]", registerName(data[0]), registerName(data[1]))
		}
		data = data[operand.Size():]
		args = append(args, arg)
	}

	if len(args) == 0 {
		return form.Mnemonic
	}

	return form.Mnemonic + " " + strings.Join(args, ", ")
}

// Decode decodes the instruction at the start of code, located at addr.
// A truncated instruction keeps only the bytes available.
func Decode(code []byte, addr uint16) (ins Instruction) {
	ins.Address = addr
	if len(code) == 0 {
		return
	}

	ins.Opcode = Opcode(code[0])
	size := min(ins.Opcode.Length(), len(code))
	ins.Bytes = code[:size]

	return
}

// Decode decodes the instruction at addr, wrapping at the end of memory.
func (mem *Memory) Decode(addr uint16) Instruction {
	size := Opcode(mem.Data[addr]).Length()
	code := make([]byte, size)
	for n := range code {
		code[n] = mem.Data[addr+uint16(n)]
	}
	return Decode(code, addr)
}

// Disassemble iterates over the instructions of a program image.
func Disassemble(image []byte) iter.Seq[Instruction] {
	return func(yield func(Instruction) bool) {
		for addr := 0; addr < len(image); {
			ins := Decode(image[addr:], uint16(addr))
			if !yield(ins) {
				return
			}
			addr += len(ins.Bytes)
		}
	}
}
