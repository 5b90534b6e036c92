package cpu

import (
	"strings"
)

// Opcode is the first byte of an instruction.
type Opcode byte

const (
	OP_NOP = Opcode(0x00)

	OP_MOV_REG  = Opcode(0x01) // MOV $x, $y
	OP_MOV_IMM  = Opcode(0x02) // MOV $x, #n
	OP_MOV_ADDR = Opcode(0x03) // MOV $x, [#nn]
	OP_MOV_PAIR = Opcode(0x04) // MOV $x, [$y,$z]

	OP_NOT     = Opcode(0x10) // NOT $x
	OP_AND_REG = Opcode(0x11) // AND $x, $y
	OP_AND_IMM = Opcode(0x12) // AND $x, #n

	OP_JMP_ADDR = Opcode(0x20)
	OP_JMP_PAIR = Opcode(0x21)
	OP_CMP_IMM  = Opcode(0x22)
	OP_CMP_REG  = Opcode(0x23)
	OP_JZ_ADDR  = Opcode(0x24)
	OP_JZ_PAIR  = Opcode(0x25)
	OP_JNZ_ADDR = Opcode(0x26)
	OP_JNZ_PAIR = Opcode(0x27)
	OP_JU_ADDR  = Opcode(0x28)
	OP_JU_PAIR  = Opcode(0x29)
	OP_JNU_ADDR = Opcode(0x2a)
	OP_JNU_PAIR = Opcode(0x2b)
	OP_JO_ADDR  = Opcode(0x2c)
	OP_JO_PAIR  = Opcode(0x2d)
	OP_JNO_ADDR = Opcode(0x2e)
	OP_JNO_PAIR = Opcode(0x2f)

	OP_PUSH_REG = Opcode(0x30)
	OP_PUSH_IMM = Opcode(0x31)
	OP_POP      = Opcode(0x32)

	OP_ADD_IMM = Opcode(0x40)
	OP_ADD_REG = Opcode(0x41)
	OP_INC     = Opcode(0x42)
	OP_SUB_IMM = Opcode(0x43)
	OP_SUB_REG = Opcode(0x44)
	OP_DEC     = Opcode(0x45)
	OP_MUL_IMM = Opcode(0x46)
	OP_MUL_REG = Opcode(0x47)
	OP_DIV_IMM = Opcode(0x48)
	OP_DIV_REG = Opcode(0x49)
	OP_PWR_IMM = Opcode(0x4a)
	OP_PWR_REG = Opcode(0x4b)
	OP_SQRT    = Opcode(0x4c)
	OP_FSQRT   = Opcode(0x4d)
	OP_MOD_REG = Opcode(0x4e)
	OP_MOD_IMM = Opcode(0x4f)

	OP_CALL_ADDR = Opcode(0x50)
	OP_CALL_PAIR = Opcode(0x51)
	OP_RET       = Opcode(0x52)

	OP_STORE_PAIR_REG = Opcode(0x60) // STORE [$x,$y], $z
	OP_STORE_ADDR_REG = Opcode(0x61) // STORE [#nn], $x
	OP_STORE_PAIR_IMM = Opcode(0x62) // STORE [$x,$y], #n
	OP_STORE_ADDR_IMM = Opcode(0x63) // STORE [#nn], #n

	OP_FLUSH = Opcode(0x70)

	OP_HALT_REG = Opcode(0xfd)
	OP_HALT_IMM = Opcode(0xfe)
	OP_HALT     = Opcode(0xff)
)

// Operand is the addressing form of an instruction operand.
type Operand int

const (
	OPERAND_REG  = Operand(0) // $x
	OPERAND_IMM  = Operand(1) // #n
	OPERAND_ADDR = Operand(2) // [#nn]
	OPERAND_PAIR = Operand(3) // [$x,$y]
)

// Size returns the number of bytes the operand occupies.
func (op Operand) Size() int {
	switch op {
	case OPERAND_ADDR, OPERAND_PAIR:
		return 2
	default:
		return 1
	}
}

// Form is the mnemonic and operand layout of an opcode.
type Form struct {
	Mnemonic string
	Operands []Operand
}

var (
	_reg      = []Operand{OPERAND_REG}
	_imm      = []Operand{OPERAND_IMM}
	_addr     = []Operand{OPERAND_ADDR}
	_pair     = []Operand{OPERAND_PAIR}
	_reg_reg  = []Operand{OPERAND_REG, OPERAND_REG}
	_reg_imm  = []Operand{OPERAND_REG, OPERAND_IMM}
	_reg_addr = []Operand{OPERAND_REG, OPERAND_ADDR}
	_reg_pair = []Operand{OPERAND_REG, OPERAND_PAIR}
	_addr_reg = []Operand{OPERAND_ADDR, OPERAND_REG}
	_addr_imm = []Operand{OPERAND_ADDR, OPERAND_IMM}
	_pair_reg = []Operand{OPERAND_PAIR, OPERAND_REG}
	_pair_imm = []Operand{OPERAND_PAIR, OPERAND_IMM}
)

var _forms = map[Opcode]Form{
	OP_NOP: {"NOP", nil},

	OP_MOV_REG:  {"MOV", _reg_reg},
	OP_MOV_IMM:  {"MOV", _reg_imm},
	OP_MOV_ADDR: {"MOV", _reg_addr},
	OP_MOV_PAIR: {"MOV", _reg_pair},

	OP_NOT:     {"NOT", _reg},
	OP_AND_REG: {"AND", _reg_reg},
	OP_AND_IMM: {"AND", _reg_imm},

	OP_JMP_ADDR: {"JMP", _addr},
	OP_JMP_PAIR: {"JMP", _pair},
	OP_CMP_IMM:  {"CMP", _reg_imm},
	OP_CMP_REG:  {"CMP", _reg_reg},
	OP_JZ_ADDR:  {"JZ", _addr},
	OP_JZ_PAIR:  {"JZ", _pair},
	OP_JNZ_ADDR: {"JNZ", _addr},
	OP_JNZ_PAIR: {"JNZ", _pair},
	OP_JU_ADDR:  {"JU", _addr},
	OP_JU_PAIR:  {"JU", _pair},
	OP_JNU_ADDR: {"JNU", _addr},
	OP_JNU_PAIR: {"JNU", _pair},
	OP_JO_ADDR:  {"JO", _addr},
	OP_JO_PAIR:  {"JO", _pair},
	OP_JNO_ADDR: {"JNO", _addr},
	OP_JNO_PAIR: {"JNO", _pair},

	OP_PUSH_REG: {"PUSH", _reg},
	OP_PUSH_IMM: {"PUSH", _imm},
	OP_POP:      {"POP", _reg},

	OP_ADD_IMM: {"ADD", _reg_imm},
	OP_ADD_REG: {"ADD", _reg_reg},
	OP_INC:     {"INC", _reg},
	OP_SUB_IMM: {"SUB", _reg_imm},
	OP_SUB_REG: {"SUB", _reg_reg},
	OP_DEC:     {"DEC", _reg},
	OP_MUL_IMM: {"MUL", _reg_imm},
	OP_MUL_REG: {"MUL", _reg_reg},
	OP_DIV_IMM: {"DIV", _reg_imm},
	OP_DIV_REG: {"DIV", _reg_reg},
	OP_PWR_IMM: {"PWR", _reg_imm},
	OP_PWR_REG: {"PWR", _reg_reg},
	OP_SQRT:    {"SQRT", _reg},
	OP_FSQRT:   {"FSQRT", _reg},
	OP_MOD_REG: {"MOD", _reg_reg},
	OP_MOD_IMM: {"MOD", _reg_imm},

	OP_CALL_ADDR: {"CALL", _addr},
	OP_CALL_PAIR: {"CALL", _pair},
	OP_RET:       {"RET", nil},

	OP_STORE_PAIR_REG: {"STORE", _pair_reg},
	OP_STORE_ADDR_REG: {"STORE", _addr_reg},
	OP_STORE_PAIR_IMM: {"STORE", _pair_imm},
	OP_STORE_ADDR_IMM: {"STORE", _addr_imm},

	OP_FLUSH: {"FLUSH", nil},

	OP_HALT_REG: {"HALT", _reg},
	OP_HALT_IMM: {"HALT", _imm},
	OP_HALT:     {"HALT", nil},
}

// _mnemonics indexes the opcodes by mnemonic, for the assembler.
var _mnemonics = map[string][]Opcode{}

func init() {
	for op, form := range _forms {
		_mnemonics[form.Mnemonic] = append(_mnemonics[form.Mnemonic], op)
	}
}

// Form returns the layout of the opcode, if it is a valid instruction.
func (op Opcode) Form() (form Form, ok bool) {
	form, ok = _forms[op]
	return
}

// Length returns the encoded length of the instruction, or 1 for an invalid opcode.
func (op Opcode) Length() (size int) {
	size = 1
	form, ok := _forms[op]
	if !ok {
		return
	}
	for _, operand := range form.Operands {
		size += operand.Size()
	}
	return
}

// String returns the mnemonic of the opcode.
func (op Opcode) String() string {
	form, ok := _forms[op]
	if !ok {
		return f("?%02x", byte(op))
	}
	return form.Mnemonic
}

// Lookup finds the opcode for a mnemonic and operand layout.
func Lookup(mnemonic string, operands []Operand) (op Opcode, ok bool) {
	for _, op = range _mnemonics[strings.ToUpper(mnemonic)] {
		form := _forms[op]
		if len(form.Operands) != len(operands) {
			continue
		}
		ok = true
		for n, operand := range form.Operands {
			if operands[n] != operand {
				ok = false
				break
			}
		}
		if ok {
			return
		}
	}

	return OP_NOP, false
}
