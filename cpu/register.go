package cpu

const (
	REGISTERS = 8    // Number of general purpose registers.
	REG_SINK  = 0xff // Always zero register, writes are discarded.
)

// Registers is the general purpose register file.
type Registers [REGISTERS]byte

// Register is a resolved register operand.
type Register struct {
	file  *Registers
	index byte
}

// Resolve returns the register for an operand address.
func (regs *Registers) Resolve(addr byte) (reg Register, err error) {
	if addr != REG_SINK && addr >= REGISTERS {
		err = ErrIllegalRegister(addr)
		return
	}

	reg = Register{file: regs, index: addr}
	return
}

// Sink is true for the always zero register.
func (reg Register) Sink() bool {
	return reg.index == REG_SINK
}

// Index returns the operand address of the register.
func (reg Register) Index() byte {
	return reg.index
}

// Get returns the register value.
func (reg Register) Get() byte {
	if reg.Sink() {
		return 0
	}
	return reg.file[reg.index]
}

// Set updates the register value.
func (reg Register) Set(value byte) {
	if reg.Sink() {
		return
	}
	reg.file[reg.index] = value
}
