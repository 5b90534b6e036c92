// Package arch contains the types shared by every machine definition.
// It acts as a bridge between the emulator driver and the architecture
// specific cores.
package arch

// Architecture is the capability set a machine definition provides to the
// emulator driver.
type Architecture interface {
	// Identify returns the name and version of the machine definition.
	Identify() string
	// Load copies a program image into the machine, resetting its state.
	Load(image []byte) error
	// Tick executes a single instruction.
	Tick() (Result, error)
}

// Counter is implemented by machines that can report the address of the
// next instruction, used to locate runtime errors.
type Counter interface {
	Pc() uint16
}

// Result of a single tick: either CONTINUE, or a halt code.
type Result int

// CONTINUE is returned by every non-halting instruction.
const CONTINUE = Result(-1)

// Halt returns the Result of a halting instruction.
func Halt(code byte) Result {
	return Result(code)
}

// Halted is true when the machine has stopped.
func (res Result) Halted() bool {
	return res >= 0
}

// Code returns the halt code.
func (res Result) Code() byte {
	return byte(res)
}
