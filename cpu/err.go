package cpu

import (
	"errors"

	"github.com/ezrec/neodymium/arch"
	"github.com/ezrec/neodymium/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrPowerZero    = arch.Fault(arch.COND_ABORT, f("pwr with zero operand"))
	ErrDivideByZero = arch.Fault(arch.COND_ABORT, f("divide by zero"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOrgSyntax          = errors.New(f(".org syntax"))
	ErrByteSyntax         = errors.New(f(".byte syntax"))
	ErrOperandInvalid     = errors.New(f("operand invalid"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrValueRange         = errors.New(f("value out of range"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrAddressRange       = errors.New(f("program exceeds memory"))
)

// ErrOpcode is an opcode byte with no instruction.
type ErrOpcode Opcode

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%02x", byte(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

func (eo ErrOpcode) Unwrap() error {
	return arch.COND_ABORT
}

// ErrIllegalRegister is a register operand outside of the register file.
type ErrIllegalRegister byte

func (er ErrIllegalRegister) Error() string {
	return f("illegal register 0x%02x", byte(er))
}

func (er ErrIllegalRegister) Is(err error) (ok bool) {
	_, ok = err.(ErrIllegalRegister)
	return
}

func (er ErrIllegalRegister) Unwrap() error {
	return arch.COND_SEGFAULT
}

// ErrProgramTooLarge is the size of an image that does not fit in memory.
type ErrProgramTooLarge int

func (ep ErrProgramTooLarge) Error() string {
	return f("program of %v bytes exceeds memory", int(ep))
}

func (ep ErrProgramTooLarge) Is(err error) (ok bool) {
	_, ok = err.(ErrProgramTooLarge)
	return
}

func (ep ErrProgramTooLarge) Unwrap() error {
	return arch.COND_FILE_TOO_BIG
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
