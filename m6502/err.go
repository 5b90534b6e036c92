package m6502

import (
	"github.com/ezrec/neodymium/arch"
	"github.com/ezrec/neodymium/translate"
)

var f = translate.From

// ErrOpcode is a byte with no 6502 instruction.
type ErrOpcode byte

func (eo ErrOpcode) Error() string {
	return f("bad 6502 opcode 0x%02x", byte(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

func (eo ErrOpcode) Unwrap() error {
	return arch.COND_ABORT
}

// ErrNotImplemented is a documented instruction the machine does not execute.
type ErrNotImplemented string

func (en ErrNotImplemented) Error() string {
	return f("6502 instruction %v not implemented", string(en))
}

func (en ErrNotImplemented) Is(err error) (ok bool) {
	_, ok = err.(ErrNotImplemented)
	return
}

func (en ErrNotImplemented) Unwrap() error {
	return arch.COND_ABORT
}
