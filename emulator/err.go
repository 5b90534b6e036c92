package emulator

import (
	"github.com/ezrec/neodymium/arch"
	"github.com/ezrec/neodymium/translate"
)

var f = translate.From

var (
	ErrInterrupted = arch.Fault(arch.COND_KILLED, f("interrupted"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Address uint16
	LineNo  int
	Err     error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("address 0x%04x %v", err.Address, err.Err)
	}
	return f("line %d address 0x%04x %v", err.LineNo, err.Address, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrImage is a program image that could not be read.
type ErrImage struct {
	Path      string
	Condition arch.Condition
	Err       error
}

func (err *ErrImage) Error() string {
	return f("%v: %v (%v)", err.Path, err.Condition, err.Err)
}

func (err *ErrImage) Unwrap() []error {
	return []error{err.Condition, err.Err}
}
