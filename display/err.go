package display

import (
	"errors"

	"github.com/ezrec/neodymium/arch"
	"github.com/ezrec/neodymium/translate"
)

var f = translate.From

var (
	// ErrClosed is returned once the surface has been closed by its viewer.
	ErrClosed = arch.Fault(arch.COND_KILLED, f("display closed"))

	ErrFrameSize = errors.New(f("frame size"))
)
