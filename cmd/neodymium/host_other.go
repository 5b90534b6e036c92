//go:build !unix

package main

import (
	"github.com/ezrec/neodymium/arch"
)

// hostSupported reports if the host can run the machine.
func hostSupported() error {
	return arch.COND_OS_UNSUPPORTED
}
