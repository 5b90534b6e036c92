//go:build unix

package main

// hostSupported reports if the host can run the machine.
func hostSupported() error {
	return nil
}
