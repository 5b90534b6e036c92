// Package cpu implements the Neo8 processor and its assembler.
//
// The processor has a flat 64KB memory with a program counter, eight 8-bit
// general-purpose registers ($0-$7) plus the always-zero sink register $z,
// a 256 byte stack living in memory at STACK_ADDRESS, and three flags
// (zero, underflow, overflow) set by the arithmetic instructions.
//
// Programs halt with a result code in the range 0-255, which becomes the
// exit status of the VM.
//
// The assembler provides a line oriented assembly language for the Neo8
// instruction set, supporting macros, labels, equates, and compile-time
// expression evaluation.
package cpu
