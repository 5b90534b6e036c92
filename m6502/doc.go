// Package m6502 is a partial 6502 machine, sharing the memory model of the
// Neo8 machine.
//
// Instructions are decoded against the NES 6502 opcode table. Only NOP,
// BRK and the immediate loads are executed; every other documented
// instruction fails as not implemented.
package m6502
