package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/neodymium/arch"
	"github.com/ezrec/neodymium/display"
)

func FuzzCpu(f *testing.F) {
	for code := range 0x100 {
		f.Add(byte(code), byte(0), byte(1), byte(2), byte(3), byte(0x80))
		f.Add(byte(code), byte(7), byte(0xff), byte(0), byte(8), byte(0))
	}

	f.Fuzz(func(t *testing.T, opcode byte, a, b, c, d byte, fill byte) {
		assert := assert.New(t)

		cpu := NewCpu()
		cpu.Display = &display.Headless{}
		err := cpu.Load([]byte{opcode, a, b, c, d})
		assert.NoError(err)
		for n := range cpu.Register {
			cpu.Register[n] = fill + byte(n)
		}

		result, err := cpu.Tick()
		if err != nil {
			var cond arch.Condition
			assert.True(errors.As(err, &cond), "%02x: %v", opcode, err)
			assert.Contains([]arch.Condition{arch.COND_ABORT, arch.COND_SEGFAULT}, cond, "%02x: %v", opcode, err)
			return
		}

		if result.Halted() {
			assert.Contains([]Opcode{OP_HALT, OP_HALT_IMM, OP_HALT_REG}, Opcode(opcode))
			return
		}

		assert.Equal(arch.CONTINUE, result)
		assert.Equal(1, cpu.Ticks)
	})
}
