package m6502

import (
	"testing"

	"github.com/retroenv/retrogolib/nes/addressing"
	nescpu "github.com/retroenv/retrogolib/nes/cpu"
	"github.com/stretchr/testify/assert"

	"github.com/ezrec/neodymium/arch"
)

func run(c *Cpu) (result arch.Result, err error) {
	for range 1000 {
		result, err = c.Tick()
		if err != nil || result.Halted() {
			return
		}
	}
	return
}

func TestIdentify(t *testing.T) {
	assert := assert.New(t)

	c := NewCpu()
	assert.Equal("6502 v1.0.0-alpha", c.Identify())
}

func TestLoadBrk(t *testing.T) {
	assert := assert.New(t)

	c := NewCpu()
	assert.NoError(c.Load([]byte{
		0xea,       // NOP
		0xa9, 0x07, // LDA #7
		0x00, // BRK
	}))

	result, err := run(c)
	assert.NoError(err)
	assert.True(result.Halted())
	assert.Equal(byte(7), result.Code())
	assert.Equal(3, c.Ticks)
	assert.Equal(uint16(4), c.Pc())
}

func TestImplemented(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code        byte
		instruction *nescpu.Instruction
		addressing  addressing.Mode
		length      int
	}){
		{0xea, nescpu.Nop, addressing.ImpliedAddressing, 1},
		{0x00, nescpu.Brk, addressing.ImpliedAddressing, 1},
		{0xa9, nescpu.Lda, addressing.ImmediateAddressing, 2},
		{0xa2, nescpu.Ldx, addressing.ImmediateAddressing, 2},
		{0xa0, nescpu.Ldy, addressing.ImmediateAddressing, 2},
	}

	for _, entry := range table {
		opcode := nescpu.Opcodes[entry.code]
		assert.Equal(entry.instruction, opcode.Instruction, "%02x", entry.code)
		assert.Equal(entry.addressing, opcode.Addressing, "%02x", entry.code)

		c := NewCpu()
		assert.NoError(c.Load([]byte{entry.code, 0x01}))
		_, err := c.Tick()
		assert.NoError(err, "%02x", entry.code)
		assert.Equal(uint16(entry.length), c.Pc(), "%02x", entry.code)
	}
}

func TestLoadFlags(t *testing.T) {
	assert := assert.New(t)

	c := NewCpu()
	assert.NoError(c.Load([]byte{
		0xa2, 0x00, // LDX #0
		0xa0, 0x80, // LDY #$80
	}))

	_, err := c.Tick()
	assert.NoError(err)
	assert.Equal(byte(0), c.X)
	assert.Equal(FLAG_Z, c.Status&(FLAG_Z|FLAG_N))

	_, err = c.Tick()
	assert.NoError(err)
	assert.Equal(byte(0x80), c.Y)
	assert.Equal(FLAG_N, c.Status&(FLAG_Z|FLAG_N))
}

func TestNotImplemented(t *testing.T) {
	assert := assert.New(t)

	c := NewCpu()
	assert.NoError(c.Load([]byte{0x8d, 0x00, 0x02})) // STA $0200

	_, err := c.Tick()
	assert.ErrorIs(err, ErrNotImplemented(""))
	assert.Equal(arch.COND_ABORT, arch.ConditionOf(err))
}

func TestBadOpcode(t *testing.T) {
	assert := assert.New(t)

	for b := range 0x100 {
		c := NewCpu()
		assert.NoError(c.Load([]byte{byte(b)}))

		_, err := c.Tick()
		if err == nil {
			continue
		}
		assert.Equal(arch.COND_ABORT, arch.ConditionOf(err), "%02x", b)
	}
}

func TestLoadTooLarge(t *testing.T) {
	assert := assert.New(t)

	c := NewCpu()
	err := c.Load(make([]byte, 0x10001))
	assert.Equal(arch.COND_FILE_TOO_BIG, arch.ConditionOf(err))
}
