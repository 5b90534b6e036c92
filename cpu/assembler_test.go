package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assemble(t *testing.T, program ...string) (prog *Program) {
	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Statements))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("0xcf00", asm.Equate["STACK_ADDRESS"])
	assert.Equal("0xa000", asm.Equate["SCREEN_ADDRESS"])
	assert.Equal("16", asm.Equate["SCREEN_WIDTH"])
	assert.Equal("16", asm.Equate["SCREEN_HEIGHT"])
	assert.Equal("768", asm.Equate["SCREEN_SIZE"])
	assert.Equal("65536", asm.Equate["MEMORY_SIZE"])
}

func TestAssemblerMovHalt(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"MOV $0, #5 ; load",
		"HALT",
	)

	assert.Equal([]byte{0x02, 0x00, 0x05, 0xff}, prog.Binary())

	expected := []Statement{
		{1, 0, []string{"MOV", "$0", "#5"}, []byte{0x02, 0x00, 0x05}, "", 0},
		{2, 3, []string{"HALT"}, []byte{0xff}, "", 0},
	}
	assert.Equal(expected, prog.Statements)
}

func TestAssemblerForms(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line   string
		binary []byte
	}){
		{"NOP", []byte{0x00}},
		{"MOV $1, $2", []byte{0x01, 0x01, 0x02}},
		{"MOV $1,[#0x1234]", []byte{0x03, 0x01, 0x12, 0x34}},
		{"MOV $1, [$2, $3]", []byte{0x04, 0x01, 0x02, 0x03}},
		{"NOT $z", []byte{0x10, 0xff}},
		{"AND $0, $255", []byte{0x11, 0x00, 0xff}},
		{"AND $0, #0x0f", []byte{0x12, 0x00, 0x0f}},
		{"CMP $0, #'A'", []byte{0x22, 0x00, 0x41}},
		{"CMP $0, $1", []byte{0x23, 0x00, 0x01}},
		{"JNO [$4,$5]", []byte{0x2f, 0x04, 0x05}},
		{"PUSH #-1", []byte{0x31, 0xff}},
		{"PUSH $6", []byte{0x30, 0x06}},
		{"POP $7", []byte{0x32, 0x07}},
		{"SUB $1, #2", []byte{0x43, 0x01, 0x02}},
		{"PWR $1, #2", []byte{0x4a, 0x01, 0x02}},
		{"PWR $1, $2", []byte{0x4b, 0x01, 0x02}},
		{"SQRT $4", []byte{0x4c, 0x04}},
		{"FSQRT $4", []byte{0x4d, 0x04}},
		{"MOD $1, $2", []byte{0x4e, 0x01, 0x02}},
		{"MOD $1, #2", []byte{0x4f, 0x01, 0x02}},
		{"CALL [$0,$1]", []byte{0x51, 0x00, 0x01}},
		{"RET", []byte{0x52}},
		{"STORE [$0,$1], $2", []byte{0x60, 0x00, 0x01, 0x02}},
		{"STORE [#0xa000], #255", []byte{0x63, 0xa0, 0x00, 0xff}},
		{"STORE [SCREEN_ADDRESS], #1", []byte{0x63, 0xa0, 0x00, 0x01}},
		{"FLUSH", []byte{0x70}},
		{"HALT $3", []byte{0xfd, 0x03}},
		{"HALT #1", []byte{0xfe, 0x01}},
		{"halt", []byte{0xff}},
		{"MOV $0, #$(SCREEN_WIDTH * 2)", []byte{0x02, 0x00, 0x20}},
		{"MOV $0, #'\\n'", []byte{0x02, 0x00, 0x0a}},
		{".byte 1 2 'c' -1", []byte{0x01, 0x02, 0x63, 0xff}},
	}

	for _, entry := range table {
		prog := assemble(t, entry.line)
		assert.Equal(entry.binary, prog.Binary(), entry.line)
	}
}

func TestAssemblerLabel(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"JMP [start]",
		".byte 0xaa",
		"start:",
		"",
		"MOV $0, #1",
		"again: AND_ALSO: JNZ [start]",
		"JZ [#again]",
		"HALT",
	)

	assert.Equal([]byte{
		0x20, 0x00, 0x04,
		0xaa,
		0x02, 0x00, 0x01,
		0x26, 0x00, 0x04,
		0x24, 0x00, 0x07,
		0xff,
	}, prog.Binary())

	assert.Equal("start", prog.Statements[0].LinkLabel)
	assert.Equal(1, prog.Statements[0].LinkAt)
}

func TestAssemblerOrg(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"NOP",
		".org 4",
		"HALT",
	)

	assert.Equal([]byte{0x00, 0x00, 0x00, 0x00, 0xff}, prog.Binary())

	dbg := prog.Debug(4)
	assert.NotNil(dbg.Statement)
	assert.Equal(3, dbg.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(2)
	assert.Equal(2, dbg.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(5)
	assert.Nil(dbg.Statement)
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		".equ COUNTER $0",
		".macro SET reg val",
		"MOV reg, val",
		".endm",
		".macro SPIN",
		"@loop: DEC COUNTER",
		"JNZ [@loop]",
		".endm",
		"SET COUNTER #3",
		"SPIN",
		"SET $2, #8",
		"SPIN",
		"HALT",
	)

	assert.Equal([]byte{
		0x02, 0x00, 0x03,
		0x45, 0x00,
		0x26, 0x00, 0x03,
		0x02, 0x02, 0x08,
		0x45, 0x00,
		0x26, 0x00, 0x0b,
		0xff,
	}, prog.Binary())
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("COLOR", "0x20")
	asm.Predefine("COLOR", "0x30")

	prog, err := asm.Parse(strings.NewReader("MOV $0, #COLOR\n"))
	assert.NoError(err)
	assert.Equal([]byte{0x02, 0x00, 0x30}, prog.Binary())
}

func TestAssemblerErrSyntax(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// Various syntax errors
	table := [](struct {
		prog string
		line int
	}){
		{"DUP:\nDUP:\n", 2},
		{"MOV $0, nothing", 1},
		{"MOV $8, #1", 1},
		{"MOV $0, #256", 1},
		{"MOV $0, #-129", 1},
		{"MOV $0, #$(\"aaa\")", 1},
		{"MOV $0, #$(more(\"aaa\"))", 1},
		{"MOV $0", 1},
		{"MOV $0, #1, #2", 1},
		{"BOGUS $0", 1},
		{"NOP\nJMP [nowhere]", 2},
		{"JMP [#0x10000]", 1},
		{"JMP [$0,$1,$2]", 1},
		{"MOV $0, [$1,$2", 1},
		{"MOV $0, $1]", 1},
		{"MOV $0, [[$1]]", 1},
		{".equ", 1},
		{".equ A", 1},
		{".equ A 1\n.equ A 2\n", 2},
		{".macro", 1},
		{".macro A B\n.macro C\n.endm\n.endm", 2},
		{".macro A\n.endm\n.macro A\n.endm\n", 3},
		{".macro A B\n.endm\n.endm\n", 3},
		{".macro A\nNOP\n", 2},
		{".macro A B\n.endm\nA\n", 3},
		{".macro A B\nMOV $0, B\n.endm\nA #1\nA bad\n", 5},
		{".org 2\n.org 1", 2},
		{".org", 1},
		{".org 0x10001", 1},
		{".byte", 1},
		{".byte 300", 1},
		{".org 0xffff\nJMP [#0]", 2},
	}

	for _, entry := range table {
		_, err := asm.Parse(strings.NewReader(entry.prog))
		var se *ErrSyntax
		assert.NotNil(err, entry.prog)
		if err != nil {
			assert.True(errors.As(err, &se), entry.prog)
			assert.Equal(entry.line, se.LineNo, entry.prog)
		}
	}
}

func TestAssemblerRoundTrip(t *testing.T) {
	assert := assert.New(t)

	source := []string{
		"MOV $0, #5",
		"MOV $1, [$2,$z]",
		"STORE [#0xa000], $1",
		"CALL [#0x0010]",
		"FLUSH",
		"HALT #42",
	}

	prog := assemble(t, source...)

	var text []string
	for ins := range Disassemble(prog.Binary()) {
		text = append(text, ins.String())
	}

	assert.Equal(source, text)
}
