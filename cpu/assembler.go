// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/neodymium/display"
	"github.com/ezrec/neodymium/internal"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

var _asm_defines = map[string]string{
	"LINENO": "0",
}

// sysEquate returns the predefined system equates.
func sysEquate() map[string]string {
	return maps.Collect(internal.IterSeq2Concat(
		maps.All(_asm_defines),
		maps.All(_cpu_defines),
		display.Defines(),
	))
}

// Assembler is a single pass macro assembler for the Neo8 machine.
type Assembler struct {
	Verbose   bool        // If set, verbosely logs the assembler actions.
	Statement []Statement // List of generated statements.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	origin     int // Address of the next statement.
	expansions int // Count of macro expansions, for local labels.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// resolve substitutes an equate for a word, if there is one.
func (asm *Assembler) resolve(word string) string {
	for range 8 {
		equate, ok := asm.Equate[word]
		if !ok || equate == word {
			break
		}
		word = equate
	}

	return word
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	word = asm.resolve(word)
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// byteOf returns the value of a word, as a byte.
// Negative values down to -128 are stored in two's complement.
func (asm *Assembler) byteOf(word string) (value byte, err error) {
	v64, err := asm.valueOf(word)
	if err != nil {
		return
	}
	if v64 < -128 || v64 > 0xff {
		err = ErrValueRange
		return
	}

	value = byte(v64)
	return
}

// registerOf returns the register address of a '$x' word.
func (asm *Assembler) registerOf(word string) (addr byte, err error) {
	word = asm.resolve(word)
	if !strings.HasPrefix(word, "$") {
		err = ErrRegisterInvalid
		return
	}

	name := word[1:]
	if name == "z" {
		addr = REG_SINK
		return
	}

	v64, err := strconv.ParseInt(name, 0, 16)
	if err != nil || (v64 >= REGISTERS && v64 != REG_SINK) || v64 < 0 {
		err = ErrRegisterInvalid
		return
	}

	addr = byte(v64)
	return
}

// isLabel is true for words that can name a label.
var isLabel = regexp.MustCompile(`^[A-Za-z_@][A-Za-z0-9_@.]*$`).MatchString

// operandOf encodes a single operand.
// A label operand is returned in label, with a zero address.
func (asm *Assembler) operandOf(word string) (kind Operand, data []byte, label string, err error) {
	word = asm.resolve(word)

	switch {
	case strings.HasPrefix(word, "$"):
		var reg byte
		reg, err = asm.registerOf(word)
		kind = OPERAND_REG
		data = []byte{reg}
	case strings.HasPrefix(word, "#"):
		var value byte
		value, err = asm.byteOf(word[1:])
		kind = OPERAND_IMM
		data = []byte{value}
	case strings.HasPrefix(word, "[") && strings.HasSuffix(word, "]"):
		inner := word[1 : len(word)-1]
		parts := strings.Split(inner, ",")
		switch len(parts) {
		case 1:
			kind = OPERAND_ADDR
			target := asm.resolve(strings.TrimPrefix(parts[0], "#"))
			var v64 int64
			v64, err = asm.valueOf(target)
			if err == nil {
				if v64 < 0 || v64 > 0xffff {
					err = ErrAddressRange
					return
				}
				data = []byte{byte(v64 >> 8), byte(v64)}
				return
			}
			if !isLabel(target) {
				return
			}
			err = nil
			label = target
			data = []byte{0, 0}
		case 2:
			kind = OPERAND_PAIR
			var hi, lo byte
			hi, err = asm.registerOf(parts[0])
			if err != nil {
				return
			}
			lo, err = asm.registerOf(parts[1])
			data = []byte{hi, lo}
		default:
			err = ErrOperandInvalid
		}
	default:
		err = ErrOperandInvalid
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key := range asm.Equate {
		var v64 int64
		v64, err = asm.valueOf(key)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}
	err = nil
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
)

// splitWords splits a line on spaces and commas, keeping bracketed
// operands as a single word.
func splitWords(line string) (words []string, err error) {
	var word strings.Builder
	depth := 0

	flush := func() {
		if word.Len() > 0 {
			words = append(words, word.String())
			word.Reset()
		}
	}

	for _, r := range line {
		switch {
		case r == '[':
			if depth > 0 {
				err = ErrOperandInvalid
				return
			}
			flush()
			depth++
			word.WriteRune(r)
		case r == ']':
			if depth == 0 {
				err = ErrOperandInvalid
				return
			}
			depth--
			word.WriteRune(r)
			flush()
		case r == ' ' || r == '\t':
			if depth == 0 {
				flush()
			}
		case r == ',':
			if depth == 0 {
				flush()
			} else {
				word.WriteRune(r)
			}
		default:
			word.WriteRune(r)
		}
	}

	if depth != 0 {
		err = ErrOperandInvalid
		return
	}
	flush()

	return
}

// parseLine parses a single line into words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "'":
				str = "'"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words, err = splitWords(line)
	if err != nil || len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !isLabel(label) {
			err = ErrOperandInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.origin
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = args[n]
		}
		defer func() { asm.Equate = old_equate }()

		asm.expansions++
		local := fmt.Sprintf("%v_%v_", name, asm.expansions)
		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Statement = asm.Statement[:0]
	asm.origin = 0
	asm.expansions = 0
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = sysEquate()
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.SplitN(text, ";", 2)
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Statement {
		st := &asm.Statement[n]

		if len(st.LinkLabel) == 0 {
			continue
		}
		label := st.LinkLabel
		addr, ok := asm.Label[label]
		if !ok {
			lineno = st.LineNo
			line = strings.Join(st.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		st.Bytes[st.LinkAt] = byte(addr >> 8)
		st.Bytes[st.LinkAt+1] = byte(addr)
	}

	prog = &Program{
		Statements: slices.Clone(asm.Statement),
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var data []byte
	var label string
	var link_at int

	// no-op
	if len(words) == 0 {
		return
	}

	defer func() {
		if err != nil || len(data) == 0 {
			return
		}
		if asm.origin+len(data) > MEMORY_SIZE {
			err = ErrAddressRange
			return
		}
		st := Statement{
			LineNo:    lineno,
			Address:   uint16(asm.origin),
			Words:     words,
			Bytes:     data,
			LinkLabel: label,
			LinkAt:    link_at,
		}
		asm.Statement = append(asm.Statement, st)
		asm.origin += len(data)
	}()

	switch words[0] {
	case ".org":
		if len(words) != 2 {
			err = ErrOrgSyntax
			return
		}
		var org int64
		org, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if org < int64(asm.origin) || org > MEMORY_SIZE {
			err = ErrOrgSyntax
			return
		}
		data = make([]byte, int(org)-asm.origin)
		return
	case ".byte":
		if len(words) < 2 {
			err = ErrByteSyntax
			return
		}
		for _, word := range words[1:] {
			var value byte
			value, err = asm.byteOf(word)
			if err != nil {
				return
			}
			data = append(data, value)
		}
		return
	}

	mnemonic := strings.ToUpper(words[0])
	if _, ok := _mnemonics[mnemonic]; !ok {
		err = ErrInstructionInvalid
		return
	}

	kinds := make([]Operand, 0, len(words)-1)
	encoded := []byte{0}
	for _, word := range words[1:] {
		var kind Operand
		var bytes []byte
		var word_label string
		kind, bytes, word_label, err = asm.operandOf(word)
		if err != nil {
			return
		}
		if len(word_label) != 0 {
			label = word_label
			link_at = len(encoded)
		}
		kinds = append(kinds, kind)
		encoded = append(encoded, bytes...)
	}

	op, ok := Lookup(mnemonic, kinds)
	if !ok {
		err = ErrOperandInvalid
		return
	}

	encoded[0] = byte(op)
	data = encoded

	return
}
