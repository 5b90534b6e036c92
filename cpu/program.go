package cpu

// Statement is a single assembled source line.
type Statement struct {
	LineNo  int      // Source line number.
	Address uint16   // Address of the first byte.
	Words   []string // Source words, after expansion.
	Bytes   []byte   // Encoded bytes.

	LinkLabel string // Label to resolve at link time, if any.
	LinkAt    int    // Offset in Bytes of the 16-bit label address.
}

// Program is an assembled program listing.
type Program struct {
	Statements []Statement
}

// Debug locates the statement containing an address.
type Debug struct {
	*Statement
	Index int // Offset of the address in the statement.
}

// Debug returns the statement for an address, with a nil Statement if none.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, st := range prog.Statements {
		if int(addr) >= int(st.Address) && int(addr) < int(st.Address)+len(st.Bytes) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     int(addr - st.Address),
			}
			break
		}
	}

	return
}

// Binary returns the program image.
func (prog *Program) Binary() (bin []byte) {
	for _, st := range prog.Statements {
		bin = append(bin, st.Bytes...)
	}

	return
}
