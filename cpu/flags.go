package cpu

// Flags are the condition flags set by arithmetic instructions.
type Flags struct {
	Zero      bool // Last result was zero.
	Underflow bool // Last result was below zero.
	Overflow  bool // Last result was above 255.
}

// UpdateFrom recomputes all flags from an untruncated result.
func (fl *Flags) UpdateFrom(result int64) {
	fl.Overflow = result > 255
	fl.Zero = result == 0
	fl.Underflow = result < 0
}

func (fl *Flags) Reset() {
	*fl = Flags{}
}

// String returns the flags as 'zuo', with '-' for clear flags.
func (fl Flags) String() string {
	text := []byte("---")
	if fl.Zero {
		text[0] = 'z'
	}
	if fl.Underflow {
		text[1] = 'u'
	}
	if fl.Overflow {
		text[2] = 'o'
	}
	return string(text)
}
