package cpu

// Address map.
const (
	MEMORY_SIZE    = 0x10000 // Total addressable memory.
	SCREEN_ADDRESS = 0xa000  // Start of the 16x16 RGB framebuffer.
	STACK_ADDRESS  = 0xcf00  // Base of the 256 byte stack window.
	STACK_SIZE     = 0x100   // Size of the stack window.
)

// Memory is the flat address space of the machine, with the program
// counter used for sequential instruction and operand fetch.
type Memory struct {
	Data [MEMORY_SIZE]byte
	Pc   uint16
}

// Read8 reads the byte at an address.
func (mem *Memory) Read8(addr uint16) byte {
	return mem.Data[addr]
}

// Write8 writes a byte to an address.
func (mem *Memory) Write8(addr uint16, value byte) {
	mem.Data[addr] = value
}

// FetchNext reads the byte at Pc, and advances Pc.
func (mem *Memory) FetchNext() (value byte) {
	value = mem.Data[mem.Pc]
	mem.Pc++
	return
}

// Fetch16 reads a big-endian 16-bit value at Pc, and advances Pc past it.
func (mem *Memory) Fetch16() uint16 {
	hi := mem.FetchNext()
	lo := mem.FetchNext()
	return uint16(hi)<<8 | uint16(lo)
}

// Reset zeros memory and the program counter.
func (mem *Memory) Reset() {
	clear(mem.Data[:])
	mem.Pc = 0
}

// Load resets memory, then copies a program image to address 0.
func (mem *Memory) Load(image []byte) (err error) {
	if len(image) > MEMORY_SIZE {
		err = ErrProgramTooLarge(len(image))
		return
	}

	mem.Reset()
	copy(mem.Data[:], image)

	return
}

// Window returns a view of size bytes of memory starting at addr.
func (mem *Memory) Window(addr uint16, size int) []byte {
	end := min(int(addr)+size, MEMORY_SIZE)
	return mem.Data[addr:end]
}
