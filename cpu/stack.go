package cpu

// Stack is a 256 byte LIFO window over Memory, starting at Base.
//
// The slot for cursor value sp is Base + (255 - sp), so the stack grows
// downwards from the top of the window. Sp wraps silently.
type Stack struct {
	Memory *Memory
	Base   uint16
	Sp     byte
}

func (s *Stack) slot(sp byte) uint16 {
	return s.Base + uint16(255-sp)
}

// Push writes a byte to the slot at Sp, then increments Sp.
func (s *Stack) Push(value byte) {
	s.Memory.Write8(s.slot(s.Sp), value)
	s.Sp++
}

// Pop decrements Sp, then reads that slot.
func (s *Stack) Pop() (value byte) {
	s.Sp--
	value = s.Memory.Read8(s.slot(s.Sp))
	return
}

// Peek returns the byte the next Pop would return.
func (s *Stack) Peek() byte {
	return s.Memory.Read8(s.slot(s.Sp - 1))
}

// Push16 pushes the high byte, then the low byte.
func (s *Stack) Push16(value uint16) {
	s.Push(byte(value >> 8))
	s.Push(byte(value))
}

// Pop16 inverts Push16.
func (s *Stack) Pop16() uint16 {
	lo := s.Pop()
	hi := s.Pop()
	return uint16(hi)<<8 | uint16(lo)
}

// Depth returns the number of bytes pushed.
func (s *Stack) Depth() int {
	return int(s.Sp)
}

func (s *Stack) Reset() {
	s.Sp = 0
}
