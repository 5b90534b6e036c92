package display

import (
	"slices"
)

// Headless keeps the last frame in memory, and counts refreshes.
type Headless struct {
	Frames int
	Last   []byte

	closed bool
}

var _ Display = (*Headless)(nil)

func (hd *Headless) Refresh(frame []byte) (err error) {
	if hd.closed {
		err = ErrClosed
		return
	}
	if len(frame) != SIZE {
		err = ErrFrameSize
		return
	}

	hd.Frames++
	hd.Last = slices.Clone(frame)

	return
}

// Close makes all further refreshes fail with ErrClosed.
func (hd *Headless) Close() error {
	hd.closed = true
	return nil
}
