package display

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
)

// Recorder streams each refresh to Output as a binary PPM image, so the
// stream can be piped into a viewer.
type Recorder struct {
	Output io.Writer
	Zoom   int // Pixel scale, 1 if unset.

	Frames int
}

var _ Display = (*Recorder)(nil)

func (rc *Recorder) Refresh(frame []byte) (err error) {
	img, err := Image(frame, rc.Zoom)
	if err != nil {
		return
	}

	bounds := img.Bounds()
	header := fmt.Sprintf("P6\n%d %d\n255\n", bounds.Dx(), bounds.Dy())
	data := make([]byte, 0, len(header)+bounds.Dx()*bounds.Dy()*DEPTH)
	data = append(data, header...)
	for n := 0; n < len(img.Pix); n += 4 {
		data = append(data, img.Pix[n:n+DEPTH]...)
	}

	_, err = rc.Output.Write(data)
	if err != nil {
		if errors.Is(err, os.ErrClosed) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, syscall.EPIPE) {
			err = ErrClosed
		}
		return
	}

	rc.Frames++

	return
}
