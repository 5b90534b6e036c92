// Package display provides the external surfaces that render the Neo8
// framebuffer: a 16x16 window of RGB bytes in machine memory.
//
// The machine hands a view of the framebuffer to the attached Display each
// time the program flushes it. The machine does not depend on the display
// succeeding, except for a closed display which terminates the run.
package display

import (
	"fmt"
	"image"
	"image/color"
	"iter"
	"maps"
)

const (
	WIDTH  = 16                     // Framebuffer width in pixels.
	HEIGHT = 16                     // Framebuffer height in pixels.
	DEPTH  = 3                      // Bytes per pixel, as R, G, B.
	SIZE   = WIDTH * HEIGHT * DEPTH // Framebuffer size in bytes.
	ZOOM   = 32                     // Default scale of rendered frames.
)

var _display_defines = map[string]string{
	"SCREEN_WIDTH":  fmt.Sprintf("%v", WIDTH),
	"SCREEN_HEIGHT": fmt.Sprintf("%v", HEIGHT),
	"SCREEN_SIZE":   fmt.Sprintf("%v", SIZE),
}

// Display is an external surface that renders the framebuffer.
type Display interface {
	// Refresh renders a framebuffer of SIZE bytes.
	Refresh(frame []byte) error
}

// Defines returns an iterator over the display defines.
func Defines() iter.Seq2[string, string] {
	return maps.All(_display_defines)
}

// Image renders a framebuffer as an image, scaling each pixel by zoom.
func Image(frame []byte, zoom int) (img *image.RGBA, err error) {
	if len(frame) != SIZE {
		err = ErrFrameSize
		return
	}
	if zoom < 1 {
		zoom = 1
	}

	img = image.NewRGBA(image.Rect(0, 0, WIDTH*zoom, HEIGHT*zoom))
	for y := range HEIGHT {
		for x := range WIDTH {
			pixel := frame[(y*WIDTH+x)*DEPTH:]
			rgb := color.RGBA{R: pixel[0], G: pixel[1], B: pixel[2], A: 0xff}
			for dy := range zoom {
				for dx := range zoom {
					img.SetRGBA(x*zoom+dx, y*zoom+dy, rgb)
				}
			}
		}
	}

	return
}
