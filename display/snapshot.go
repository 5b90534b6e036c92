package display

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// CreateFS is a file system that supports creating files.
type CreateFS interface {
	// Create creates a new file for writing.
	Create(name string) (file io.WriteCloser, err error)
}

// DirFS creates files in a host directory.
type DirFS string

func (dir DirFS) Create(name string) (file io.WriteCloser, err error) {
	return os.Create(filepath.Join(string(dir), name))
}

// Snapshot writes one PNG file per refresh, named frame-NNNNN.png.
type Snapshot struct {
	FS   CreateFS
	Zoom int // Pixel scale, ZOOM if unset.

	Frames int
}

var _ Display = (*Snapshot)(nil)

func (ss *Snapshot) Refresh(frame []byte) (err error) {
	zoom := ss.Zoom
	if zoom == 0 {
		zoom = ZOOM
	}

	img, err := Image(frame, zoom)
	if err != nil {
		return
	}

	file, err := ss.FS.Create(fmt.Sprintf("frame-%05d.png", ss.Frames))
	if err != nil {
		return
	}

	err = png.Encode(file, img)
	if err != nil {
		file.Close()
		return
	}

	err = file.Close()
	if err != nil {
		return
	}

	ss.Frames++

	return
}
