package emulator

import (
	"errors"
	"io/fs"
	"os"

	"github.com/ezrec/neodymium/arch"
	"github.com/ezrec/neodymium/cpu"
)

// ReadImage reads a program image from the host.
func ReadImage(path string) (image []byte, err error) {
	if len(path) == 0 {
		err = arch.COND_NO_FILE_ARG
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		cond := arch.COND_FILE_OPEN
		if errors.Is(err, fs.ErrNotExist) {
			cond = arch.COND_FILE_NOT_FOUND
		}
		err = &ErrImage{Path: path, Condition: cond, Err: err}
		return
	}

	if info.Mode().IsRegular() && info.Size() > cpu.MEMORY_SIZE {
		err = &ErrImage{Path: path, Condition: arch.COND_FILE_TOO_BIG, Err: cpu.ErrProgramTooLarge(info.Size())}
		return
	}

	image, err = os.ReadFile(path)
	if err != nil {
		err = &ErrImage{Path: path, Condition: arch.COND_FILE_OPEN, Err: err}
		image = nil
		return
	}

	if len(image) > cpu.MEMORY_SIZE {
		err = &ErrImage{Path: path, Condition: arch.COND_FILE_TOO_BIG, Err: cpu.ErrProgramTooLarge(len(image))}
		image = nil
		return
	}

	return
}
