package display

import (
	"errors"
)

// Tee refreshes several displays. A closed display closes the tee.
type Tee []Display

var _ Display = (Tee)(nil)

func (tee Tee) Refresh(frame []byte) (err error) {
	var errs []error
	for _, disp := range tee {
		rerr := disp.Refresh(frame)
		if errors.Is(rerr, ErrClosed) {
			return ErrClosed
		}
		if rerr != nil {
			errs = append(errs, rerr)
		}
	}

	return errors.Join(errs...)
}
