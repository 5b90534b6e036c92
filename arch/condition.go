package arch

import (
	"errors"

	"github.com/ezrec/neodymium/translate"
)

var f = translate.From

// NON_SIGNAL_PREFIX separates signal-like conditions from host conditions.
const NON_SIGNAL_PREFIX = 128

// Condition is a named fatal termination class.
type Condition byte

const (
	COND_ABORT          = Condition(6)  // Abnormal termination.
	COND_KILLED         = Condition(9)  // Signal killed.
	COND_SEGFAULT       = Condition(11) // Segmentation fault.
	COND_OS_UNSUPPORTED = Condition(NON_SIGNAL_PREFIX + 1)
	COND_NO_FILE_ARG    = Condition(NON_SIGNAL_PREFIX + 2)
	COND_FILE_NOT_FOUND = Condition(NON_SIGNAL_PREFIX + 3)
	COND_FILE_TOO_BIG   = Condition(NON_SIGNAL_PREFIX + 4)
	COND_FILE_OPEN      = Condition(NON_SIGNAL_PREFIX + 5)
)

var conditionText = map[Condition]string{
	COND_ABORT:          "Abnormal termination.",
	COND_KILLED:         "Signal killed.",
	COND_SEGFAULT:       "Segmentation fault.",
	COND_OS_UNSUPPORTED: "Your OS isn't supported.",
	COND_NO_FILE_ARG:    "No file argument provided.",
	COND_FILE_NOT_FOUND: "File not found.",
	COND_FILE_TOO_BIG:   "File too big.",
	COND_FILE_OPEN:      "Error opening file.",
}

func (cond Condition) Error() string {
	text, ok := conditionText[cond]
	if !ok {
		return f("Unknown condition %d.", byte(cond))
	}
	return f(text)
}

// ExitCode returns the process exit status for the condition.
func (cond Condition) ExitCode() int {
	if cond <= NON_SIGNAL_PREFIX {
		return NON_SIGNAL_PREFIX + int(cond)
	}
	return int(cond) - NON_SIGNAL_PREFIX
}

// ErrFault is a fixed fatal fault, belonging to a condition.
type ErrFault struct {
	Condition Condition
	Reason    string
}

// Fault creates a new fatal fault.
func Fault(cond Condition, reason string) *ErrFault {
	return &ErrFault{Condition: cond, Reason: reason}
}

func (err *ErrFault) Error() string {
	return err.Reason
}

func (err *ErrFault) Unwrap() error {
	return err.Condition
}

// ConditionOf returns the condition carried by an error chain.
// Errors without a condition are abnormal terminations.
func ConditionOf(err error) (cond Condition) {
	if errors.As(err, &cond) {
		return
	}

	return COND_ABORT
}

// ExitCode maps an error to a process exit status.
func ExitCode(err error) int {
	return ConditionOf(err).ExitCode()
}
