package bn

import (
	"errors"
	"fmt"
)

// Errors returned for malformed input at the package boundary.
var (
	ErrInvalidBase    = errors.New("bn: base must be between 2 and 36")
	ErrInvalidDigit   = errors.New("bn: invalid digit for base")
	ErrEmptyString    = errors.New("bn: empty number string")
	ErrBufferTooSmall = errors.New("bn: byte array longer than desired length")
	ErrUnknownPrime   = errors.New("bn: unknown prime name")
	ErrOverflow       = errors.New("bn: number does not fit in 64 bits")
)

// invariant panics when an internal invariant is broken. These are programmer
// errors (length/sign mismatches, red/non-red misuse), not user input errors.
func invariant(cond bool, msg string) {
	if !cond {
		panic("bn: " + msg)
	}
}

func invariantf(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf("bn: "+format, args...))
	}
}
