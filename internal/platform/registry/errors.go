package registry

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateCode = errors.New("duplicate code")
)

// BlockedError is returned by delete guards and guarded operations when a
// business rule refuses the command. Reason is shown to the user as is.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string { return e.Reason }

// Blocked builds a BlockedError with a formatted reason.
func Blocked(format string, args ...interface{}) error {
	return &BlockedError{Reason: fmt.Sprintf(format, args...)}
}

// AsBlocked reports whether err carries a BlockedError.
func AsBlocked(err error) (*BlockedError, bool) {
	var be *BlockedError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
