package address

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned for ranges whose start and end cannot be
// reconciled with their common prefix.
var ErrInvalidRange = errors.New("invalid CFI range")

// CheckRange checks a range value made of a common prefix and two
// suffixes. Both suffixes have to address something: a range half without
// steps and without offset would coincide with the prefix itself. A
// redirection marker on the first step of a suffix is allowed only if the
// prefix is non-empty.
func CheckRange(prefix, start, end Path) error {
	if start.IsEmpty() {
		return fmt.Errorf("%w: empty start", ErrInvalidRange)
	}
	if end.IsEmpty() {
		return fmt.Errorf("%w: empty end", ErrInvalidRange)
	}
	if len(prefix.Steps) == 0 {
		if len(start.Steps) == 0 || len(end.Steps) == 0 {
			return fmt.Errorf("%w: offset-only range half without prefix", ErrInvalidRange)
		}
		if start.Steps[0].Redirect || end.Steps[0].Redirect {
			return fmt.Errorf("%w: redirection without prefix", ErrInvalidRange)
		}
	}
	return nil
}
