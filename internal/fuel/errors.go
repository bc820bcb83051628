package fuel

import (
	"errors"
	"strings"
)

var (
	// ErrUnknownAsset is returned when a dispense names a fleet number the
	// directory does not list.
	ErrUnknownAsset = errors.New("unknown asset")

	// ErrEmptyDirectory is returned when a dispense is submitted before any
	// asset has been registered.
	ErrEmptyDirectory = errors.New("asset directory is empty")

	// ErrInvalid is matched by every *ValidationError.
	ErrInvalid = errors.New("invalid submission")
)

// ValidationError lists every problem found in a submitted transaction.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid submission: " + strings.Join(e.Problems, "; ")
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

type problems []string

func (p *problems) add(msg string) {
	*p = append(*p, msg)
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return &ValidationError{Problems: p}
}
