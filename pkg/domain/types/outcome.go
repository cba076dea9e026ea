package types

import (
	"strconv"

	"github.com/m-mizutani/goerr/v2"
)

// OutcomeClass is the binary launch outcome (0 = failure, 1 = success)
type OutcomeClass int

const (
	OutcomeFailure OutcomeClass = 0
	OutcomeSuccess OutcomeClass = 1
)

// String returns the class value as it is labeled in charts ("0" or "1")
func (c OutcomeClass) String() string {
	return strconv.Itoa(int(c))
}

// IsValid checks if the class is 0 or 1
func (c OutcomeClass) IsValid() bool {
	switch c {
	case OutcomeFailure, OutcomeSuccess:
		return true
	default:
		return false
	}
}

// IsSuccess returns true for a successful launch
func (c OutcomeClass) IsSuccess() bool {
	return c == OutcomeSuccess
}

// ParseOutcomeClass parses a class cell. Numeric forms such as "1" and "1.0"
// are accepted as long as the value is exactly 0 or 1.
func ParseOutcomeClass(s string) (OutcomeClass, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "class is not a number", goerr.V("value", s))
	}

	switch f {
	case 0:
		return OutcomeFailure, nil
	case 1:
		return OutcomeSuccess, nil
	default:
		return 0, goerr.New("class must be 0 or 1", goerr.V("value", s))
	}
}
