package league

import (
	"errors"
	"fmt"
	"strings"
)

// Status classifies the outcome of a league operation.
type Status int

const (
	Success Status = iota
	Failure
	InvalidInput
	AllocationError
)

var statusNames = [...]string{
	Success:         "SUCCESS",
	Failure:         "FAILURE",
	InvalidInput:    "INVALID_INPUT",
	AllocationError: "ALLOCATION_ERROR",
}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Err returns the sentinel error for s, or nil for Success.
func (s Status) Err() error {
	switch s {
	case Success:
		return nil
	case Failure:
		return ErrFailure
	case InvalidInput:
		return ErrInvalidInput
	case AllocationError:
		return ErrAllocation
	default:
		return fmt.Errorf("%w: unknown status %d", ErrFailure, int(s))
	}
}

// StatusOf maps an error produced by Status.Err, possibly wrapped, back to
// its Status. nil is Success; unrelated errors are Failure.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrInvalidInput):
		return InvalidInput
	case errors.Is(err, ErrAllocation):
		return AllocationError
	default:
		return Failure
	}
}

// ParseStatus converts a status name such as "INVALID_INPUT" back to a Status.
func ParseStatus(name string) (Status, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for s, n := range statusNames {
		if n == name {
			return Status(s), nil
		}
	}
	return Failure, fmt.Errorf("unknown status %q", name)
}

// Output is a status plus the value returned by record queries. Value is
// meaningful only when Status is Success.
type Output struct {
	Status Status
	Value  int
}

func ok(v int) Output { return Output{Status: Success, Value: v} }

func fail(s Status) Output { return Output{Status: s} }
