package lookup

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when the analysis service does not answer within the configured timeout.
	ErrTimeout = errors.New("analysis request timed out")
	// ErrTransport covers everything between us and the service: refused connections, DNS, cancelled contexts.
	ErrTransport = errors.New("analysis request failed")
	// ErrStatus is matched by every *StatusError.
	ErrStatus = errors.New("analysis service returned a non-success status")
	// ErrMalformedResponse is returned when the response body is not a valid analysis response.
	ErrMalformedResponse = errors.New("malformed analysis response")
)

type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d", ErrStatus.Error(), e.Code)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}
