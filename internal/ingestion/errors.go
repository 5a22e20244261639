package ingestion

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport matches any *TransportError via errors.Is.
	ErrTransport = errors.New("transport error")

	// ErrEmptyResult means the feed was fetched but nothing survived the
	// vendor filter and typed conversion.
	ErrEmptyResult = errors.New("no records for vendor")
)

// TransportError reports that the raw CSV could not be obtained:
// a network failure (StatusCode 0) or a non-2xx response.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is reports whether target is ErrTransport.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }
