package lookup

import (
	"errors"
	"fmt"
)

// ErrNotFound means the request succeeded but the service knows no product
// matching the barcode.
var ErrNotFound = errors.New("no product match for barcode")

// TransportError is an HTTP or network level failure. StatusCode is 0 when
// the request never reached the server.
type TransportError struct {
	StatusCode int
	Message    string
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("lookup request failed: %s", e.Message)
	}
	return fmt.Sprintf("lookup request failed with status %d: %s", e.StatusCode, e.Message)
}
