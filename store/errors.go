package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates an equality read matched no rows.
	ErrNotFound = errors.New("record not found")

	// ErrBalanceConflict indicates the conditional balance update matched no
	// rows: the expected balance changed underneath the caller.
	ErrBalanceConflict = errors.New("balance changed concurrently")

	// ErrUnexpectedFormat indicates the store returned a payload that is
	// neither a row object nor a list of rows.
	ErrUnexpectedFormat = errors.New("unexpected store response format")
)

// UpstreamError carries a non-2xx response from the store, preserving the
// original status code and body so handlers can forward them transparently.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("store returned %d: %s", e.StatusCode, e.Body)
}
