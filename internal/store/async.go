// Package store holds the client-side state containers. Every
// asynchronous operation moves through pending, fulfilled or rejected,
// and a rejection records a human-readable message while leaving prior
// state intact.
package store

import (
	"errors"
	"fmt"
)

// ErrValidation marks failures caught locally, before any network call.
var ErrValidation = errors.New("validation failed")

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// AsyncState tracks one in-flight operation family. The design assumes at
// most one in-flight instance per operation type; a second call simply
// re-enters pending and its result wins last-write.
type AsyncState struct {
	Loading bool
	Err     string
}

func (a *AsyncState) begin() {
	a.Loading = true
	a.Err = ""
}

func (a *AsyncState) fulfill() {
	a.Loading = false
	a.Err = ""
}

func (a *AsyncState) reject(err error) {
	a.Loading = false
	a.Err = err.Error()
}
