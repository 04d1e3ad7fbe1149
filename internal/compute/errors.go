package compute

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a server, migration or action name does not exist.
var ErrNotFound = errors.New("not found")

// ErrConstraintViolation is returned when a write conflicts with a database constraint.
var ErrConstraintViolation = errors.New("constraint violation")

// ErrStateConflict is returned when an action is not admissible from the
// server's current state.
var ErrStateConflict = errors.New("conflicting server state")

// ErrOperationNotPermitted is returned when the caller lacks the entitlement
// required for an action, such as acting on a locked server.
var ErrOperationNotPermitted = errors.New("operation not permitted")

// ErrDeprecated is returned for actions that have been retired from the API.
var ErrDeprecated = errors.New("action has been deprecated")

// ErrStaleReport is returned when a completion report does not match the task
// currently recorded on the server and has been discarded.
var ErrStaleReport = errors.New("stale completion report")

type ErrValidation struct {
	msg string
}

func NewValidationErrf(format string, args ...any) ErrValidation {
	return ErrValidation{
		msg: fmt.Sprintf(format, args...),
	}
}

func (e ErrValidation) Error() string {
	return e.msg
}
