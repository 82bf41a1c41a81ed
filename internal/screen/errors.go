package screen

import "github.com/pkg/errors"

var (
	// ErrPermissionDenied is returned when the role lacks the action.
	ErrPermissionDenied = errors.New("the current role does not allow this action")

	// ErrSubmitNotAllowed is returned by Submit when the form is closed,
	// read-only, or the role lacks the permission for its mode.
	ErrSubmitNotAllowed = errors.New("the form cannot be submitted in its current state")

	// ErrValidationFailed is returned by Submit when client-side checks
	// fail; the messages are on the form, nothing was sent.
	ErrValidationFailed = errors.New("the form did not pass validation")
)
