package labform

import (
	"errors"
	"strings"
)

// ErrUnvalidated is returned when a write is attempted with a zero Validated token.
var ErrUnvalidated = errors.New("labform: value has not been validated")

// ValidationError is a field-scoped rejection meant to be shown to the user.
type ValidationError struct {
	Field   Field
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// FormError carries every rule a whole form violated.
type FormError struct {
	Errors  []string
	Missing []Field
	Invalid []Field
}

func (e *FormError) Error() string {
	return "form validation failed: " + strings.Join(e.Errors, "; ")
}
